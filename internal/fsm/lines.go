package fsm

import (
	"fmt"
	"strings"

	"github.com/abhisek/didi/internal/content"
	"github.com/abhisek/didi/internal/session"
)

// Canned tutor lines. Each is a single sentence so that a lead line and one
// piece of content stay within two spoken sentences.
var (
	lineGreet = content.Text{
		Hinglish: "Namaste, main Didi hoon aur aaj hum saath mein maths padhenge.",
		Hindi:    "नमस्ते, मैं दीदी हूँ और आज हम साथ में गणित पढ़ेंगे।",
		English:  "Hello, I am Didi and today we will learn maths together.",
	}
	lineReady = content.Text{
		Hinglish: "Jab aap ready hon toh bataiye.",
		Hindi:    "जब आप तैयार हों तो बताइए।",
		English:  "Tell me when you are ready.",
	}
	lineStartTeaching = content.Text{
		Hinglish: "Chaliye shuru karte hain.",
		Hindi:    "चलिए शुरू करते हैं।",
		English:  "Let us begin.",
	}
	lineReteach = content.Text{
		Hinglish: "Koi baat nahi, ek aur tarike se samajhte hain.",
		Hindi:    "कोई बात नहीं, एक और तरीके से समझते हैं।",
		English:  "No problem, let us look at it another way.",
	}
	lineForceQuestion = content.Text{
		Hinglish: "Koi baat nahi, ab yeh sawaal try karte hain: %s",
		Hindi:    "कोई बात नहीं, अब यह सवाल हल करते हैं: %s",
		English:  "No problem, let us try this question now: %s",
	}
	lineExplain = content.Text{
		Hinglish: "Zaroor, main phir se samjhati hoon.",
		Hindi:    "ज़रूर, मैं फिर से समझाती हूँ।",
		English:  "Sure, let me explain it again.",
	}
	lineAskQuestion = content.Text{
		Hinglish: "Ab yeh sawaal suniye: %s",
		Hindi:    "अब यह सवाल सुनिए: %s",
		English:  "Now here is a question: %s",
	}
	lineQuestionAgain = content.Text{
		Hinglish: "Sawaal phir se suniye: %s",
		Hindi:    "सवाल फिर से सुनिए: %s",
		English:  "Here is the question again: %s",
	}
	lineQuestionIs = content.Text{
		Hinglish: "Sawaal yeh hai: %s",
		Hindi:    "सवाल यह है: %s",
		English:  "The question is: %s",
	}
	lineHint = content.Text{
		Hinglish: "Yeh hint suniye: %s",
		Hindi:    "यह संकेत सुनिए: %s",
		English:  "Here is a hint: %s",
	}
	lineHintAgain = content.Text{
		Hinglish: "Hint phir se suniye: %s",
		Hindi:    "संकेत फिर से सुनिए: %s",
		English:  "Here is the hint again: %s",
	}
	lineTryAgain = content.Text{
		Hinglish: "Ek baar phir try kariye.",
		Hindi:    "एक बार फिर कोशिश कीजिए।",
		English:  "Please try once more.",
	}
	lineReveal = content.Text{
		Hinglish: "Koi baat nahi, answer dekhiye: %s",
		Hindi:    "कोई बात नहीं, उत्तर देखिए: %s",
		English:  "No problem, here is the answer: %s",
	}
	lineRevealAfter = content.Text{
		Hinglish: "Aapne %s bola, poora tarika dekhiye: %s",
		Hindi:    "आपने %s कहा, पूरा तरीका देखिए: %s",
		English:  "You said %s, here is how it works: %s",
	}
	lineNextQuestion = content.Text{
		Hinglish: "Agla sawaal: %s",
		Hindi:    "अगला सवाल: %s",
		English:  "Next question: %s",
	}
	lineNewConcept = content.Text{
		Hinglish: "Ab naya topic: %s",
		Hindi:    "अब नया विषय: %s",
		English:  "Now a new topic: %s",
	}
	lineComfort = content.Text{
		Hinglish: "Koi baat nahi, mushkil lagta hai toh hum dheere dheere chalenge.",
		Hindi:    "कोई बात नहीं, मुश्किल लगे तो हम धीरे धीरे चलेंगे।",
		English:  "It is okay, if it feels hard we will go slowly.",
	}
	lineAskRepeat = content.Text{
		Hinglish: "Maaf kijiye, mujhe theek se sunai nahi diya, ek baar phir boliye.",
		Hindi:    "माफ़ कीजिए, मुझे ठीक से सुनाई नहीं दिया, एक बार फिर बोलिए।",
		English:  "Sorry, I could not hear that clearly, please say it again.",
	}
	lineRedirect = content.Text{
		Hinglish: "Woh baad mein, abhi padhai pe dhyan dete hain.",
		Hindi:    "वह बाद में, अभी पढ़ाई पर ध्यान देते हैं।",
		English:  "Let us keep that for later and focus on maths.",
	}
	lineSwitched = content.Text{
		Hinglish: "Theek hai, ab main Hinglish mein baat karungi.",
		Hindi:    "ठीक है, अब मैं हिंदी में बात करूँगी।",
		English:  "Okay, I will speak in English now.",
	}
	lineStop = content.Text{
		Hinglish: "Theek hai, aaj ke liye itna hi.",
		Hindi:    "ठीक है, आज के लिए इतना ही।",
		English:  "Okay, that is all for today.",
	}
	// lineSummary takes (score, asked).
	lineSummary = content.Text{
		Hinglish: "Aapne %[2]d mein se %[1]d sawaal sahi kiye, kal phir milte hain!",
		Hindi:    "आपने %[2]d में से %[1]d सवाल सही किए, कल फिर मिलते हैं!",
		English:  "You got %[1]d of %[2]d questions, see you tomorrow!",
	}
	lineFarewell = content.Text{
		Hinglish: "Aaj ki class ho gayi, kal phir milte hain!",
		Hindi:    "आज की कक्षा हो गई, कल फिर मिलते हैं!",
		English:  "Our class is over for today, see you tomorrow!",
	}
)

// Verdict feedback. Each takes the student's submitted answer.
var (
	lineCorrect = content.Text{
		Hinglish: "Shabash, %s bilkul sahi hai!",
		Hindi:    "शाबाश, %s बिल्कुल सही है!",
		English:  "Well done, %s is correct!",
	}
	lineIncorrect = content.Text{
		Hinglish: "Aapne %s bola, yeh answer nahi hai.",
		Hindi:    "आपने %s कहा, यह उत्तर नहीं है।",
		English:  "You said %s, that is not the answer.",
	}
	lineSignError = content.Text{
		Hinglish: "Aapne %s bola, number theek hai par sign dobara dekhiye.",
		Hindi:    "आपने %s कहा, संख्या ठीक है पर चिह्न दोबारा देखिए।",
		English:  "You said %s, the number is fine but check the sign.",
	}
	lineMissingDenominator = content.Text{
		Hinglish: "Aapne %s bola, upar wala number theek hai par neeche wala bhi chahiye.",
		Hindi:    "आपने %s कहा, ऊपर की संख्या ठीक है पर नीचे की संख्या भी चाहिए।",
		English:  "You said %s, the top number is fine but the bottom number is missing.",
	}
	lineWrongNumerator = content.Text{
		Hinglish: "Aapne %s bola, neeche wala number theek hai par upar wala dobara dekhiye.",
		Hindi:    "आपने %s कहा, नीचे की संख्या ठीक है पर ऊपर की संख्या दोबारा देखिए।",
		English:  "You said %s, the bottom number is fine but check the top one.",
	}
	lineWrongDenominator = content.Text{
		Hinglish: "Aapne %s bola, upar wala number theek hai par neeche wala dobara dekhiye.",
		Hindi:    "आपने %s कहा, ऊपर की संख्या ठीक है पर नीचे की संख्या दोबारा देखिए।",
		English:  "You said %s, the top number is fine but check the bottom one.",
	}
	lineCloseNotExact = content.Text{
		Hinglish: "Aapne %s bola, kaafi paas hai par exact answer chahiye.",
		Hindi:    "आपने %s कहा, काफ़ी पास है पर सटीक उत्तर चाहिए।",
		English:  "You said %s, that is close but I need the exact answer.",
	}
	lineUnparseable = content.Text{
		Hinglish: "Mujhe aapke answer mein number samajh nahi aaya.",
		Hindi:    "मुझे आपके उत्तर में संख्या समझ नहीं आई।",
		English:  "I could not catch a number in your answer.",
	}
)

// part is one sentence of a tutor line. Args of type content.Text are
// resolved in the output language when the line is rendered.
type part struct {
	line content.Text
	args []any
}

func (p part) empty() bool {
	return p.line.Empty()
}

func (p part) render(lang session.Language) string {
	if p.empty() {
		return ""
	}
	if len(p.args) == 0 {
		return p.line.For(lang)
	}
	args := make([]any, len(p.args))
	for i, a := range p.args {
		if t, ok := a.(content.Text); ok {
			args[i] = t.For(lang)
			continue
		}
		args[i] = a
	}
	return fmt.Sprintf(p.line.For(lang), args...)
}

// renderParts joins non-empty parts with a space.
func renderParts(lang session.Language, parts ...part) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := p.render(lang); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " ")
}

// verbatim wraps already-localized text as a line.
func verbatim(t content.Text) part {
	return part{line: t}
}
