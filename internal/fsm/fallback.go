package fsm

import (
	"github.com/abhisek/didi/internal/content"
	"github.com/abhisek/didi/internal/session"
)

// fallbacks are the pre-written safe replies, one per state. They are used
// when phrasing fails or every candidate is rejected, and never mention
// content, verdicts or counters.
var fallbacks = map[session.State]content.Text{
	session.StateGreeting: {
		Hinglish: "Namaste, main Didi hoon, jab ready ho toh bataiye.",
		Hindi:    "नमस्ते, मैं दीदी हूँ, जब तैयार हों तो बताइए।",
		English:  "Hello, I am Didi, tell me when you are ready.",
	},
	session.StateTeaching: {
		Hinglish: "Chaliye isko ek aur tarike se samajhte hain.",
		Hindi:    "चलिए इसे एक और तरीके से समझते हैं।",
		English:  "Let us understand this another way.",
	},
	session.StateAwaitingAnswer: {
		Hinglish: "Aapka answer sunne mein problem aayi, ek baar phir boliye.",
		Hindi:    "आपका उत्तर सुनने में दिक्कत हुई, एक बार फिर बोलिए।",
		English:  "I had trouble with your answer, please say it once more.",
	},
	session.StateHinting: {
		Hinglish: "Koi baat nahi, hint ke baare mein sochiye aur phir boliye.",
		Hindi:    "कोई बात नहीं, संकेत के बारे में सोचिए और फिर बोलिए।",
		English:  "No problem, think about the hint and then answer.",
	},
	session.StateAdvancing: {
		Hinglish: "Chaliye agle sawaal pe chalte hain.",
		Hindi:    "चलिए अगले सवाल पर चलते हैं।",
		English:  "Let us move to the next question.",
	},
	session.StateSessionEnd: {
		Hinglish: "Aaj ki padhai ho gayi, kal phir milte hain.",
		Hindi:    "आज की पढ़ाई हो गई, कल फिर मिलते हैं।",
		English:  "We are done for today, see you tomorrow.",
	},
}

// Fallback returns the safe reply for state in lang. Unknown states get the
// teaching fallback.
func Fallback(state session.State, lang session.Language) string {
	t, ok := fallbacks[state]
	if !ok {
		t = fallbacks[session.StateTeaching]
	}
	return t.For(lang)
}

// retryLine is said when the session itself could not be read, so the
// state and language are unknown.
var retryLine = content.Text{
	Hinglish: "Ek second, mujhe phir se boliye.",
	Hindi:    "एक पल, मुझे फिर से बताइए।",
	English:  "One moment, please say that again.",
}

// RetryLine returns the state-agnostic safe reply in lang.
func RetryLine(lang session.Language) string {
	return retryLine.For(lang)
}
