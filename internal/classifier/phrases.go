package classifier

import "github.com/abhisek/didi/internal/session"

// Phrase banks. Latin-script Hinglish, English and Devanagari entries sit
// side by side because students mix them within one sentence.

var stopPhrases = newPhrases(
	[]string{
		"stop", "bye", "goodbye", "good bye", "good night", "quit",
		"band karo", "band kar do", "band kijiye", "bas karo", "khatam karo",
		"i want to stop", "lets stop", "can we stop", "stop for today",
		"aaj ke liye bas", "end the session",
		"बंद करो", "बंद कर दो", "बस करो", "खत्म करो", "ख़त्म करो", "बाय", "अलविदा",
	},
	nil,
	[]string{
		"bas", "done", "enough", "khatam", "finish", "exit", "i am done", "im done",
		"बस", "खत्म", "ख़त्म",
	},
)

var comfortPhrases = newPhrases(
	[]string{
		"i give up", "give up", "haar gaya", "haar gayi", "haar gai",
		"bahut mushkil", "bohot mushkil", "bahut hard", "too hard", "too difficult", "so hard",
		"nahi kar sakta", "nahi kar sakti", "i cant do", "cant do this",
		"mujhse nahi hoga", "nahi hoga mujhse", "kuch nahi hoga",
		"boring", "bore ho", "thak gaya", "thak gayi", "tired",
		"hopeless", "frustrated", "i am stupid", "im stupid",
		"ro raha", "ro rahi", "crying", "gussa", "sad",
		"बहुत मुश्किल", "हार गया", "हार गयी", "हार गई", "थक गया", "थक गई",
		"मुझसे नहीं होगा", "बोर हो",
	},
	nil, nil,
)

var repeatPhrases = newPhrases(
	[]string{
		"repeat", "say again", "say that again", "come again", "pardon",
		"phir se bolo", "phir se boliye", "dobara bolo", "dobara boliye",
		"ek baar phir bolo", "ek baar aur bolo", "kya bola", "kya kaha",
		"sunai nahi", "didnt hear", "did not hear", "what did you say",
		"फिर से बोलो", "फिर से बोलिए", "दोबारा बोलो", "दोबारा बोलिए",
		"सुनाई नहीं", "क्या बोला", "क्या कहा",
	},
	nil,
	[]string{"again", "what", "huh", "kya", "sorry", "क्या", "हैं"},
)

// languagePhrases map a requested language to the phrases that ask for it.
var languagePhrases = map[session.Language]phrases{
	session.LangEnglish: newPhrases(
		[]string{
			"english mein", "english me", "english mai", "in english", "speak english",
			"talk in english", "english please", "only english", "english only",
			"switch to english", "use english", "dont understand hindi",
			"इंग्लिश में", "अंग्रेज़ी में", "अंग्रेजी में",
		},
		nil, []string{"english"},
	),
	session.LangHindi: newPhrases(
		[]string{
			"hindi mein", "hindi me", "hindi mai", "in hindi", "speak hindi",
			"talk in hindi", "hindi please", "only hindi", "switch to hindi",
			"हिंदी में", "हिन्दी में",
		},
		nil, []string{"hindi", "हिंदी", "हिन्दी"},
	),
	session.LangHinglish: newPhrases(
		[]string{
			"hinglish mein", "hinglish me", "in hinglish", "speak hinglish",
			"mix karke bolo", "switch to hinglish",
		},
		nil, []string{"hinglish"},
	),
}

// languageOrder fixes the check order so classification is deterministic.
var languageOrder = []session.Language{session.LangHinglish, session.LangEnglish, session.LangHindi}

var conceptPhrases = newPhrases(
	[]string{
		"explain", "explain karo", "samjhao", "samjhaiye", "samjha do",
		"kya hai ye", "ye kya hai", "yeh kya hai", "kya matlab", "iska matlab",
		"matlab kya", "what is this", "what is a", "what are", "what does",
		"what do you mean", "how do", "how does", "how to", "why",
		"kyun", "kyon", "kaise karte", "kaise karein", "kaise hota",
		"teach me", "sikhao", "sikha do", "concept",
		"समझाओ", "समझाइए", "समझा दो", "क्या है", "क्या मतलब", "क्यों",
		"कैसे करते", "सिखाओ",
	},
	nil, nil,
)

var dontKnowPhrases = newPhrases(
	[]string{
		"i dont know", "i do not know", "dont know", "idk", "no idea", "no clue",
		"not sure", "nahi pata", "pata nahi", "nahi maloom", "maloom nahi",
		"nahi aata", "nahi aati", "nahi samjha", "nahi samjhi", "nahi samajh",
		"samajh nahi", "samjha nahi", "samajh mein nahi", "confused", "confusing",
		"i dont understand", "dont get it", "mushkil", "difficult", "hard",
		"phir se", "explain again", "ek baar aur", "skip",
		"tell me the answer", "just tell me", "what is the answer",
		"answer batao", "batao na", "bata do", "aap batao", "help me", "help",
		"मुझे नहीं पता", "नहीं पता", "पता नहीं", "नहीं समझा", "नहीं समझी",
		"समझ नहीं", "मुश्किल", "नहीं आता", "फिर से",
	},
	nil, nil,
)

var ackPhrases = newPhrases(
	[]string{
		"got it", "makes sense", "samajh aa gaya", "samajh aa gayi", "samajh gaya",
		"samajh gayi", "समझ गया", "समझ गयी", "समझ गई", "समझ आ गया",
	},
	[]string{
		"haan", "haa", "han", "ha", "yes", "yeah", "yep", "yup", "ok", "okay", "okk",
		"theek", "thik", "theek hai", "thik hai", "accha", "acha", "achha",
		"samjha", "samjhi", "understood", "i understand", "i see", "right",
		"alright", "sure", "fine", "ji", "ji haan", "hmm", "cool", "ready",
		"chalo", "shuru karo", "start", "lets start", "lets go", "next", "aage", "agla",
		"namaste", "hello", "hi", "hey",
		"हाँ", "हां", "जी", "ठीक", "ठीक है", "अच्छा", "आगे", "चलो", "नमस्ते",
	},
	nil,
)

// yesNoPhrases are bare yes or no replies, answers to yes/no questions.
var yesNoPhrases = newPhrases(
	nil,
	nil,
	[]string{
		"haan", "haa", "han", "ha", "yes", "yeah", "yep", "ji", "ji haan", "haan ji",
		"no", "nope", "nahi", "nahin", "na", "ji nahi",
		"हाँ", "हां", "जी", "जी हाँ", "नहीं", "नही",
		"yes it is", "no it is not", "haan hai", "nahi hai",
	},
)

var offTopicPhrases = newPhrases(
	[]string{
		"who are you", "your name", "aapka naam", "tumhara naam", "tell me a joke",
		"joke", "sing a song", "gaana", "play a game", "cricket", "movie",
		"youtube", "how are you", "kaise ho", "are you a robot", "are you real",
		"are you human", "homework", "weather", "lol", "haha", "hahaha",
		"तुम कौन हो", "आपका नाम", "कैसे हो",
	},
	nil, nil,
)

// noisePhrases are what speech recognizers hallucinate from background
// audio. They carry no student intent.
var noisePhrases = newPhrases(
	[]string{
		"thanks for watching", "thank you for watching", "subscribe",
		"subtitles by", "music playing", "applause", "all rights reserved",
	},
	nil,
	[]string{"silence", "inaudible", "noise", "blank audio"},
)
