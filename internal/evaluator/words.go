package evaluator

// Word tables for spoken answers. Keys are lowercase; Devanagari entries are
// matched as written. Transcribers spell the same word several ways, so most
// numbers carry more than one key.

var numberWords = map[string]int64{
	// Hinglish (Latin script)
	"shunya": 0, "sunya": 0,
	"ek": 1, "do": 2, "teen": 3, "char": 4, "chaar": 4,
	"paanch": 5, "panch": 5, "chhe": 6, "cheh": 6, "chheh": 6, "chhah": 6,
	"saat": 7, "aath": 8, "nau": 9, "das": 10,
	"gyarah": 11, "gyaarah": 11, "barah": 12, "baara": 12, "baarah": 12,
	"terah": 13, "chaudah": 14, "pandrah": 15, "solah": 16, "satrah": 17,
	"atharah": 18, "athaara": 18, "unnis": 19, "unees": 19, "bees": 20,
	"ekkees": 21, "baees": 22, "tees": 30, "chalis": 40, "chaalis": 40,
	"chawalees": 44, "pachaas": 50, "pachas": 50, "saath": 60,
	"sattar": 70, "assi": 80, "nabbe": 90,

	// Hindi (Devanagari)
	"शून्य": 0, "एक": 1, "दो": 2, "तीन": 3, "चार": 4, "पांच": 5, "पाँच": 5,
	"छह": 6, "छः": 6, "छे": 6, "सात": 7, "आठ": 8, "नौ": 9, "दस": 10,
	"ग्यारह": 11, "बारह": 12, "तेरह": 13, "चौदह": 14, "पंद्रह": 15,
	"सोलह": 16, "सत्रह": 17, "अठारह": 18, "उन्नीस": 19, "बीस": 20,
	"तीस": 30, "चालीस": 40, "पचास": 50, "साठ": 60, "सत्तर": 70,
	"अस्सी": 80, "नब्बे": 90,

	// English digits spelled in Devanagari by Hindi transcribers
	"ज़ीरो": 0, "जीरो": 0, "वन": 1, "वान": 1, "टू": 2, "तू": 2, "थ्री": 3,
	"फोर": 4, "फ़ोर": 4, "फाइव": 5, "फ़ाइव": 5, "सिक्स": 6, "सेवन": 7,
	"एट": 8, "ऐट": 8, "नाइन": 9, "टेन": 10,

	// English
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18,
	"nineteen": 19, "twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// multiplierWords scale the number spoken before them.
var multiplierWords = map[string]int64{
	"hundred": 100, "sau": 100, "सौ": 100,
	"thousand": 1000, "hazaar": 1000, "hazar": 1000, "हज़ार": 1000, "हजार": 1000,
}

// fractionWords name a denominator: "half" alone is 1/2, "two thirds" is 2/3.
var fractionWords = map[string]int64{
	"half": 2, "halves": 2, "aadha": 2, "adha": 2, "आधा": 2,
	"third": 3, "thirds": 3, "tihaayi": 3, "tihai": 3, "तिहाई": 3,
	"quarter": 4, "quarters": 4, "fourth": 4, "fourths": 4, "chauthai": 4, "चौथाई": 4,
	"fifth": 5, "fifths": 5, "paanchva": 5,
	"sixth": 6, "sixths": 6, "seventh": 7, "sevenths": 7,
	"eighth": 8, "eighths": 8, "ninth": 9, "ninths": 9, "tenth": 10, "tenths": 10,
}

// mixedWords are whole spoken values that are not integers.
var mixedWords = map[string]Rational{
	"dedh": {Num: 3, Den: 2}, "डेढ़": {Num: 3, Den: 2},
	"dhai": {Num: 5, Den: 2}, "ढाई": {Num: 5, Den: 2},
}

var negativeWords = map[string]bool{
	"-": true, "−": true, "minus": true, "negative": true, "neg": true,
	"माइनस": true, "मिनस": true, "मैनस": true, "ऋण": true,
}

// separatorWords join a numerator and denominator.
var separatorWords = map[string]bool{
	"/": true, "by": true, "baata": true, "bata": true, "batta": true,
	"upon": true, "over": true, "बटा": true, "बाई": true, "बाइ": true,
	"बाय": true, "ओवर": true, "अपॉन": true,
}

// skipWords are dropped without breaking a number phrase ("divided by").
var skipWords = map[string]bool{
	"divided": true, "डिवाइडेड": true,
}

// fillerPrefixes are stripped before extraction.
var fillerPrefixes = []string{
	"the answer is", "answer is", "my answer is", "i think it's", "i think it is",
	"i think", "it's", "it is", "mera answer hai", "mera jawab hai",
	"jawab hai", "answer hai", "x equals",
}

// pointWords mark a spoken decimal point: "zero point five".
var pointWords = map[string]bool{
	"point": true, "dashamlav": true, "dashmalav": true,
	"पॉइंट": true, "प्वाइंट": true, "दशमलव": true,
}

// yesWords and noWords resolve yes/no questions.
var yesWords = map[string]bool{
	"yes": true, "yeah": true, "haan": true, "haa": true, "ha": true, "han": true,
	"haanji": true, "ji": true, "हाँ": true, "हां": true, "true": true,
}

var noWords = map[string]bool{
	"no": true, "nope": true, "nahi": true, "nahin": true, "na": true,
	"नहीं": true, "नही": true, "false": true,
}

// devanagariDigits maps ०-९ to ASCII.
var devanagariDigits = map[rune]rune{
	'०': '0', '१': '1', '२': '2', '३': '3', '४': '4',
	'५': '5', '६': '6', '७': '7', '८': '8', '९': '9',
}

// phoneticStop lists common words that sound like numbers but almost never
// mean one.
var phoneticStop = map[string]bool{
	"any": true, "own": true, "none": true, "noon": true, "then": true,
	"than": true, "for": true, "free": true, "fear": true, "fire": true,
	"far": true, "fun": true, "fine": true, "tin": true, "tan": true,
	"ton": true, "tone": true, "sex": true, "sick": true, "seen": true,
	"the": true, "and": true, "but": true,
}
