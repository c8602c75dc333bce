// Package classifier maps a student utterance to exactly one intent
// category. Classification is rule based and deterministic.
package classifier

// Category is the classified intent of an utterance. The set is closed.
type Category string

const (
	CategoryAck            Category = "ACK"
	CategoryDontKnow       Category = "DONT_KNOW"
	CategoryRepeat         Category = "REPEAT"
	CategoryAnswer         Category = "ANSWER"
	CategoryLanguageSwitch Category = "LANGUAGE_SWITCH"
	CategoryConceptRequest Category = "CONCEPT_REQUEST"
	CategoryComfort        Category = "COMFORT"
	CategoryStop           Category = "STOP"
	CategoryOffTopic       Category = "OFF_TOPIC"
	CategoryUnintelligible Category = "UNINTELLIGIBLE"
)

// AllCategories lists every category.
var AllCategories = []Category{
	CategoryAck,
	CategoryDontKnow,
	CategoryRepeat,
	CategoryAnswer,
	CategoryLanguageSwitch,
	CategoryConceptRequest,
	CategoryComfort,
	CategoryStop,
	CategoryOffTopic,
	CategoryUnintelligible,
}

// Valid reports whether c is in the closed set.
func (c Category) Valid() bool {
	for _, k := range AllCategories {
		if c == k {
			return true
		}
	}
	return false
}
