package dialogue

import "strings"

// Intent is the coarse classification of a caller utterance.
type Intent int

const (
	IntentUnrecognized Intent = iota
	IntentAffirmative
	IntentNegative
)

// Classifier turns a raw utterance into an Intent. The engine takes any
// Classifier so the keyword matcher can later be swapped for a real NLU
// model without touching the state machine.
type Classifier func(utterance string) Intent

var affirmativeWords = []string{
	"yes", "yeah", "yep", "correct", "right", "that's right", "that is correct", "sure", "okay",
}

var negativeWords = []string{
	"no", "nope", "wrong", "incorrect", "that's wrong", "that is wrong",
}

// ClassifyKeywords matches the utterance against fixed word lists. It is
// deliberately permissive substring matching, order-independent within the
// utterance. Negative words are checked first so "incorrect" never reads
// as a confirmation.
func ClassifyKeywords(utterance string) Intent {
	lower := strings.ToLower(strings.TrimSpace(utterance))
	if lower == "" {
		return IntentUnrecognized
	}
	for _, word := range negativeWords {
		if strings.Contains(lower, word) {
			return IntentNegative
		}
	}
	for _, word := range affirmativeWords {
		if strings.Contains(lower, word) {
			return IntentAffirmative
		}
	}
	return IntentUnrecognized
}
