package dialogue

import (
	"strconv"
	"strings"
	"time"

	"github.com/peterthehammer1/FongoAI/internal/model/call"
	"github.com/peterthehammer1/FongoAI/internal/validate"
)

// CardOutcome describes what feeding one utterance into the card number did.
type CardOutcome int

const (
	// CardNoDigits means the utterance carried nothing usable.
	CardNoDigits CardOutcome = iota
	// CardIncomplete means digits were accepted and more are needed.
	CardIncomplete
	// CardComplete means the number reached its target length and passed Luhn.
	CardComplete
	// CardLuhnFailed means the full number failed the checksum; digits reset.
	CardLuhnFailed
	// CardOverflow means too many digits arrived; digits reset.
	CardOverflow
	// CardPrefixMismatch means the digits contradict the stated card type;
	// digits and type reset.
	CardPrefixMismatch
)

var spokenCardTypes = []struct {
	keyword  string
	cardType call.CardType
}{
	{"american express", call.CardAmex},
	{"amex", call.CardAmex},
	{"mastercard", call.CardMastercard},
	{"master card", call.CardMastercard},
	{"visa", call.CardVisa},
}

// DetectCardType scans the utterance for a spoken card-network name.
func DetectCardType(utterance string) call.CardType {
	lower := strings.ToLower(utterance)
	for _, entry := range spokenCardTypes {
		if strings.Contains(lower, entry.keyword) {
			return entry.cardType
		}
	}
	return call.CardUnknown
}

// CollectCard folds one utterance into the session's card number. The card
// type comes from a spoken keyword when present, otherwise it is inferred
// from the leading digits once enough of them arrive. Any reset clears only
// the card number, never fields already validated.
func CollectCard(sess *call.Session, utterance string) CardOutcome {
	spoken := DetectCardType(utterance)
	if spoken != call.CardUnknown {
		sess.CardType = spoken
	}

	digits := extractDigits(utterance)
	sess.CardNumber += digits

	if sess.CardType == call.CardUnknown && len(sess.CardNumber) >= 2 {
		sess.CardType = validate.TypeFromPrefix(sess.CardNumber)
	}

	if sess.CardNumber != "" && !validate.PrefixMatches(sess.CardType, sess.CardNumber) {
		sess.CardNumber = ""
		sess.CardType = call.CardUnknown
		return CardPrefixMismatch
	}

	target := validate.CardLength(sess.CardType)
	switch {
	case len(sess.CardNumber) > target:
		sess.CardNumber = ""
		return CardOverflow
	case len(sess.CardNumber) == target:
		if !validate.Luhn(sess.CardNumber) {
			sess.CardNumber = ""
			return CardLuhnFailed
		}
		return CardComplete
	case digits == "":
		if spoken != call.CardUnknown {
			return CardIncomplete
		}
		return CardNoDigits
	default:
		return CardIncomplete
	}
}

// ExpiryOutcome describes the result of parsing one expiry utterance.
type ExpiryOutcome int

const (
	// ExpiryIncomplete means neither a month/year pair nor a lone month was
	// recognized.
	ExpiryIncomplete ExpiryOutcome = iota
	// ExpiryMonthOnly means the month was captured; the year is still needed.
	ExpiryMonthOnly
	// ExpiryComplete means both fields validated and were stored.
	ExpiryComplete
	// ExpiryBadMonth means the month was out of range.
	ExpiryBadMonth
	// ExpiryBadYear means the year was missing four digits or in the past.
	ExpiryBadYear
)

var monthNames = map[string]string{
	"january": "01", "jan": "01",
	"february": "02", "feb": "02",
	"march": "03", "mar": "03",
	"april": "04", "apr": "04",
	"may":  "05",
	"june": "06", "jun": "06",
	"july": "07", "jul": "07",
	"august": "08", "aug": "08",
	"september": "09", "sept": "09", "sep": "09",
	"october": "10", "oct": "10",
	"november": "11", "nov": "11",
	"december": "12", "dec": "12",
}

// CollectExpiry folds one utterance into the expiry fields. Month and year
// may arrive together ("12 2030", "December 2030") or split across two
// turns when only a month is recognized.
func CollectExpiry(sess *call.Session, utterance string, now time.Time) ExpiryOutcome {
	lower := strings.ToLower(utterance)
	digits := extractDigits(lower)
	month := monthFromName(lower)

	// Year sub-turn: the month is already on file.
	if sess.ExpiryMonth != "" && month == "" {
		if len(digits) != 4 {
			return ExpiryBadYear
		}
		return storeYear(sess, sess.ExpiryMonth, digits, now)
	}

	yearDigits := digits
	if month == "" {
		if len(digits) < 2 {
			return ExpiryIncomplete
		}
		month = digits[:2]
		yearDigits = digits[2:]
		if m, _ := strconv.Atoi(month); !validate.ValidMonth(m) {
			// A single-digit month followed by a four-digit year, "3 2030".
			if m1, _ := strconv.Atoi(digits[:1]); validate.ValidMonth(m1) && len(digits) == 5 {
				month = "0" + digits[:1]
				yearDigits = digits[1:]
			} else {
				return ExpiryBadMonth
			}
		}
	}

	if yearDigits == "" {
		sess.ExpiryMonth = month
		return ExpiryMonthOnly
	}
	if len(yearDigits) < 4 {
		return ExpiryIncomplete
	}
	return storeYear(sess, month, yearDigits[:4], now)
}

func storeYear(sess *call.Session, month, year string, now time.Time) ExpiryOutcome {
	y, _ := strconv.Atoi(year)
	if !validate.ValidYear(y, now) {
		return ExpiryBadYear
	}
	sess.ExpiryMonth = month
	sess.ExpiryYear = year
	return ExpiryComplete
}

// CollectCVV stores the security code when the digit count matches the
// card type's expected length.
func CollectCVV(sess *call.Session, utterance string) bool {
	digits := extractDigits(utterance)
	if len(digits) != validate.CVVLength(sess.CardType) {
		return false
	}
	sess.CVV = digits
	return true
}

func extractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func monthFromName(lower string) string {
	// Longer names first so "june" is not shadowed by "jun" etc. The map
	// holds both forms, so scanning full names before abbreviations keeps
	// the match deterministic.
	for _, name := range []string{
		"january", "february", "march", "april", "august", "september",
		"october", "november", "december", "june", "july",
		"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sept", "sep", "oct", "nov", "dec",
	} {
		if strings.Contains(lower, name) {
			return monthNames[name]
		}
	}
	return ""
}
