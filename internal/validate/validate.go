// Package validate holds the pure card-field validators. All functions are
// deterministic, side-effect free and signal failure by returning false;
// the dialogue engine decides what the caller hears.
package validate

import (
	"strings"
	"time"

	"github.com/peterthehammer1/FongoAI/internal/model/call"
)

// Luhn runs the standard mod-10 checksum over a digit string, doubling
// every second digit from the right and subtracting 9 when the doubled
// value exceeds 9. Non-digit input or an empty string fails.
func Luhn(digits string) bool {
	if digits == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// CardLength returns the expected number-of-digits for a card type.
func CardLength(cardType call.CardType) int {
	if cardType == call.CardAmex {
		return 15
	}
	return 16
}

// CVVLength returns the expected security-code length for a card type.
func CVVLength(cardType call.CardType) int {
	if cardType == call.CardAmex {
		return 4
	}
	return 3
}

// PrefixMatches reports whether the leading digits are compatible with the
// claimed card type. An unknown type matches anything.
func PrefixMatches(cardType call.CardType, digits string) bool {
	if digits == "" {
		return true
	}
	switch cardType {
	case call.CardVisa:
		return strings.HasPrefix(digits, "4")
	case call.CardMastercard:
		return strings.HasPrefix(digits, "5") || strings.HasPrefix(digits, "2")
	case call.CardAmex:
		if len(digits) == 1 {
			return digits == "3"
		}
		return strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37")
	default:
		return true
	}
}

// TypeFromPrefix infers the card network from the leading digits.
func TypeFromPrefix(digits string) call.CardType {
	switch {
	case strings.HasPrefix(digits, "4"):
		return call.CardVisa
	case strings.HasPrefix(digits, "5"), strings.HasPrefix(digits, "2"):
		return call.CardMastercard
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return call.CardAmex
	default:
		return call.CardUnknown
	}
}

// ValidMonth reports whether the month is in [1,12].
func ValidMonth(month int) bool {
	return month >= 1 && month <= 12
}

// ValidYear reports whether the four-digit year is the current calendar
// year or later. The caller passes the clock so a call spanning a year
// boundary re-evaluates correctly.
func ValidYear(year int, now time.Time) bool {
	return year >= now.Year()
}
