package dialogue

import (
	"fmt"
	"strings"

	"github.com/peterthehammer1/FongoAI/internal/model/call"
	"github.com/peterthehammer1/FongoAI/internal/validate"
)

// Prompts builds every sentence the agent speaks. Branding comes from
// configuration so the dialogue content stays in one place.
type Prompts struct {
	Agent   string
	Company string
	Support string
}

func (p Prompts) greeting(sess *call.Session) string {
	name := ""
	if sess.CallerName != "" {
		name = ", " + sess.CallerName
	}
	return fmt.Sprintf(
		"Hello%s! This is %s from %s. I'm here to help you update your credit card information. I can see you're calling from %s. Is this the correct phone number for your %s account?",
		name, p.Agent, p.Company, sess.CallerID, p.Company)
}

func (p Prompts) greetingRepeat() string {
	return fmt.Sprintf("I didn't quite catch that. Is this the correct phone number for your %s account? Please say yes or no.", p.Company)
}

func (p Prompts) wrongNumber() string {
	return fmt.Sprintf("I understand. Please make sure you're calling from the correct phone number for your %s account, or contact our support team at %s for assistance.", p.Company, p.Support)
}

func (p Prompts) askName() string {
	return "Perfect! Now I'll need the name exactly as it appears on your credit card. What's the name on the card?"
}

func (p Prompts) nameRepeat() string {
	return "I need the name exactly as it appears on your credit card. What's the name on the card?"
}

func (p Prompts) askCard() string {
	return "Thank you. Now I'll need your credit card number. Let's do this in groups to make sure I get it right. Which card is it, Visa, Mastercard, or American Express? And what are the first 4 digits?"
}

func (p Prompts) firstChunk() string {
	return "Could you please read me the first 4 digits?"
}

// nextChunk asks for the next digit group based on how much of the number
// has been collected. Amex numbers are spoken 4-6-5; everything else 4-4-4-4.
func (p Prompts) nextChunk(sess *call.Session) string {
	have := len(sess.CardNumber)
	if have == 0 {
		return p.firstChunk()
	}

	var remaining, group int
	target := validate.CardLength(sess.CardType)
	remaining = target - have

	if sess.CardType == call.CardAmex {
		switch {
		case have < 4:
			group = 4 - have
		case have < 10:
			group = 10 - have
		default:
			group = target - have
		}
	} else {
		group = 4 - have%4
		if group == 4 && remaining < 4 {
			group = remaining
		}
	}
	if group > remaining {
		group = remaining
	}

	if group == remaining {
		return fmt.Sprintf("And the final %d digits?", group)
	}
	return fmt.Sprintf("Thank you. Now the next %d digits?", group)
}

func (p Prompts) cardInvalid() string {
	return "I'm sorry, that doesn't appear to be a valid credit card number. Let's start over. " + p.firstChunk()
}

func (p Prompts) cardOverflow(sess *call.Session) string {
	return fmt.Sprintf("I need exactly %d digits total. Let's start over. %s", validate.CardLength(sess.CardType), p.firstChunk())
}

func (p Prompts) cardTypeMismatch() string {
	return "That number doesn't match the card type you mentioned. Let's start over. Which card is it, and what are the first 4 digits?"
}

func (p Prompts) askExpiry() string {
	return "Thank you. May I have the expiry date?"
}

func (p Prompts) askYear() string {
	return "And what year does your card expire? Please give me the full four-digit year, like 2028."
}

func (p Prompts) badMonth() string {
	return "The expiry month should be between 01 and 12. Could you give me the expiry date again?"
}

func (p Prompts) badYear(minYear int) string {
	return fmt.Sprintf("I need an expiry year of %d or later, as a full four-digit year. Could you please tell me the correct expiry year?", minYear)
}

func (p Prompts) expiryIncomplete() string {
	return "I need both the month and year. Please provide the expiry date, like 12/2027 or December 2027."
}

func (p Prompts) askCVV(sess *call.Session) string {
	where := "on the back of your card"
	if sess.CardType == call.CardAmex {
		where = "on the front of your card"
	}
	return fmt.Sprintf("Thank you. And what's the %d-digit security code %s?", validate.CVVLength(sess.CardType), where)
}

func (p Prompts) cvvRepeat(sess *call.Session) string {
	return fmt.Sprintf("I need exactly %d digits for the security code. Could you please read it again?", validate.CVVLength(sess.CardType))
}

func (p Prompts) readBack(sess *call.Session) string {
	return fmt.Sprintf(
		"Thank you. Let me read that back to you to make sure it is correct. I have your credit card as %s with an expiry date of %s/%s and your CVV as %s. Is that correct?",
		spokenCardNumber(sess), sess.ExpiryMonth, sess.ExpiryYear, spokenDigits(sess.CVV))
}

func (p Prompts) confirmRepeat() string {
	return "Please say yes if the information is correct, or no if you'd like to start over."
}

func (p Prompts) startOver() string {
	return "No problem. Let's start over. " + p.firstChunk()
}

func (p Prompts) maxAttempts() string {
	return fmt.Sprintf("I'm having trouble understanding. Please contact our support team at %s for assistance. Thank you for calling %s.", p.Support, p.Company)
}

func (p Prompts) lostTrack() string {
	return "I'm sorry, I lost track of our conversation. Please call back to start over."
}

var digitWords = [...]string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}

// spokenCardNumber renders the full number digit by digit as words, with a
// pause between groups so the text-to-speech read-back is easy to follow.
func spokenCardNumber(sess *call.Session) string {
	groups := cardGroups(sess)
	spoken := make([]string, 0, len(groups))
	for _, g := range groups {
		spoken = append(spoken, spokenDigits(g))
	}
	return strings.Join(spoken, " ... ")
}

func cardGroups(sess *call.Session) []string {
	number := sess.CardNumber
	if sess.CardType == call.CardAmex && len(number) == 15 {
		return []string{number[:4], number[4:10], number[10:]}
	}
	var groups []string
	for len(number) > 4 {
		groups = append(groups, number[:4])
		number = number[4:]
	}
	if number != "" {
		groups = append(groups, number)
	}
	return groups
}

func spokenDigits(digits string) string {
	words := make([]string, 0, len(digits))
	for _, r := range digits {
		if r >= '0' && r <= '9' {
			words = append(words, digitWords[r-'0'])
		}
	}
	return strings.Join(words, ", ")
}
