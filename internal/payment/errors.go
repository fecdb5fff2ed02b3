package payment

import (
	"fmt"
	"strings"
)

// Category buckets the payment endpoint's raw error text into the fixed
// set of caller-facing outcomes. The raw text is kept for the call log but
// never spoken.
type Category int

const (
	CategoryOther Category = iota
	CategoryCardInvalid
	CategoryAccountNotFound
	CategoryPaymentConflict
	CategorySystemFault
	CategoryNetwork
)

// String returns the log name of the category.
func (c Category) String() string {
	switch c {
	case CategoryCardInvalid:
		return "card_invalid"
	case CategoryAccountNotFound:
		return "account_not_found"
	case CategoryPaymentConflict:
		return "payment_conflict"
	case CategorySystemFault:
		return "system_fault"
	case CategoryNetwork:
		return "network"
	default:
		return "other"
	}
}

// rawNetworkError marks transport failures in SubmissionResult.RawError.
const rawNetworkError = "network_error"

// Categorize matches the endpoint's raw error text against the known
// failure patterns. Matching is case-insensitive and partial because the
// upstream system interleaves error codes with free text.
func Categorize(raw string) Category {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return CategoryOther
	}
	if cleaned == rawNetworkError {
		return CategoryNetwork
	}

	switch {
	case strings.Contains(cleaned, "customer not found"),
		strings.Contains(cleaned, "account not found"):
		return CategoryAccountNotFound
	case strings.Contains(cleaned, "invalid card"),
		strings.Contains(cleaned, "card number"),
		strings.Contains(cleaned, "declined"),
		strings.Contains(cleaned, "expired"),
		strings.Contains(cleaned, "expiry"):
		return CategoryCardInvalid
	case strings.Contains(cleaned, "cannot update card"):
		return CategoryPaymentConflict
	case strings.HasPrefix(cleaned, "fault"),
		strings.Contains(cleaned, "unable to parse"):
		return CategorySystemFault
	default:
		return CategoryOther
	}
}

// spokenMessage maps a category to the actionable sentence the agent
// speaks. Every message states what happened and what to do next; none of
// them carry raw technical text.
func spokenMessage(cat Category, company, support string) string {
	switch cat {
	case CategoryCardInvalid:
		return fmt.Sprintf("The credit card details you provided were not accepted. Please check the card number and expiry date with your bank, or try a different card. Thank you for calling %s.", company)
	case CategoryAccountNotFound:
		return fmt.Sprintf("I couldn't find an account associated with the phone number you're calling from. Please call back from your %s phone number, or contact our support team at %s. Thank you for calling %s.", company, support, company)
	case CategoryPaymentConflict:
		return fmt.Sprintf("Your account currently uses a payment method that prevents credit card updates over the phone. Please contact our support team at %s to update your payment information. Thank you for calling %s.", support, company)
	case CategorySystemFault:
		return fmt.Sprintf("I'm experiencing a technical issue on our end right now. Please try again in a few minutes, or contact our support team at %s. Thank you for calling %s.", support, company)
	case CategoryNetwork:
		return fmt.Sprintf("I'm unable to connect to the payment system right now. This is a temporary technical issue, so please try again in a few minutes. Thank you for calling %s.", company)
	default:
		return fmt.Sprintf("There was an issue processing your payment information. Please verify your credit card details and try again, or contact our support team at %s. Thank you for calling %s.", support, company)
	}
}
