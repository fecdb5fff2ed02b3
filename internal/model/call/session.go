package call

import "time"

// Step enumerates the dialogue states a call moves through. Steps only
// advance forward, or reset back to StepCollectingCard when the caller
// rejects the read-back.
type Step int

const (
	StepGreeting Step = iota
	StepCollectingName
	StepCollectingCard
	StepCollectingExpiry
	StepCollectingCVV
	StepConfirming
	StepProcessing
	StepSucceeded
	StepFailed
	StepMaxAttemptsExceeded
)

// String returns the wire/log name of the step.
func (s Step) String() string {
	switch s {
	case StepGreeting:
		return "greeting"
	case StepCollectingName:
		return "collecting_name"
	case StepCollectingCard:
		return "collecting_card"
	case StepCollectingExpiry:
		return "collecting_expiry"
	case StepCollectingCVV:
		return "collecting_cvv"
	case StepConfirming:
		return "confirming"
	case StepProcessing:
		return "processing"
	case StepSucceeded:
		return "succeeded"
	case StepFailed:
		return "failed"
	case StepMaxAttemptsExceeded:
		return "max_attempts_exceeded"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further utterances are accepted for this step.
func (s Step) Terminal() bool {
	switch s {
	case StepSucceeded, StepFailed, StepMaxAttemptsExceeded:
		return true
	default:
		return false
	}
}

// CardType identifies the card network, inferred from a spoken keyword or
// the leading digits of the number.
type CardType string

const (
	CardUnknown    CardType = "unknown"
	CardVisa       CardType = "visa"
	CardMastercard CardType = "mastercard"
	CardAmex       CardType = "amex"
)

// SubmissionResult captures the outcome of the single payment-update
// attempt. RawError keeps the endpoint's technical text for the call log;
// it is never spoken to the caller.
type SubmissionResult struct {
	Success  bool
	RawError string
}

// Session is the mutable per-call record. It is owned by the session store
// and mutated only by the dialogue engine; the telephony platform delivers
// utterances for one call strictly in sequence, so no per-session locking
// is needed.
type Session struct {
	CallID      string
	CallerID    string
	CallerName  string
	Step        Step
	CardType    CardType
	CardNumber  string
	NameOnCard  string
	ExpiryMonth string
	ExpiryYear  string
	CVV         string
	Attempts    int
	StartedAt   time.Time
	Submission  *SubmissionResult
}

// LastFour returns the trailing four card digits for masked logging.
func (s *Session) LastFour() string {
	if len(s.CardNumber) < 4 {
		return s.CardNumber
	}
	return s.CardNumber[len(s.CardNumber)-4:]
}

// ResetCardFields clears the card number, expiry and CVV while leaving the
// name on card intact. Used when the caller rejects the read-back.
func (s *Session) ResetCardFields() {
	s.CardNumber = ""
	s.ExpiryMonth = ""
	s.ExpiryYear = ""
	s.CVV = ""
}
