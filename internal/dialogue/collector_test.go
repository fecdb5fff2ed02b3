package dialogue

import (
	"testing"
	"time"

	"github.com/peterthehammer1/FongoAI/internal/model/call"
)

func newCardSession() *call.Session {
	return &call.Session{
		CallID:   "test",
		Step:     call.StepCollectingCard,
		CardType: call.CardUnknown,
	}
}

func TestCollectCardAccumulatesChunks(t *testing.T) {
	sess := newCardSession()

	for i, utterance := range []string{"4111", "1111", "1111"} {
		if got := CollectCard(sess, utterance); got != CardIncomplete {
			t.Fatalf("chunk %d: outcome %v, want incomplete", i, got)
		}
	}
	if sess.CardType != call.CardVisa {
		t.Fatalf("expected visa inferred from prefix, got %s", sess.CardType)
	}

	if got := CollectCard(sess, "1111"); got != CardComplete {
		t.Fatalf("final chunk: outcome %v, want complete", got)
	}
	if sess.CardNumber != "4111111111111111" {
		t.Fatalf("card number = %s", sess.CardNumber)
	}
}

func TestCollectCardIgnoresNoise(t *testing.T) {
	sess := newCardSession()

	if got := CollectCard(sess, "it's 4111, I think"); got != CardIncomplete {
		t.Fatalf("outcome %v, want incomplete", got)
	}
	if sess.CardNumber != "4111" {
		t.Fatalf("card number = %s", sess.CardNumber)
	}

	if got := CollectCard(sess, "hang on a second"); got != CardNoDigits {
		t.Fatalf("outcome %v, want no digits", got)
	}
	if sess.CardNumber != "4111" {
		t.Fatalf("noise must not change the number, got %s", sess.CardNumber)
	}
}

func TestCollectCardLuhnFailureResets(t *testing.T) {
	sess := newCardSession()

	CollectCard(sess, "4111 1111 1111")
	if got := CollectCard(sess, "1112"); got != CardLuhnFailed {
		t.Fatalf("outcome %v, want luhn failure", got)
	}
	if sess.CardNumber != "" {
		t.Fatalf("card number should reset, got %s", sess.CardNumber)
	}
}

func TestCollectCardOverflowResets(t *testing.T) {
	sess := newCardSession()

	CollectCard(sess, "4111 1111 1111 111")
	if got := CollectCard(sess, "11111"); got != CardOverflow {
		t.Fatalf("outcome %v, want overflow", got)
	}
	if sess.CardNumber != "" {
		t.Fatalf("card number should reset, got %s", sess.CardNumber)
	}
}

func TestCollectCardSpokenTypeAndPrefixMismatch(t *testing.T) {
	sess := newCardSession()

	if got := CollectCard(sess, "it's an amex"); got != CardIncomplete {
		t.Fatalf("outcome %v, want incomplete after type only", got)
	}
	if sess.CardType != call.CardAmex {
		t.Fatalf("card type = %s, want amex", sess.CardType)
	}

	if got := CollectCard(sess, "4111"); got != CardPrefixMismatch {
		t.Fatalf("outcome %v, want prefix mismatch", got)
	}
	if sess.CardNumber != "" || sess.CardType != call.CardUnknown {
		t.Fatalf("mismatch should reset number and type: %q %s", sess.CardNumber, sess.CardType)
	}
}

func TestCollectCardAmexLength(t *testing.T) {
	sess := newCardSession()

	CollectCard(sess, "3782")
	CollectCard(sess, "822463")
	if sess.CardType != call.CardAmex {
		t.Fatalf("card type = %s, want amex", sess.CardType)
	}
	if got := CollectCard(sess, "10005"); got != CardComplete {
		t.Fatalf("outcome %v, want complete at 15 digits", got)
	}
	if sess.CardNumber != "378282246310005" {
		t.Fatalf("card number = %s", sess.CardNumber)
	}
}

func TestDetectCardType(t *testing.T) {
	cases := map[string]call.CardType{
		"it's a visa":               call.CardVisa,
		"Mastercard":                call.CardMastercard,
		"my master card":            call.CardMastercard,
		"american express, please":  call.CardAmex,
		"amex":                      call.CardAmex,
		"a credit card":             call.CardUnknown,
	}
	for utterance, want := range cases {
		if got := DetectCardType(utterance); got != want {
			t.Fatalf("DetectCardType(%q) = %s, want %s", utterance, got, want)
		}
	}
}

func expiryNow() time.Time {
	return time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func TestCollectExpirySingleTurn(t *testing.T) {
	cases := []struct {
		utterance string
		month     string
		year      string
	}{
		{"12 2030", "12", "2030"},
		{"12/2030", "12", "2030"},
		{"December 2030", "12", "2030"},
		{"it expires in march 2027", "03", "2027"},
		{"3 2030", "03", "2030"},
	}
	for _, tc := range cases {
		sess := &call.Session{Step: call.StepCollectingExpiry}
		if got := CollectExpiry(sess, tc.utterance, expiryNow()); got != ExpiryComplete {
			t.Fatalf("CollectExpiry(%q) = %v, want complete", tc.utterance, got)
		}
		if sess.ExpiryMonth != tc.month || sess.ExpiryYear != tc.year {
			t.Fatalf("CollectExpiry(%q) stored %s/%s, want %s/%s",
				tc.utterance, sess.ExpiryMonth, sess.ExpiryYear, tc.month, tc.year)
		}
	}
}

func TestCollectExpiryMonthThenYear(t *testing.T) {
	sess := &call.Session{Step: call.StepCollectingExpiry}

	if got := CollectExpiry(sess, "December", expiryNow()); got != ExpiryMonthOnly {
		t.Fatalf("month turn: %v, want month only", got)
	}
	if sess.ExpiryMonth != "12" {
		t.Fatalf("month = %s", sess.ExpiryMonth)
	}

	if got := CollectExpiry(sess, "2030", expiryNow()); got != ExpiryComplete {
		t.Fatalf("year turn: %v, want complete", got)
	}
	if sess.ExpiryYear != "2030" {
		t.Fatalf("year = %s", sess.ExpiryYear)
	}
}

func TestCollectExpiryRejectsBadMonth(t *testing.T) {
	sess := &call.Session{Step: call.StepCollectingExpiry}
	if got := CollectExpiry(sess, "13 2030", expiryNow()); got != ExpiryBadMonth {
		t.Fatalf("CollectExpiry(13 2030) = %v, want bad month", got)
	}
}

func TestCollectExpiryRejectsPastYear(t *testing.T) {
	sess := &call.Session{Step: call.StepCollectingExpiry}
	if got := CollectExpiry(sess, "12 2025", expiryNow()); got != ExpiryBadYear {
		t.Fatalf("CollectExpiry(12 2025) = %v, want bad year", got)
	}
	if sess.ExpiryYear != "" {
		t.Fatalf("invalid year must not be stored, got %s", sess.ExpiryYear)
	}
}

func TestCollectExpiryCurrentYearAccepted(t *testing.T) {
	sess := &call.Session{Step: call.StepCollectingExpiry}
	if got := CollectExpiry(sess, "12 2026", expiryNow()); got != ExpiryComplete {
		t.Fatalf("CollectExpiry(12 2026) = %v, want complete", got)
	}
}

func TestCollectExpiryIncomplete(t *testing.T) {
	for _, utterance := range []string{"sometime soon", "12 30"} {
		sess := &call.Session{Step: call.StepCollectingExpiry}
		if got := CollectExpiry(sess, utterance, expiryNow()); got != ExpiryIncomplete {
			t.Fatalf("CollectExpiry(%q) = %v, want incomplete", utterance, got)
		}
	}
}

func TestCollectCVV(t *testing.T) {
	sess := &call.Session{Step: call.StepCollectingCVV, CardType: call.CardVisa}

	if CollectCVV(sess, "12") {
		t.Fatal("two digits must not satisfy a visa CVV")
	}
	if CollectCVV(sess, "1234") {
		t.Fatal("four digits must not satisfy a visa CVV")
	}
	if !CollectCVV(sess, "it's 123") {
		t.Fatal("expected three digits accepted")
	}
	if sess.CVV != "123" {
		t.Fatalf("cvv = %s", sess.CVV)
	}

	amex := &call.Session{Step: call.StepCollectingCVV, CardType: call.CardAmex}
	if CollectCVV(amex, "123") {
		t.Fatal("three digits must not satisfy an amex CVV")
	}
	if !CollectCVV(amex, "1234") {
		t.Fatal("expected four digits accepted for amex")
	}
}
