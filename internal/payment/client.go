// Package payment submits confirmed card details to the payment-update
// endpoint and turns its answers into spoken outcomes.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/peterthehammer1/FongoAI/internal/config"
	"github.com/peterthehammer1/FongoAI/internal/model/call"
)

// Result is the outcome of one submission attempt. Message is safe to
// speak to the caller; RawError preserves the endpoint's technical text
// for the call log only.
type Result struct {
	Success  bool
	Message  string
	RawError string
}

// Client posts collected card data to the payment-update endpoint. One
// attempt per confirmed collection; the dialogue's start-over path is the
// only retry mechanism.
type Client struct {
	url        string
	company    string
	support    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient builds a submission client from configuration.
func NewClient(cfg config.PaymentConfig, company, support string) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:        cfg.URL,
		company:    company,
		support:    support,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type submitEnvelope struct {
	Event string     `json:"event"`
	Data  submitData `json:"data"`
}

type submitData struct {
	CardType    string `json:"cardType"`
	CardNumber  string `json:"cardNumber"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	CVV         string `json:"cvv"`
	NameOnCard  string `json:"nameOnCard"`
	CallerID    string `json:"callerId"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Submit packages the session's collected fields and posts them once. The
// call is bounded by the configured timeout; a timeout counts as a
// transport failure.
func (c *Client) Submit(ctx context.Context, sess *call.Session) Result {
	envelope := submitEnvelope{
		Event: "credit_card_collected",
		Data: submitData{
			CardType:    string(sess.CardType),
			CardNumber:  sess.CardNumber,
			ExpiryMonth: sess.ExpiryMonth,
			ExpiryYear:  sess.ExpiryYear,
			CVV:         sess.CVV,
			NameOnCard:  sess.NameOnCard,
			CallerID:    sess.CallerID,
		},
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return c.failure(CategorySystemFault, fmt.Sprintf("marshal submission: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return c.failure(CategorySystemFault, fmt.Sprintf("build submission request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	log.Printf("[payment] submitting update call=%s card=****%s", sess.CallID, sess.LastFour())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[payment] transport failure call=%s: %v", sess.CallID, err)
		return c.failure(CategoryNetwork, rawNetworkError)
	}
	defer resp.Body.Close()

	var parsed submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("[payment] unreadable response call=%s status=%d: %v", sess.CallID, resp.StatusCode, err)
		return c.failure(CategorySystemFault, "unable to parse api response")
	}

	if !parsed.Success {
		cat := Categorize(parsed.Error)
		log.Printf("[payment] update rejected call=%s category=%s", sess.CallID, cat)
		return Result{
			Success:  false,
			Message:  spokenMessage(cat, c.company, c.support),
			RawError: parsed.Error,
		}
	}

	log.Printf("[payment] update succeeded call=%s", sess.CallID)
	return Result{
		Success: true,
		Message: fmt.Sprintf("Perfect! Your credit card has been successfully updated. Thank you for calling %s. Have a great day!", c.company),
	}
}

func (c *Client) failure(cat Category, raw string) Result {
	return Result{
		Success:  false,
		Message:  spokenMessage(cat, c.company, c.support),
		RawError: raw,
	}
}
