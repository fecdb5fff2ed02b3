// Package dialogue drives the per-call credit-card collection conversation:
// it classifies each utterance, folds recognized fragments into the session's
// fields, and decides what the agent says next.
package dialogue

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/peterthehammer1/FongoAI/internal/config"
	"github.com/peterthehammer1/FongoAI/internal/model/call"
	"github.com/peterthehammer1/FongoAI/internal/payment"
	"github.com/peterthehammer1/FongoAI/internal/session"
)

// Submitter posts a confirmed collection to the payment-update endpoint.
// *payment.Client is the production implementation.
type Submitter interface {
	Submit(ctx context.Context, sess *call.Session) payment.Result
}

// Reply is what the engine hands back for one utterance. Terminal means the
// call must end after the prompt is spoken; no further utterances are
// accepted for that call.
type Reply struct {
	Prompt   string
	Terminal bool
}

// Engine is the per-call state machine. All session mutation happens here;
// the telephony platform delivers utterances for one call strictly in
// sequence, so handlers never race on a session.
type Engine struct {
	store       *session.Store
	submitter   Submitter
	classify    Classifier
	prompts     Prompts
	maxAttempts int
	now         func() time.Time
}

// NewEngine wires the state machine to its collaborators.
func NewEngine(store *session.Store, submitter Submitter, cfg config.DialogueConfig) *Engine {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	return &Engine{
		store:       store,
		submitter:   submitter,
		classify:    ClassifyKeywords,
		prompts: Prompts{
			Agent:   cfg.AgentName,
			Company: cfg.CompanyName,
			Support: cfg.SupportNumber,
		},
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// SetClassifier swaps the intent classifier; used to plug in a smarter
// model without touching the state machine.
func (e *Engine) SetClassifier(c Classifier) {
	if c != nil {
		e.classify = c
	}
}

// Greeting produces the opening line for a freshly started call. It does
// not count against the attempts ceiling.
func (e *Engine) Greeting(sess *call.Session) string {
	return e.prompts.greeting(sess)
}

// Handle processes one caller utterance for the given call and returns the
// next prompt. An unknown call ID answers with a terminal "lost track"
// reply instead of failing the process.
func (e *Engine) Handle(ctx context.Context, callID, utterance string) Reply {
	sess, err := e.store.Get(ctx, callID)
	if err != nil {
		log.Printf("[dialogue] utterance for unknown call=%s: %v", callID, err)
		return Reply{Prompt: e.prompts.lostTrack(), Terminal: true}
	}

	if sess.Step.Terminal() || sess.Step == call.StepProcessing {
		log.Printf("[dialogue] utterance after terminal step call=%s step=%s", callID, sess.Step)
		return Reply{Prompt: e.prompts.lostTrack(), Terminal: true}
	}

	sess.Attempts++
	if sess.Attempts > e.maxAttempts {
		sess.Step = call.StepMaxAttemptsExceeded
		log.Printf("[dialogue] attempts ceiling reached call=%s", callID)
		return Reply{Prompt: e.prompts.maxAttempts(), Terminal: true}
	}

	switch sess.Step {
	case call.StepGreeting:
		return e.handleGreeting(sess, utterance)
	case call.StepCollectingName:
		return e.handleName(sess, utterance)
	case call.StepCollectingCard:
		return e.handleCard(sess, utterance)
	case call.StepCollectingExpiry:
		return e.handleExpiry(sess, utterance)
	case call.StepCollectingCVV:
		return e.handleCVV(sess, utterance)
	case call.StepConfirming:
		return e.handleConfirmation(ctx, sess, utterance)
	default:
		log.Printf("[dialogue] unexpected step call=%s step=%s", callID, sess.Step)
		return Reply{Prompt: e.prompts.lostTrack(), Terminal: true}
	}
}

func (e *Engine) handleGreeting(sess *call.Session, utterance string) Reply {
	switch e.classify(utterance) {
	case IntentAffirmative:
		e.advance(sess, call.StepCollectingName)
		return Reply{Prompt: e.prompts.askName()}
	case IntentNegative:
		sess.Step = call.StepFailed
		return Reply{Prompt: e.prompts.wrongNumber(), Terminal: true}
	default:
		return Reply{Prompt: e.prompts.greetingRepeat()}
	}
}

func (e *Engine) handleName(sess *call.Session, utterance string) Reply {
	name := strings.TrimSpace(utterance)
	if name == "" {
		return Reply{Prompt: e.prompts.nameRepeat()}
	}
	sess.NameOnCard = name
	e.advance(sess, call.StepCollectingCard)
	return Reply{Prompt: e.prompts.askCard()}
}

func (e *Engine) handleCard(sess *call.Session, utterance string) Reply {
	switch CollectCard(sess, utterance) {
	case CardComplete:
		e.advance(sess, call.StepCollectingExpiry)
		return Reply{Prompt: e.prompts.askExpiry()}
	case CardIncomplete:
		sess.Attempts = 0
		return Reply{Prompt: e.prompts.nextChunk(sess)}
	case CardLuhnFailed:
		log.Printf("[dialogue] card failed checksum call=%s", sess.CallID)
		return Reply{Prompt: e.prompts.cardInvalid()}
	case CardOverflow:
		return Reply{Prompt: e.prompts.cardOverflow(sess)}
	case CardPrefixMismatch:
		return Reply{Prompt: e.prompts.cardTypeMismatch()}
	default:
		return Reply{Prompt: e.prompts.nextChunk(sess)}
	}
}

func (e *Engine) handleExpiry(sess *call.Session, utterance string) Reply {
	switch CollectExpiry(sess, utterance, e.now()) {
	case ExpiryComplete:
		e.advance(sess, call.StepCollectingCVV)
		return Reply{Prompt: e.prompts.askCVV(sess)}
	case ExpiryMonthOnly:
		sess.Attempts = 0
		return Reply{Prompt: e.prompts.askYear()}
	case ExpiryBadMonth:
		return Reply{Prompt: e.prompts.badMonth()}
	case ExpiryBadYear:
		return Reply{Prompt: e.prompts.badYear(e.now().Year())}
	default:
		return Reply{Prompt: e.prompts.expiryIncomplete()}
	}
}

func (e *Engine) handleCVV(sess *call.Session, utterance string) Reply {
	if !CollectCVV(sess, utterance) {
		return Reply{Prompt: e.prompts.cvvRepeat(sess)}
	}
	e.advance(sess, call.StepConfirming)
	return Reply{Prompt: e.prompts.readBack(sess)}
}

func (e *Engine) handleConfirmation(ctx context.Context, sess *call.Session, utterance string) Reply {
	switch e.classify(utterance) {
	case IntentAffirmative:
		return e.submit(ctx, sess)
	case IntentNegative:
		sess.ResetCardFields()
		sess.CardType = call.CardUnknown
		e.advance(sess, call.StepCollectingCard)
		return Reply{Prompt: e.prompts.startOver()}
	default:
		return Reply{Prompt: e.prompts.confirmRepeat()}
	}
}

// submit runs the single payment-update attempt. The adapter owns the
// timeout; if the platform ended the call while the request was in flight,
// the result is dropped instead of being reapplied to an absent session.
func (e *Engine) submit(ctx context.Context, sess *call.Session) Reply {
	sess.Step = call.StepProcessing

	result := e.submitter.Submit(ctx, sess)

	if _, err := e.store.Get(ctx, sess.CallID); err != nil {
		log.Printf("[dialogue] call=%s ended during submission, dropping result", sess.CallID)
		return Reply{Terminal: true}
	}

	sess.Submission = &call.SubmissionResult{Success: result.Success, RawError: result.RawError}
	if result.Success {
		sess.Step = call.StepSucceeded
	} else {
		sess.Step = call.StepFailed
	}
	return Reply{Prompt: result.Message, Terminal: true}
}

// advance moves the session forward and clears the attempts counter, so
// the ceiling only counts consecutive utterances that made no progress.
func (e *Engine) advance(sess *call.Session, next call.Step) {
	sess.Step = next
	sess.Attempts = 0
}
