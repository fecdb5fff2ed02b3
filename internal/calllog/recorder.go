// Package calllog publishes terminal call outcomes to the history
// collaborator. Durable storage and the dashboard live outside this
// service; they consume Records through the Recorder interface.
package calllog

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one finished call. RawError carries the payment endpoint's
// technical text for operators; it never reaches the caller.
type Record struct {
	ID       string
	CallID   string
	CallerID string
	Outcome  string
	Duration time.Duration
	RawError string
	EndedAt  time.Time
}

// Recorder receives terminal outcomes. Implementations must be safe for
// concurrent use across calls.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// MemoryRecorder keeps records in memory; the production deployment swaps
// in the database-backed collaborator.
type MemoryRecorder struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryRecorder returns an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record appends the outcome, assigning an ID and timestamp when missing.
func (r *MemoryRecorder) Record(_ context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.EndedAt.IsZero() {
		rec.EndedAt = time.Now().UTC()
	}

	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()

	log.Printf("[calllog] call=%s outcome=%s duration=%s", rec.CallID, rec.Outcome, rec.Duration.Round(time.Second))
	return nil
}

// List returns a copy of everything recorded so far.
func (r *MemoryRecorder) List() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make([]Record, len(r.records))
	copy(copied, r.records)
	return copied
}
