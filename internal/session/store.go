// Package session tracks the mutable per-call state for every live call.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/peterthehammer1/FongoAI/internal/model/call"
)

var (
	ErrCallIDRequired  = errors.New("call id is required")
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
)

// Store holds one session per live call. It is safe for concurrent use
// across call IDs; utterances for a single call arrive strictly in
// sequence, so individual sessions need no locking of their own.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*call.Session
}

// NewStore bootstraps an empty in-memory store. Sessions live only for the
// duration of the call; a process restart loses all active call state.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*call.Session)}
}

// Start provisions the session for a newly connected call.
func (s *Store) Start(_ context.Context, callID, callerID, callerName string) (*call.Session, error) {
	if callID == "" {
		return nil, ErrCallIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[callID]; ok {
		return nil, ErrSessionExists
	}

	sess := &call.Session{
		CallID:     callID,
		CallerID:   callerID,
		CallerName: callerName,
		Step:       call.StepGreeting,
		CardType:   call.CardUnknown,
		StartedAt:  time.Now().UTC(),
	}
	s.sessions[callID] = sess

	log.Printf("[session] started call=%s from=%s", callID, callerID)
	return sess, nil
}

// Get retrieves the live session for a call.
func (s *Store) Get(_ context.Context, callID string) (*call.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[callID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// End removes the session and returns it along with the call duration.
// Ending an unknown call returns ErrSessionNotFound, which makes cleanup
// idempotent for the call-ended signal arriving after a terminal outcome.
func (s *Store) End(_ context.Context, callID string) (*call.Session, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[callID]
	if !ok {
		return nil, 0, ErrSessionNotFound
	}
	delete(s.sessions, callID)

	duration := time.Since(sess.StartedAt)
	log.Printf("[session] ended call=%s after %s", callID, duration.Round(time.Second))
	return sess, duration, nil
}

// Active returns the number of live sessions, for the health endpoint.
func (s *Store) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
