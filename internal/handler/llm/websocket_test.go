package llm_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/peterthehammer1/FongoAI/internal/calllog"
	"github.com/peterthehammer1/FongoAI/internal/config"
	"github.com/peterthehammer1/FongoAI/internal/dialogue"
	"github.com/peterthehammer1/FongoAI/internal/handler/llm"
	"github.com/peterthehammer1/FongoAI/internal/model/call"
	"github.com/peterthehammer1/FongoAI/internal/payment"
	"github.com/peterthehammer1/FongoAI/internal/session"
)

type stubSubmitter struct {
	result payment.Result
}

func (s *stubSubmitter) Submit(context.Context, *call.Session) payment.Result {
	return s.result
}

type envelope struct {
	MessageType string `json:"message_type"`
	CallID      string `json:"call_id,omitempty"`
	Call        *struct {
		FromNumber string `json:"from_number"`
		FromName   string `json:"from_name,omitempty"`
	} `json:"call,omitempty"`
	Response string `json:"response,omitempty"`
}

func startedEnvelope(callID, from, name string) envelope {
	msg := envelope{MessageType: "call_started", CallID: callID}
	msg.Call = &struct {
		FromNumber string `json:"from_number"`
		FromName   string `json:"from_name,omitempty"`
	}{FromNumber: from, FromName: name}
	return msg
}

func dialTestServer(t *testing.T, sub dialogue.Submitter) (*websocket.Conn, *session.Store, *calllog.MemoryRecorder) {
	t.Helper()

	store := session.NewStore()
	recorder := calllog.NewMemoryRecorder()
	engine := dialogue.NewEngine(store, sub, config.DialogueConfig{
		MaxAttempts:   3,
		AgentName:     "Nova",
		CompanyName:   "Fongo",
		SupportNumber: "1-855-553-6646",
	})

	router := chi.NewRouter()
	llm.New(engine, store, recorder).RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/llm-websocket"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn, store, recorder
}

func readReply(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg envelope
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read err: %v", err)
	}
	return msg
}

func TestPingAnsweredWithPong(t *testing.T) {
	conn, _, _ := dialTestServer(t, &stubSubmitter{})

	if err := conn.WriteJSON(envelope{MessageType: "ping", CallID: "call-1"}); err != nil {
		t.Fatalf("write err: %v", err)
	}

	reply := readReply(t, conn)
	if reply.MessageType != "pong" {
		t.Fatalf("message type = %s, want pong", reply.MessageType)
	}
	if reply.CallID != "call-1" {
		t.Fatalf("call id = %s", reply.CallID)
	}
}

func TestCallStartedGreetsCaller(t *testing.T) {
	conn, store, _ := dialTestServer(t, &stubSubmitter{})

	if err := conn.WriteJSON(startedEnvelope("call-1", "+15195551234", "Pat")); err != nil {
		t.Fatalf("write err: %v", err)
	}

	reply := readReply(t, conn)
	if reply.MessageType != "response" || reply.CallID != "call-1" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	for _, fragment := range []string{"Pat", "+15195551234", "Nova"} {
		if !strings.Contains(reply.Response, fragment) {
			t.Fatalf("greeting missing %q: %q", fragment, reply.Response)
		}
	}

	if _, err := store.Get(context.Background(), "call-1"); err != nil {
		t.Fatalf("session should exist after call_started: %v", err)
	}
}

func TestFullCallOverWebSocket(t *testing.T) {
	sub := &stubSubmitter{result: payment.Result{Success: true, Message: "Your card has been updated. Goodbye!"}}
	conn, store, recorder := dialTestServer(t, sub)

	if err := conn.WriteJSON(startedEnvelope("call-1", "+15195551234", "")); err != nil {
		t.Fatalf("write err: %v", err)
	}
	readReply(t, conn)

	utterances := []string{"yes", "John Smith", "4111", "1111", "1111", "1111", "12 2030", "123", "yes"}
	var last envelope
	for _, u := range utterances {
		if err := conn.WriteJSON(envelope{MessageType: "response", CallID: "call-1", Response: u}); err != nil {
			t.Fatalf("write %q err: %v", u, err)
		}
		last = readReply(t, conn)
	}

	if last.Response != "Your card has been updated. Goodbye!" {
		t.Fatalf("final response = %q", last.Response)
	}

	// The reply is written before cleanup runs; wait for the session to go.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := store.Get(context.Background(), "call-1"); err == session.ErrSessionNotFound {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("session not cleaned up after terminal outcome")
		}
		time.Sleep(10 * time.Millisecond)
	}

	records := recorder.List()
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Outcome != "succeeded" {
		t.Fatalf("outcome = %s", records[0].Outcome)
	}
	if records[0].CallerID != "+15195551234" {
		t.Fatalf("caller id = %s", records[0].CallerID)
	}
}

func TestUtteranceForUnknownCallGetsSpokenReply(t *testing.T) {
	conn, _, _ := dialTestServer(t, &stubSubmitter{})

	if err := conn.WriteJSON(envelope{MessageType: "response", CallID: "ghost", Response: "yes"}); err != nil {
		t.Fatalf("write err: %v", err)
	}

	reply := readReply(t, conn)
	if !strings.Contains(reply.Response, "lost track") {
		t.Fatalf("reply = %q", reply.Response)
	}
}

func TestCallEndedDiscardsSessionAndRecords(t *testing.T) {
	conn, store, recorder := dialTestServer(t, &stubSubmitter{})

	if err := conn.WriteJSON(startedEnvelope("call-1", "+15195551234", "")); err != nil {
		t.Fatalf("write err: %v", err)
	}
	readReply(t, conn)

	if err := conn.WriteJSON(envelope{MessageType: "call_ended", CallID: "call-1"}); err != nil {
		t.Fatalf("write err: %v", err)
	}

	// call_ended produces no reply; poll the store until cleanup lands.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := store.Get(context.Background(), "call-1"); err == session.ErrSessionNotFound {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("session not discarded after call_ended")
		}
		time.Sleep(10 * time.Millisecond)
	}

	records := recorder.List()
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Outcome != "greeting" {
		t.Fatalf("abandoned call should record its last step, got %s", records[0].Outcome)
	}
}
