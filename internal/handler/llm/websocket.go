// Package llm serves the telephony platform's persistent event channel:
// one websocket carrying call lifecycle events and caller utterances, one
// spoken reply per utterance.
package llm

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/peterthehammer1/FongoAI/internal/calllog"
	"github.com/peterthehammer1/FongoAI/internal/dialogue"
	"github.com/peterthehammer1/FongoAI/internal/session"
)

// Handler owns the LLM websocket endpoint.
type Handler struct {
	engine   *dialogue.Engine
	store    *session.Store
	recorder calllog.Recorder
	upgrader websocket.Upgrader
}

// New wires the websocket handler to the dialogue engine.
func New(engine *dialogue.Engine, store *session.Store, recorder calllog.Recorder) *Handler {
	return &Handler{
		engine:   engine,
		store:    store,
		recorder: recorder,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/llm-websocket", h.handleWebSocket)
}

type inboundMessage struct {
	MessageType string    `json:"message_type"`
	CallID      string    `json:"call_id"`
	Call        *callInfo `json:"call,omitempty"`
	Response    string    `json:"response,omitempty"`
}

type callInfo struct {
	FromNumber string `json:"from_number"`
	FromName   string `json:"from_name,omitempty"`
}

type outboundMessage struct {
	MessageType string `json:"message_type"`
	CallID      string `json:"call_id,omitempty"`
	Response    string `json:"response,omitempty"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] platform connected from %s", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[websocket] read error: %v", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			h.handleMessage(ctx, conn, &msg)
		}
	}
}

// handleMessage dispatches one platform event. Utterances for a single
// call arrive in sequence on this connection, so each one is handled to
// completion, including the payment submission, before the next is read.
func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, msg *inboundMessage) {
	switch msg.MessageType {
	case "ping":
		h.send(conn, outboundMessage{MessageType: "pong", CallID: msg.CallID})
	case "call_started":
		h.handleCallStarted(ctx, conn, msg)
	case "response":
		h.handleResponse(ctx, conn, msg)
	case "call_ended":
		h.endCall(ctx, msg.CallID)
	default:
		log.Printf("[websocket] unknown message type %q call=%s", msg.MessageType, msg.CallID)
	}
}

func (h *Handler) handleCallStarted(ctx context.Context, conn *websocket.Conn, msg *inboundMessage) {
	fromNumber, fromName := "", ""
	if msg.Call != nil {
		fromNumber = msg.Call.FromNumber
		fromName = msg.Call.FromName
	}

	sess, err := h.store.Start(ctx, msg.CallID, fromNumber, fromName)
	if err != nil {
		log.Printf("[websocket] call_started rejected call=%s: %v", msg.CallID, err)
		if errors.Is(err, session.ErrSessionExists) {
			return
		}
		h.send(conn, outboundMessage{
			MessageType: "response",
			CallID:      msg.CallID,
			Response:    "I'm sorry, something went wrong starting our conversation. Please call back.",
		})
		return
	}

	h.send(conn, outboundMessage{
		MessageType: "response",
		CallID:      msg.CallID,
		Response:    h.engine.Greeting(sess),
	})
}

func (h *Handler) handleResponse(ctx context.Context, conn *websocket.Conn, msg *inboundMessage) {
	reply := h.engine.Handle(ctx, msg.CallID, msg.Response)

	if reply.Prompt != "" {
		h.send(conn, outboundMessage{
			MessageType: "response",
			CallID:      msg.CallID,
			Response:    reply.Prompt,
		})
	}

	if reply.Terminal {
		h.endCall(ctx, msg.CallID)
	}
}

// endCall discards the session and records the terminal outcome. It is a
// no-op when the session is already gone, so a call_ended signal after a
// terminal reply does not double-record.
func (h *Handler) endCall(ctx context.Context, callID string) {
	sess, duration, err := h.store.End(ctx, callID)
	if err != nil {
		return
	}

	rec := calllog.Record{
		CallID:   callID,
		CallerID: sess.CallerID,
		Outcome:  sess.Step.String(),
		Duration: duration,
	}
	if sess.Submission != nil {
		rec.RawError = sess.Submission.RawError
	}
	if err := h.recorder.Record(ctx, rec); err != nil {
		log.Printf("[websocket] record outcome failed call=%s: %v", callID, err)
	}
}

func (h *Handler) send(conn *websocket.Conn, msg outboundMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[websocket] write failed call=%s: %v", msg.CallID, err)
	}
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
