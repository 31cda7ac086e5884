package simulation

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"surgsim-platform/backend/internal/observe"
	"surgsim-platform/backend/internal/security"
	"surgsim-platform/backend/internal/server/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const closeWriteTimeout = 5 * time.Second

// WSHandler upgrades simulator connections and feeds their messages to the
// Aggregator. Authentication happens exactly once, at the handshake: a
// missing or invalid `token` query parameter rejects the upgrade with no
// response body, and per-message handling never re-verifies the token.
type WSHandler struct {
	tokens  *security.TokenProvider
	agg     *Aggregator
	emitter observe.EventEmitter
}

// NewWSHandler returns the streaming endpoint handler.
func NewWSHandler(tokens *security.TokenProvider, agg *Aggregator, emitter observe.EventEmitter) *WSHandler {
	return &WSHandler{tokens: tokens, agg: agg, emitter: emitter}
}

// ServeHTTP implements http.Handler for the /ws/simulation endpoint.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		observe.EmitAsync(h.emitter, observe.Event{
			Type:   observe.EventConnectionRejected,
			Detail: "missing token",
			At:     time.Now().UTC(),
		})
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	userID, username, err := h.tokens.Verify(token)
	if err != nil {
		observe.EmitAsync(h.emitter, observe.Event{
			Type:   observe.EventConnectionRejected,
			Detail: "invalid token",
			At:     time.Now().UTC(),
		})
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("simulation: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// Connection-scoped identity, available to all message handling below.
	ctx := middleware.WithIdentity(r.Context(), middleware.Identity{
		UserID:   userID,
		Username: username,
	})
	connID := uuid.New().String()
	defer h.agg.Abandon(connID)

	// One goroutine reads this connection, so the aggregator sees its
	// messages one at a time, in arrival order.
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("simulation: websocket read error: %v", err)
			}
			return
		}

		ack, err := h.agg.OnEvent(ctx, connID, payload)
		if err != nil {
			h.closeWith(conn, closeCodeFor(err))
			return
		}
		if ack != nil {
			if err := conn.WriteJSON(ack); err != nil {
				log.Printf("simulation: websocket write error: %v", err)
				return
			}
		}
	}
}

// closeCodeFor maps ingestion errors to WebSocket close codes: bad data
// (1007) for validation failures, policy violation (1008) for a missing
// identity, internal error (1011) for finalize-time save failures.
func closeCodeFor(err error) int {
	switch {
	case errors.Is(err, ErrBadTelemetry):
		return websocket.CloseInvalidFramePayloadData
	case errors.Is(err, ErrMissingIdentity):
		return websocket.ClosePolicyViolation
	default:
		return websocket.CloseInternalServerErr
	}
}

func (h *WSHandler) closeWith(conn *websocket.Conn, code int) {
	msg := websocket.FormatCloseMessage(code, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteTimeout)); err != nil {
		log.Printf("simulation: websocket close error: %v", err)
	}
}
