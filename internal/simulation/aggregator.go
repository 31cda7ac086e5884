package simulation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"surgsim-platform/backend/internal/observe"
	"surgsim-platform/backend/internal/server/middleware"
	"surgsim-platform/backend/internal/surgery/domain"
)

// Sentinel errors for the ingestion path; the WebSocket handler maps them to
// close codes.
var (
	// ErrBadTelemetry marks a structurally invalid sample. No session state
	// was mutated when it is returned.
	ErrBadTelemetry = errors.New("bad telemetry data")
	// ErrMissingIdentity marks a message on a connection with no
	// authenticated identity in its context.
	ErrMissingIdentity = errors.New("no authenticated identity on connection")
)

// Ack is the acknowledgment sent after a session is finalized and persisted.
type Ack struct {
	Status    string `json:"status"`
	SurgeryID string `json:"surgeryId"`
}

// SurgeryStore is the minimal repository needed to persist finalized sessions.
type SurgeryStore interface {
	Save(ctx context.Context, s *domain.SurgerySession) error
}

// Aggregator owns the mapping from live connection to in-progress session.
// It validates, appends, and finalizes telemetry. One Aggregator serves all
// connections; per-session safety relies on the transport delivering each
// connection's messages one at a time, in arrival order.
type Aggregator struct {
	arena    *Arena
	store    SurgeryStore
	validate *validator.Validate
	metrics  *Metrics
	emitter  observe.EventEmitter
}

// NewAggregator returns an Aggregator persisting through store. metrics and
// emitter may be nil.
func NewAggregator(store SurgeryStore, metrics *Metrics, emitter observe.EventEmitter) *Aggregator {
	return &Aggregator{
		arena:    NewArena(),
		store:    store,
		validate: newValidator(),
		metrics:  metrics,
		emitter:  emitter,
	}
}

// OnEvent processes one inbound message for the given connection. ctx must
// carry the identity attached at connection establishment.
//
// The returned Ack is non-nil only when the event finalized the session. On
// ErrBadTelemetry and ErrMissingIdentity no session state has been mutated;
// any other error is a finalize-time save failure, fatal for this message
// (the map entry is already removed, no rollback).
func (a *Aggregator) OnEvent(ctx context.Context, connID string, payload []byte) (*Ack, error) {
	// An undecodable frame cannot pass the structural gate below, so decode
	// failures share the bad-data outcome.
	var event TelemetryEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		a.reject(connID, "bad_data")
		return nil, ErrBadTelemetry
	}
	if err := a.validate.Struct(event); err != nil {
		a.reject(connID, "bad_data")
		return nil, ErrBadTelemetry
	}

	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok || identity.UserID == "" {
		a.reject(connID, "no_identity")
		return nil, ErrMissingIdentity
	}

	session, created := a.arena.GetOrCreate(connID, identity.UserID)
	if created {
		if a.metrics != nil {
			a.metrics.ActiveSessions.Inc()
		}
		observe.EmitAsync(a.emitter, observe.Event{
			Type:         observe.EventSessionStarted,
			UserID:       identity.UserID,
			SurgeryID:    session.ID,
			ConnectionID: connID,
			At:           time.Now().UTC(),
		})
	}

	session.AddMovement(event.Movement())
	if a.metrics != nil {
		a.metrics.EventsTotal.WithLabelValues(string(event.Event)).Inc()
	}

	if event.Event != domain.EventFinish {
		return nil, nil
	}

	session.Finish()
	a.arena.Remove(connID)
	if a.metrics != nil {
		a.metrics.ActiveSessions.Dec()
	}
	if err := a.store.Save(ctx, session); err != nil {
		if a.metrics != nil {
			a.metrics.SaveFailuresTotal.Inc()
		}
		return nil, fmt.Errorf("save surgery %s: %w", session.ID, err)
	}
	if a.metrics != nil {
		a.metrics.FinalizedTotal.Inc()
	}
	observe.EmitAsync(a.emitter, observe.Event{
		Type:         observe.EventSessionFinalized,
		UserID:       identity.UserID,
		SurgeryID:    session.ID,
		ConnectionID: connID,
		At:           time.Now().UTC(),
	})
	return &Ack{Status: "SAVED", SurgeryID: session.ID}, nil
}

// Abandon discards the in-progress session for a connection that closed
// without a FINISH event. Nothing is persisted; there is no replay or resume
// for a dropped connection.
func (a *Aggregator) Abandon(connID string) {
	if a.arena.Get(connID) == nil {
		return
	}
	a.arena.Remove(connID)
	if a.metrics != nil {
		a.metrics.ActiveSessions.Dec()
	}
}

// ActiveSessions returns the number of in-progress sessions.
func (a *Aggregator) ActiveSessions() int {
	return a.arena.Len()
}

func (a *Aggregator) reject(connID, reason string) {
	if a.metrics != nil {
		a.metrics.RejectedTotal.WithLabelValues(reason).Inc()
	}
	observe.EmitAsync(a.emitter, observe.Event{
		Type:         observe.EventTelemetryRejected,
		ConnectionID: connID,
		Detail:       reason,
		At:           time.Now().UTC(),
	})
}
