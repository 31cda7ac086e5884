// Package observe defines the operational event stream for the simulator
// backend: connection and session lifecycle events emitted as OpenTelemetry
// log records when an OTLP endpoint is configured.
package observe

import (
	"context"
	"time"
)

// Event types emitted by the backend.
const (
	EventSessionStarted     = "session_started"
	EventSessionFinalized   = "session_finalized"
	EventConnectionRejected = "connection_rejected"
	EventUserLoggedIn       = "user_logged_in"
	EventTelemetryRejected  = "telemetry_rejected"
	EventAnalysisSaved      = "analysis_saved"
)

// Event is one operational event. UserID, SurgeryID, and ConnectionID are
// optional depending on the event type.
type Event struct {
	Type         string
	UserID       string
	SurgeryID    string
	ConnectionID string
	Detail       string
	At           time.Time
}

// EventEmitter emits operational events. Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event Event) error
}
