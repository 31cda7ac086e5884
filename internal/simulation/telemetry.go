// Package simulation ingests positional telemetry streamed over WebSocket
// connections, accumulates it into per-connection surgery sessions, and
// finalizes them when the terminating event arrives.
package simulation

import (
	"github.com/go-playground/validator/v10"

	"surgsim-platform/backend/internal/surgery/domain"
)

// TelemetryEvent is the wire shape of one telemetry sample. Coordinates are
// [x, y] or [x, y, z]; the timestamp is positive epoch millis.
type TelemetryEvent struct {
	Coordinates []float64        `json:"coordinates" validate:"required,min=2,max=3"`
	Event       domain.EventKind `json:"event" validate:"required,oneof=NONE TUMOR_TOUCH HEMORRHAGE START FINISH"`
	Timestamp   int64            `json:"timestamp" validate:"gt=0"`
}

// Movement maps the validated sample to its domain form, field for field.
func (e TelemetryEvent) Movement() domain.Movement {
	return domain.Movement{
		Coordinates: e.Coordinates,
		Event:       e.Event,
		Timestamp:   e.Timestamp,
	}
}

// newValidator builds the validator used for telemetry and request payloads.
func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
