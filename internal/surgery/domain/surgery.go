package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind classifies one telemetry sample of a simulated procedure.
type EventKind string

const (
	EventNone       EventKind = "NONE"
	EventTumorTouch EventKind = "TUMOR_TOUCH"
	EventHemorrhage EventKind = "HEMORRHAGE"
	EventStart      EventKind = "START"
	EventFinish     EventKind = "FINISH"
)

// Valid reports whether k is one of the known event kinds.
func (k EventKind) Valid() bool {
	switch k {
	case EventNone, EventTumorTouch, EventHemorrhage, EventStart, EventFinish:
		return true
	}
	return false
}

// Movement is a telemetry event accepted into a session's trajectory. It keeps
// the wire shape of the inbound sample field for field.
type Movement struct {
	Coordinates []float64 `json:"coordinates"`
	Event       EventKind `json:"event"`
	Timestamp   int64     `json:"timestamp"`
}

// SurgerySession is the aggregate record of one simulated procedure: who
// performed it, the ordered trajectory, timing, and the optional analysis
// attached after the fact. ID and OwnerID never change after creation; the
// trajectory is append-only until Finish and frozen after.
type SurgerySession struct {
	ID              string
	OwnerID         string
	Trajectory      []Movement
	StartTime       time.Time
	EndTime         *time.Time // nil until finalized
	DurationSeconds *int64     // nil until finalized
	Score           *float64   // nil until analysis is attached
	Feedback        *string
}

// NewSession starts a session for the given owner with a fresh id, an empty
// trajectory, and StartTime set to the current instant.
func NewSession(ownerID string) *SurgerySession {
	return &SurgerySession{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		StartTime: time.Now().UTC(),
	}
}

// AddMovement appends the movement to the trajectory, preserving arrival
// order. The trajectory is the temporal record of the procedure.
func (s *SurgerySession) AddMovement(m Movement) {
	s.Trajectory = append(s.Trajectory, m)
}

// Finish finalizes the session: EndTime is set to the current instant and
// DurationSeconds to the whole seconds elapsed since StartTime.
func (s *SurgerySession) Finish() {
	s.finishAt(time.Now().UTC())
}

func (s *SurgerySession) finishAt(end time.Time) {
	s.EndTime = &end
	secs := int64(end.Sub(s.StartTime) / time.Second)
	s.DurationSeconds = &secs
}

// UpdateAnalysis sets or overwrites the score and feedback. It may be called
// any number of times, independent of finalization.
func (s *SurgerySession) UpdateAnalysis(score float64, feedback string) {
	s.Score = &score
	s.Feedback = &feedback
}
