package domain

import (
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	before := time.Now().UTC()
	s := NewSession("owner-1")
	after := time.Now().UTC()

	if s.ID == "" {
		t.Error("NewSession should assign an id")
	}
	if s.OwnerID != "owner-1" {
		t.Errorf("OwnerID = %q, want %q", s.OwnerID, "owner-1")
	}
	if len(s.Trajectory) != 0 {
		t.Errorf("Trajectory should start empty, got %d movements", len(s.Trajectory))
	}
	if s.StartTime.Before(before) || s.StartTime.After(after) {
		t.Errorf("StartTime %v not in [%v, %v]", s.StartTime, before, after)
	}
	if s.EndTime != nil || s.DurationSeconds != nil || s.Score != nil || s.Feedback != nil {
		t.Error("EndTime, DurationSeconds, Score, Feedback must be unset at creation")
	}
}

func TestAddMovement_PreservesOrder(t *testing.T) {
	s := NewSession("owner-1")
	events := []Movement{
		{Coordinates: []float64{1, 2}, Event: EventStart, Timestamp: 100},
		{Coordinates: []float64{3, 4, 5}, Event: EventTumorTouch, Timestamp: 200},
		{Coordinates: []float64{6, 7}, Event: EventFinish, Timestamp: 300},
	}
	for _, e := range events {
		s.AddMovement(e)
	}
	if len(s.Trajectory) != 3 {
		t.Fatalf("Trajectory length = %d, want 3", len(s.Trajectory))
	}
	for i, e := range events {
		if s.Trajectory[i].Timestamp != e.Timestamp || s.Trajectory[i].Event != e.Event {
			t.Errorf("Trajectory[%d] = %+v, want %+v", i, s.Trajectory[i], e)
		}
	}
}

func TestFinish_Duration(t *testing.T) {
	s := NewSession("owner-1")
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.StartTime = start

	s.finishAt(start.Add(125 * time.Second))

	if s.EndTime == nil || s.DurationSeconds == nil {
		t.Fatal("Finish must set EndTime and DurationSeconds")
	}
	if !s.EndTime.Equal(start.Add(125 * time.Second)) {
		t.Errorf("EndTime = %v, want start+125s", s.EndTime)
	}
	if *s.DurationSeconds != 125 {
		t.Errorf("DurationSeconds = %d, want 125", *s.DurationSeconds)
	}
}

func TestUpdateAnalysis_Overwrites(t *testing.T) {
	s := NewSession("owner-1")
	s.UpdateAnalysis(70, "steady hands")
	s.UpdateAnalysis(85.5, "improved")

	if s.Score == nil || *s.Score != 85.5 {
		t.Errorf("Score = %v, want 85.5", s.Score)
	}
	if s.Feedback == nil || *s.Feedback != "improved" {
		t.Errorf("Feedback = %v, want %q", s.Feedback, "improved")
	}
}

func TestEventKind_Valid(t *testing.T) {
	for _, k := range []EventKind{EventNone, EventTumorTouch, EventHemorrhage, EventStart, EventFinish} {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
	}
	for _, k := range []EventKind{"", "EXPLOSION", "finish"} {
		if k.Valid() {
			t.Errorf("%q should be invalid", k)
		}
	}
}
