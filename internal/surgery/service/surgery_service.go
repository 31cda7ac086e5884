package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"surgsim-platform/backend/internal/surgery/domain"
)

// ErrForbidden is returned when the requester does not own the session it is
// trying to read. No detail about the resource is leaked with it.
var ErrForbidden = errors.New("not allowed to access this surgery")

// NotFoundError is returned when the target session does not exist. It carries
// the id so the transport layer can echo it in the failure detail.
type NotFoundError struct {
	SurgeryID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("surgery %s not found", e.SurgeryID)
}

// Trajectory is the read model handed to authorized callers.
type Trajectory struct {
	SurgeryID string            `json:"surgeryId"`
	StartTime time.Time         `json:"startTime"`
	EndTime   *time.Time        `json:"endTime"`
	Movements []domain.Movement `json:"movements"`
}

// SurgeryRepo is the minimal surgery repository needed by the service.
type SurgeryRepo interface {
	GetByID(ctx context.Context, id string) (*domain.SurgerySession, error)
	Save(ctx context.Context, s *domain.SurgerySession) error
}

// SurgeryService serves trajectory reads and analysis writes against
// finalized sessions.
type SurgeryService struct {
	repo SurgeryRepo
}

// NewSurgeryService returns a SurgeryService backed by repo.
func NewSurgeryService(repo SurgeryRepo) *SurgeryService {
	return &SurgeryService{repo: repo}
}

// GetTrajectory returns the trajectory of the given surgery. The requester
// must be the session owner; role gating happens at the transport layer.
// Lookup failure wins over the ownership check: an unknown id yields
// NotFoundError regardless of who asks.
func (s *SurgeryService) GetTrajectory(ctx context.Context, surgeryID, requesterID string) (*Trajectory, error) {
	session, err := s.repo.GetByID(ctx, surgeryID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &NotFoundError{SurgeryID: surgeryID}
	}
	if session.OwnerID != requesterID {
		return nil, ErrForbidden
	}
	return &Trajectory{
		SurgeryID: session.ID,
		StartTime: session.StartTime,
		EndTime:   session.EndTime,
		Movements: session.Trajectory,
	}, nil
}

// SaveAnalysis attaches or overwrites the score and feedback of an existing
// session. There is deliberately no ownership check: the analyzing party is
// not expected to be the session owner.
func (s *SurgeryService) SaveAnalysis(ctx context.Context, surgeryID string, score float64, feedback string) error {
	session, err := s.repo.GetByID(ctx, surgeryID)
	if err != nil {
		return err
	}
	if session == nil {
		return &NotFoundError{SurgeryID: surgeryID}
	}
	session.UpdateAnalysis(score, feedback)
	return s.repo.Save(ctx, session)
}
