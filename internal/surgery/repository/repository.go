package repository

import (
	"context"

	"surgsim-platform/backend/internal/surgery/domain"
)

// Repository defines persistence for finalized surgery sessions.
type Repository interface {
	// GetByID returns the session for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.SurgerySession, error)
	// Save inserts the session or updates it in place (analysis writes).
	Save(ctx context.Context, s *domain.SurgerySession) error
}
