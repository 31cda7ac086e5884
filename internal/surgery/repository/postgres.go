package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"surgsim-platform/backend/internal/surgery/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a surgery repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.SurgerySession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, trajectory, start_time, end_time, duration_seconds, score, feedback
		 FROM surgeries WHERE id = $1`, id)

	var s domain.SurgerySession
	var trajectory []byte
	var endTime sql.NullTime
	var duration sql.NullInt64
	var score sql.NullFloat64
	var feedback sql.NullString
	if err := row.Scan(&s.ID, &s.OwnerID, &trajectory, &s.StartTime, &endTime, &duration, &score, &feedback); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if len(trajectory) > 0 {
		if err := json.Unmarshal(trajectory, &s.Trajectory); err != nil {
			return nil, fmt.Errorf("decode trajectory for surgery %s: %w", id, err)
		}
	}
	if endTime.Valid {
		t := endTime.Time.UTC()
		s.EndTime = &t
	}
	if duration.Valid {
		d := duration.Int64
		s.DurationSeconds = &d
	}
	if score.Valid {
		v := score.Float64
		s.Score = &v
	}
	if feedback.Valid {
		f := feedback.String
		s.Feedback = &f
	}
	return &s, nil
}

// Save upserts the session. The trajectory is stored as JSONB; analysis
// writes after finalization update the same row.
func (r *PostgresRepository) Save(ctx context.Context, s *domain.SurgerySession) error {
	trajectory, err := json.Marshal(s.Trajectory)
	if err != nil {
		return fmt.Errorf("encode trajectory for surgery %s: %w", s.ID, err)
	}
	var endTime sql.NullTime
	if s.EndTime != nil {
		endTime = sql.NullTime{Time: s.EndTime.UTC(), Valid: true}
	}
	var duration sql.NullInt64
	if s.DurationSeconds != nil {
		duration = sql.NullInt64{Int64: *s.DurationSeconds, Valid: true}
	}
	var score sql.NullFloat64
	if s.Score != nil {
		score = sql.NullFloat64{Float64: *s.Score, Valid: true}
	}
	var feedback sql.NullString
	if s.Feedback != nil {
		feedback = sql.NullString{String: *s.Feedback, Valid: true}
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO surgeries (id, owner_id, trajectory, start_time, end_time, duration_seconds, score, feedback)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   trajectory = EXCLUDED.trajectory,
		   end_time = EXCLUDED.end_time,
		   duration_seconds = EXCLUDED.duration_seconds,
		   score = EXCLUDED.score,
		   feedback = EXCLUDED.feedback`,
		s.ID, s.OwnerID, trajectory, s.StartTime.UTC(), endTime, duration, score, feedback)
	return err
}
