package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRecorder appends enrollment events to the enrollment_events table.
type PGRecorder struct {
	pool *pgxpool.Pool
}

func NewPGRecorder(pool *pgxpool.Pool) *PGRecorder {
	return &PGRecorder{pool: pool}
}

func (r *PGRecorder) Record(ctx context.Context, event Event) error {
	eventID, err := uuid.Parse(event.ID)
	if err != nil {
		return fmt.Errorf("invalid event ID: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO enrollment_events (id, occurred_at, user_id, state, thumbprint, detail)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		pgtype.UUID{Bytes: eventID, Valid: true},
		pgtype.Timestamp{Time: event.Time.UTC(), Valid: true},
		event.UserID,
		event.State,
		event.Thumbprint,
		event.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to insert enrollment event: %w", err)
	}

	return nil
}
