package tests

import (
	"context"
	"testing"
	"time"

	"github.com/EternisAI/device-trust/internal/audit"
	"github.com/EternisAI/device-trust/internal/certstore"
	"github.com/EternisAI/device-trust/internal/enrollment"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGRecorder(t *testing.T, ctx context.Context, pool *pgxpool.Pool) {
	t.Run("insert and read back", func(t *testing.T) {
		recorder := audit.NewPGRecorder(pool)

		event := audit.Event{
			ID:         uuid.NewString(),
			Time:       time.Now(),
			UserID:     "alice@example.com",
			State:      "enrolled",
			Thumbprint: "aa11",
			Detail:     "device certificate found",
		}
		require.NoError(t, recorder.Record(ctx, event))

		var state, thumbprint, detail string
		err := pool.QueryRow(ctx,
			`SELECT state, thumbprint, detail FROM enrollment_events WHERE id = $1`,
			event.ID,
		).Scan(&state, &thumbprint, &detail)
		require.NoError(t, err)

		assert.Equal(t, "enrolled", state)
		assert.Equal(t, "aa11", thumbprint)
		assert.Equal(t, "device certificate found", detail)
	})

	t.Run("rejects malformed event ID", func(t *testing.T) {
		recorder := audit.NewPGRecorder(pool)

		err := recorder.Record(ctx, audit.Event{ID: "not-a-uuid"})
		assert.Error(t, err)
	})
}

func TestResolverRecordsToPostgres(t *testing.T, ctx context.Context, pool *pgxpool.Pool) {
	source := enrollment.NewStaticSource()
	source.SetInstalled(true)
	source.SetEnrolled("bob@example.com", true)

	store := certstore.NewMemoryStore()

	_, err := enrollment.NewResolver(ctx, source, store, "bob@example.com", &enrollment.Options{
		Recorder: audit.NewPGRecorder(pool),
	})
	require.NoError(t, err)

	var state string
	err = pool.QueryRow(ctx,
		`SELECT state FROM enrollment_events WHERE user_id = $1 ORDER BY occurred_at DESC LIMIT 1`,
		"bob@example.com",
	).Scan(&state)
	require.NoError(t, err)

	assert.Equal(t, "enrolled_no_certificate", state)
}
