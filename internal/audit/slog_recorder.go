package audit

import (
	"context"
	"log/slog"
)

// SlogRecorder writes enrollment events to a structured logger.
type SlogRecorder struct {
	logger *slog.Logger
}

func NewSlogRecorder(logger *slog.Logger) *SlogRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogRecorder{logger: logger}
}

func (r *SlogRecorder) Record(ctx context.Context, event Event) error {
	r.logger.InfoContext(ctx, "Enrollment state resolved",
		"event_id", event.ID,
		"user_id", event.UserID,
		"state", event.State,
		"thumbprint", event.Thumbprint,
		"detail", event.Detail)
	return nil
}
