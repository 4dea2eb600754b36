package audit

import (
	"context"
	"errors"
	"time"
)

// Event is one enrollment-state transition observed by a refresh.
type Event struct {
	ID         string
	Time       time.Time
	UserID     string
	State      string
	Thumbprint string
	Detail     string
}

// Recorder receives enrollment events. Recording is diagnostic only; a
// failing recorder must not change the outcome of a refresh.
type Recorder interface {
	Record(ctx context.Context, event Event) error
}

// MultiRecorder fans an event out to every recorder it holds.
type MultiRecorder []Recorder

func (m MultiRecorder) Record(ctx context.Context, event Event) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
