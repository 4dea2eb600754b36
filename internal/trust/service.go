package trust

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/EternisAI/device-trust/internal/enrollment"
)

// Service owns the resolver for the configured user and serializes refreshes.
// The resolver itself does not coordinate concurrent refreshes, so every
// refresh in the process goes through here.
type Service struct {
	resolver *enrollment.Resolver
	userID   string

	mu            sync.Mutex
	lastRefreshed time.Time
}

func NewService(ctx context.Context, source enrollment.Source, store enrollment.CertificateStore, userID string, opts *enrollment.Options) (*Service, error) {
	resolver, err := enrollment.NewResolver(ctx, source, store, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("initial enrollment refresh failed: %w", err)
	}

	return &Service{
		resolver:      resolver,
		userID:        userID,
		lastRefreshed: time.Now(),
	}, nil
}

// Refresh re-derives the enrollment state for the configured user. Calls are
// serialized; a concurrent caller blocks until the in-flight refresh is done.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resolver.Refresh(ctx, s.userID); err != nil {
		return err
	}

	s.lastRefreshed = time.Now()
	return nil
}

func (s *Service) State() enrollment.State {
	return s.resolver.State()
}

func (s *Service) Certificate() *enrollment.Certificate {
	return s.resolver.Certificate()
}

func (s *Service) UserID() string {
	return s.userID
}

func (s *Service) LastRefreshed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRefreshed
}
