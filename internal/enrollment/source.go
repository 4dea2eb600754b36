package enrollment

import (
	"context"
	"sync"
)

// Source reports the endpoint-verification agent's installation and
// enrollment status for this device.
type Source interface {
	IsInstalled(ctx context.Context) (bool, error)
	IsEnrolledForUser(ctx context.Context, userID string) (bool, error)
	DeviceInfo(ctx context.Context) (*DeviceInfo, error)
}

// StaticSource is an in-memory Source for development and tests.
type StaticSource struct {
	mu          sync.RWMutex
	installed   bool
	enrolled    map[string]bool
	thumbprints []string
}

func NewStaticSource() *StaticSource {
	return &StaticSource{
		enrolled: make(map[string]bool),
	}
}

func (s *StaticSource) SetInstalled(installed bool) {
	s.mu.Lock()
	s.installed = installed
	s.mu.Unlock()
}

func (s *StaticSource) SetEnrolled(userID string, enrolled bool) {
	s.mu.Lock()
	s.enrolled[userID] = enrolled
	s.mu.Unlock()
}

func (s *StaticSource) SetThumbprints(thumbprints ...string) {
	s.mu.Lock()
	s.thumbprints = append([]string(nil), thumbprints...)
	s.mu.Unlock()
}

func (s *StaticSource) IsInstalled(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.installed, nil
}

func (s *StaticSource) IsEnrolledForUser(_ context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enrolled[userID], nil
}

func (s *StaticSource) DeviceInfo(_ context.Context) (*DeviceInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &DeviceInfo{Thumbprints: append([]string(nil), s.thumbprints...)}, nil
}
