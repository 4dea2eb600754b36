package enrollment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/EternisAI/device-trust/internal/audit"
	"github.com/google/uuid"
)

// CertificateStore lists certificates matching an issuer and subject name.
// Certificates are returned in store-defined order.
type CertificateStore interface {
	ListCertificates(ctx context.Context, issuer string, subject string) ([]*Certificate, error)
}

type Options struct {
	// Issuer overrides the issuer/subject name device certificates are
	// looked up under. Defaults to IssuerName.
	Issuer string
	// Recorder receives one event per refresh outcome. Defaults to a
	// slog-backed recorder.
	Recorder audit.Recorder
}

// Resolver derives the device's enrollment state for a user from an
// enrollment Source and a CertificateStore.
//
// Concurrent Refresh calls are not coordinated; callers that may refresh
// concurrently must serialize themselves, otherwise the last refresh to
// finish wins. State and certificate are always replaced together, so a
// reader never observes a mix of two refreshes.
type Resolver struct {
	source   Source
	store    CertificateStore
	issuer   string
	recorder audit.Recorder

	mu    sync.RWMutex
	state State
	cert  *Certificate
}

// NewResolver builds a resolver and performs one refresh for userID before
// returning. A failed initial refresh fails construction.
func NewResolver(ctx context.Context, source Source, store CertificateStore, userID string, opts *Options) (*Resolver, error) {
	r := &Resolver{
		source:   source,
		store:    store,
		issuer:   IssuerName,
		recorder: audit.NewSlogRecorder(nil),
		state:    StateNotInstalled,
	}

	if opts != nil {
		if opts.Issuer != "" {
			r.issuer = opts.Issuer
		}
		if opts.Recorder != nil {
			r.recorder = opts.Recorder
		}
	}

	if err := r.Refresh(ctx, userID); err != nil {
		return nil, err
	}

	return r, nil
}

// Refresh re-derives state and certificate. Each call is a fresh query
// sequence against the collaborators; nothing is cached between calls and
// collaborator failures propagate unmodified.
func (r *Resolver) Refresh(ctx context.Context, userID string) error {
	installed, err := r.source.IsInstalled(ctx)
	if err != nil {
		return fmt.Errorf("failed to check agent installation: %w", err)
	}
	if !installed {
		r.set(ctx, userID, StateNotInstalled, nil, "verification agent not installed")
		return nil
	}

	enrolled, err := r.source.IsEnrolledForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check enrollment for user: %w", err)
	}
	if !enrolled {
		r.set(ctx, userID, StateNotEnrolled, nil, "device not enrolled for user")
		return nil
	}

	info, err := r.source.DeviceInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch device info: %w", err)
	}

	certs, err := r.store.ListCertificates(ctx, r.issuer, r.issuer)
	if err != nil {
		return fmt.Errorf("failed to list certificates: %w", err)
	}

	if cert := matchCertificate(info, certs); cert != nil {
		r.set(ctx, userID, StateEnrolled, cert, "device certificate found")
		return nil
	}

	r.set(ctx, userID, StateEnrolledNoCertificate, nil, "no device certificate matched")
	return nil
}

// State returns the state derived by the last refresh.
func (r *Resolver) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Certificate returns the device certificate selected by the last refresh.
// It is non-nil exactly when State is StateEnrolled.
func (r *Resolver) Certificate() *Certificate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert
}

// matchCertificate returns the first certificate whose thumbprint appears in
// the device's thumbprint set. Matching is case-insensitive but SHA-256
// only; the verification agent identifies device certificates by that hash
// alone.
func matchCertificate(info *DeviceInfo, certs []*Certificate) *Certificate {
	claimed := make(map[string]struct{}, len(info.Thumbprints))
	for _, t := range info.Thumbprints {
		claimed[strings.ToLower(t)] = struct{}{}
	}

	for _, cert := range certs {
		if _, ok := claimed[strings.ToLower(cert.Thumbprint)]; ok {
			return cert
		}
	}

	return nil
}

// set replaces state and certificate together and records the outcome.
func (r *Resolver) set(ctx context.Context, userID string, state State, cert *Certificate, detail string) {
	r.mu.Lock()
	r.state = state
	r.cert = cert
	r.mu.Unlock()

	event := audit.Event{
		ID:     uuid.NewString(),
		Time:   time.Now(),
		UserID: userID,
		State:  string(state),
		Detail: detail,
	}
	if cert != nil {
		event.Thumbprint = cert.Thumbprint
	}

	if err := r.recorder.Record(ctx, event); err != nil {
		slog.Warn("Failed to record enrollment event", "state", state, "error", err)
	}
}
