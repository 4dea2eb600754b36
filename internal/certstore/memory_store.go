package certstore

import (
	"context"
	"sync"

	"github.com/EternisAI/device-trust/internal/enrollment"
)

// MemoryStore is an in-memory certificate store for development and tests.
// Certificates are listed in insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	certs []*enrollment.Certificate
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Add(cert *enrollment.Certificate) {
	s.mu.Lock()
	s.certs = append(s.certs, cert)
	s.mu.Unlock()
}

// Remove deletes the certificate with the given thumbprint. It reports
// whether anything was removed.
func (s *MemoryStore) Remove(thumbprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cert := range s.certs {
		if cert.Thumbprint == thumbprint {
			s.certs = append(s.certs[:i], s.certs[i+1:]...)
			return true
		}
	}
	return false
}

func (s *MemoryStore) ListCertificates(_ context.Context, issuer string, subject string) ([]*enrollment.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*enrollment.Certificate
	for _, cert := range s.certs {
		if issuer != "" && cert.Issuer != issuer {
			continue
		}
		if subject != "" && cert.Subject != subject {
			continue
		}
		result = append(result, cert)
	}
	return result, nil
}
