package certstore

import (
	"context"
	"crypto/x509"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/EternisAI/device-trust/internal/enrollment"
)

// FileStore lists certificates from a directory of PEM (.pem, .crt) and
// PKCS#12 (.p12, .pfx) files. The directory is re-read on every call, so a
// certificate dropped in or removed between refreshes is picked up without
// restarting. Files are visited in lexicographic name order, which gives the
// store-defined certificate order.
type FileStore struct {
	dir            string
	pkcs12Password string
}

type FileStoreOptions struct {
	// PKCS12Password decrypts .p12/.pfx bundles. Empty works for
	// password-less exports.
	PKCS12Password string
}

func NewFileStore(dir string, opts *FileStoreOptions) *FileStore {
	s := &FileStore{dir: dir}
	if opts != nil {
		s.pkcs12Password = opts.PKCS12Password
	}
	return s
}

func (s *FileStore) ListCertificates(_ context.Context, issuer string, subject string) ([]*enrollment.Certificate, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate directory: %w", err)
	}

	var result []*enrollment.Certificate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())

		var certs []*x509.Certificate
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pem", ".crt":
			certs, err = loadPEMCertificates(path)
		case ".p12", ".pfx":
			certs, err = loadPKCS12Certificates(path, s.pkcs12Password)
		default:
			continue
		}
		if err != nil {
			// A single unreadable file must not hide the rest of the store.
			slog.Warn("Skipping unreadable certificate file", "path", path, "error", err)
			continue
		}

		for _, cert := range certs {
			if issuer != "" && cert.Issuer.String() != issuer {
				continue
			}
			if subject != "" && cert.Subject.String() != subject {
				continue
			}

			result = append(result, &enrollment.Certificate{
				Thumbprint: enrollment.ThumbprintSHA256(cert.Raw),
				Issuer:     cert.Issuer.String(),
				Subject:    cert.Subject.String(),
				NotAfter:   cert.NotAfter,
				X509:       cert,
			})
		}
	}

	return result, nil
}
