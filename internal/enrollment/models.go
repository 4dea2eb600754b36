package enrollment

import (
	"crypto/sha256"
	"crypto/x509"
	"fmt"
	"time"
)

// IssuerName is the distinguished name under which the endpoint-verification
// agent provisions device certificates. Device certificates are self-issued,
// so both issuer and subject carry this name.
const IssuerName = "CN=Google Endpoint Verification"

// State is the enrollment state of this device for a given user. Exactly one
// value holds at a time; a refresh replaces it wholesale.
type State string

const (
	// StateNotInstalled means the endpoint-verification agent is not present
	// on this machine.
	StateNotInstalled State = "not_installed"
	// StateNotEnrolled means the agent is installed but the device is not
	// enrolled for the user.
	StateNotEnrolled State = "not_enrolled"
	// StateEnrolled means the device is enrolled and a device certificate
	// was found in the certificate store.
	StateEnrolled State = "enrolled"
	// StateEnrolledNoCertificate means the device is enrolled but no device
	// certificate matched. Device certificates are optional, so this is an
	// expected outcome, not an error.
	StateEnrolledNoCertificate State = "enrolled_no_certificate"
)

// DeviceInfo holds the certificate thumbprints the endpoint-verification
// agent claims belong to this device.
type DeviceInfo struct {
	Thumbprints []string
}

// Certificate is a device certificate handed out by a certificate store.
// Thumbprint is the lowercase hex SHA-256 of the DER encoding.
type Certificate struct {
	Thumbprint string
	Issuer     string
	Subject    string
	NotAfter   time.Time
	X509       *x509.Certificate
}

// ThumbprintSHA256 computes the SHA-256 thumbprint of a DER-encoded
// certificate as lowercase hex.
func ThumbprintSHA256(der []byte) string {
	hash := sha256.Sum256(der)
	return fmt.Sprintf("%x", hash)
}
