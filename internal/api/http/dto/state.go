package dto

import "time"

type CertificateSummary struct {
	Thumbprint string    `json:"thumbprint"`
	Subject    string    `json:"subject"`
	NotAfter   time.Time `json:"not_after"`
}

type StateResponse struct {
	State       string              `json:"state"`
	UserID      string              `json:"user_id"`
	Certificate *CertificateSummary `json:"certificate,omitempty"`
	RefreshedAt time.Time           `json:"refreshed_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
