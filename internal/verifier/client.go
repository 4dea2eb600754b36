package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/EternisAI/device-trust/internal/enrollment"
)

const defaultTimeout = 5 * time.Second

// Client implements enrollment.Source against the local endpoint-verification
// helper's status API. A helper that cannot be dialed at all is reported as
// not installed; any other failure propagates to the caller.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type statusResponse struct {
	Installed bool `json:"installed"`
}

type enrollmentResponse struct {
	Enrolled bool `json:"enrolled"`
}

type deviceInfoResponse struct {
	Thumbprints []string `json:"thumbprints"`
}

func (c *Client) IsInstalled(ctx context.Context) (bool, error) {
	var resp statusResponse
	if err := c.getJSON(ctx, "/status", nil, &resp); err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) {
			return false, nil
		}
		return false, err
	}
	return resp.Installed, nil
}

func (c *Client) IsEnrolledForUser(ctx context.Context, userID string) (bool, error) {
	query := url.Values{"user": {userID}}

	var resp enrollmentResponse
	if err := c.getJSON(ctx, "/enrollment", query, &resp); err != nil {
		return false, err
	}
	return resp.Enrolled, nil
}

func (c *Client) DeviceInfo(ctx context.Context) (*enrollment.DeviceInfo, error) {
	var resp deviceInfoResponse
	if err := c.getJSON(ctx, "/device-info", nil, &resp); err != nil {
		return nil, err
	}
	return &enrollment.DeviceInfo{Thumbprints: resp.Thumbprints}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach verification helper: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("verification helper returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
