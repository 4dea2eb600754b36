package verifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHelperServer(t *testing.T, installed bool, enrolledUsers map[string]bool, thumbprints []string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if installed {
			_, _ = w.Write([]byte(`{"installed": true}`))
		} else {
			_, _ = w.Write([]byte(`{"installed": false}`))
		}
	})
	mux.HandleFunc("/enrollment", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if enrolledUsers[r.URL.Query().Get("user")] {
			_, _ = w.Write([]byte(`{"enrolled": true}`))
		} else {
			_, _ = w.Write([]byte(`{"enrolled": false}`))
		}
	})
	mux.HandleFunc("/device-info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body := `{"thumbprints": [`
		for i, tp := range thumbprints {
			if i > 0 {
				body += ","
			}
			body += `"` + tp + `"`
		}
		body += `]}`
		_, _ = w.Write([]byte(body))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestIsInstalled(t *testing.T) {
	server := newHelperServer(t, true, nil, nil)
	client := NewClient(server.URL, time.Second)

	installed, err := client.IsInstalled(context.Background())
	require.NoError(t, err)
	assert.True(t, installed)
}

func TestIsInstalledHelperReportsAbsent(t *testing.T) {
	server := newHelperServer(t, false, nil, nil)
	client := NewClient(server.URL, time.Second)

	installed, err := client.IsInstalled(context.Background())
	require.NoError(t, err)
	assert.False(t, installed)
}

func TestIsInstalledHelperNotRunning(t *testing.T) {
	server := newHelperServer(t, true, nil, nil)
	server.Close()

	client := NewClient(server.URL, time.Second)

	installed, err := client.IsInstalled(context.Background())
	require.NoError(t, err, "an unreachable helper means the agent is not installed")
	assert.False(t, installed)
}

func TestIsEnrolledForUser(t *testing.T) {
	server := newHelperServer(t, true, map[string]bool{"alice@example.com": true}, nil)
	client := NewClient(server.URL, time.Second)

	enrolled, err := client.IsEnrolledForUser(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, enrolled)

	enrolled, err = client.IsEnrolledForUser(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.False(t, enrolled)
}

func TestIsEnrolledForUserHelperNotRunningPropagates(t *testing.T) {
	server := newHelperServer(t, true, nil, nil)
	server.Close()

	client := NewClient(server.URL, time.Second)

	_, err := client.IsEnrolledForUser(context.Background(), "alice@example.com")
	assert.Error(t, err)
}

func TestDeviceInfo(t *testing.T) {
	server := newHelperServer(t, true, nil, []string{"aa11", "bb22"})
	client := NewClient(server.URL, time.Second)

	info, err := client.DeviceInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"aa11", "bb22"}, info.Thumbprints)
}

func TestHelperErrorStatusPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second)

	_, err := client.IsEnrolledForUser(context.Background(), "alice@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestHelperMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second)

	_, err := client.DeviceInfo(context.Background())
	assert.Error(t, err)
}
