package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EternisAI/device-trust/internal/api/http/dto"
	"github.com/EternisAI/device-trust/internal/certstore"
	"github.com/EternisAI/device-trust/internal/enrollment"
	"github.com/EternisAI/device-trust/internal/trust"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupStateRouter(h *StateHandler) *gin.Engine {
	r := gin.New()
	r.GET("/api/v1/state", h.GetState)
	r.POST("/api/v1/refresh", h.Refresh)
	return r
}

func newTrustService(t *testing.T, source *enrollment.StaticSource, store *certstore.MemoryStore) *trust.Service {
	t.Helper()

	svc, err := trust.NewService(context.Background(), source, store, "alice@example.com", nil)
	require.NoError(t, err)
	return svc
}

func TestGetStateNotInstalled(t *testing.T) {
	source := enrollment.NewStaticSource()
	store := certstore.NewMemoryStore()
	h := NewStateHandler(newTrustService(t, source, store))
	r := setupStateRouter(h)

	req, _ := http.NewRequest("GET", "/api/v1/state", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.StateResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "not_installed", resp.State)
	assert.Equal(t, "alice@example.com", resp.UserID)
	assert.Nil(t, resp.Certificate)
	assert.False(t, resp.RefreshedAt.IsZero())
}

func TestGetStateEnrolled(t *testing.T) {
	source := enrollment.NewStaticSource()
	source.SetInstalled(true)
	source.SetEnrolled("alice@example.com", true)
	source.SetThumbprints("aa11")

	store := certstore.NewMemoryStore()
	store.Add(&enrollment.Certificate{
		Thumbprint: "aa11",
		Issuer:     enrollment.IssuerName,
		Subject:    enrollment.IssuerName,
	})

	h := NewStateHandler(newTrustService(t, source, store))
	r := setupStateRouter(h)

	req, _ := http.NewRequest("GET", "/api/v1/state", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.StateResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "enrolled", resp.State)
	require.NotNil(t, resp.Certificate)
	assert.Equal(t, "aa11", resp.Certificate.Thumbprint)
	assert.Equal(t, enrollment.IssuerName, resp.Certificate.Subject)
}

func TestRefreshPicksUpNewState(t *testing.T) {
	source := enrollment.NewStaticSource()
	store := certstore.NewMemoryStore()
	h := NewStateHandler(newTrustService(t, source, store))
	r := setupStateRouter(h)

	source.SetInstalled(true)

	req, _ := http.NewRequest("POST", "/api/v1/refresh", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.StateResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "not_enrolled", resp.State)
}

func TestRefreshFailureReturnsBadGateway(t *testing.T) {
	source := &breakableSource{StaticSource: enrollment.NewStaticSource()}
	store := certstore.NewMemoryStore()

	svc, err := trust.NewService(context.Background(), source, store, "alice@example.com", nil)
	require.NoError(t, err)

	source.broken = true

	h := NewStateHandler(svc)
	r := setupStateRouter(h)

	req, _ := http.NewRequest("POST", "/api/v1/refresh", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp dto.ErrorResponse
	err = json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Error)
}

type breakableSource struct {
	*enrollment.StaticSource
	broken bool
}

func (s *breakableSource) IsInstalled(ctx context.Context) (bool, error) {
	if s.broken {
		return false, errors.New("helper unreachable")
	}
	return s.StaticSource.IsInstalled(ctx)
}
