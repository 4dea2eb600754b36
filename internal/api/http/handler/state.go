package handler

import (
	"log/slog"
	"net/http"

	"github.com/EternisAI/device-trust/internal/api/http/dto"
	"github.com/EternisAI/device-trust/internal/trust"
	"github.com/gin-gonic/gin"
)

type StateHandler struct {
	trust *trust.Service
}

func NewStateHandler(trustService *trust.Service) *StateHandler {
	return &StateHandler{trust: trustService}
}

func (h *StateHandler) GetState(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.stateResponse())
}

// Refresh re-derives the enrollment state and returns the result.
func (h *StateHandler) Refresh(ctx *gin.Context) {
	if err := h.trust.Refresh(ctx.Request.Context()); err != nil {
		slog.Error("Enrollment refresh failed", "error", err)
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "enrollment refresh failed"})
		return
	}

	ctx.JSON(http.StatusOK, h.stateResponse())
}

func (h *StateHandler) stateResponse() dto.StateResponse {
	resp := dto.StateResponse{
		State:       string(h.trust.State()),
		UserID:      h.trust.UserID(),
		RefreshedAt: h.trust.LastRefreshed(),
	}

	if cert := h.trust.Certificate(); cert != nil {
		resp.Certificate = &dto.CertificateSummary{
			Thumbprint: cert.Thumbprint,
			Subject:    cert.Subject,
			NotAfter:   cert.NotAfter,
		}
	}

	return resp
}
