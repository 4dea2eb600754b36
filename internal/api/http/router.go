package http

import (
	"github.com/EternisAI/device-trust/internal/api/http/handler"
	"github.com/EternisAI/device-trust/internal/api/http/middleware"
	"github.com/EternisAI/device-trust/internal/trust"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Trust *trust.Service
}

func SetupRoute(engine *gin.Engine, srvs *Services, authSecret string) {
	engine.Use(middleware.RequestLogger())

	healthHandler := handler.NewHealthHandler()
	engine.GET("/health", healthHandler.Check)

	stateHandler := handler.NewStateHandler(srvs.Trust)
	api := engine.Group("/api/v1", middleware.JWTAuth(authSecret))
	api.GET("/state", stateHandler.GetState)
	api.POST("/refresh", stateHandler.Refresh)
}
