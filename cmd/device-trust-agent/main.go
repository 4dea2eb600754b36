package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	internalhttp "github.com/EternisAI/device-trust/internal/api/http"
	"github.com/EternisAI/device-trust/internal/audit"
	"github.com/EternisAI/device-trust/internal/certstore"
	"github.com/EternisAI/device-trust/internal/db"
	"github.com/EternisAI/device-trust/internal/enrollment"
	"github.com/EternisAI/device-trust/internal/trust"
	"github.com/EternisAI/device-trust/internal/verifier"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var AppVersion string

func main() {
	InitConfig()

	slog.Info("Device Trust Agent", "version", AppVersion)

	if config.User.ID == "" {
		slog.Error("user.id is required")
		os.Exit(1)
	}
	if config.Verifier.BaseURL == "" {
		slog.Error("verifier.base_url is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := verifier.NewClient(config.Verifier.BaseURL, config.Verifier.Timeout)
	store := certstore.NewFileStore(config.Certs.Dir, &certstore.FileStoreOptions{
		PKCS12Password: config.Certs.PKCS12Password,
	})

	recorder := audit.MultiRecorder{audit.NewSlogRecorder(nil)}
	if config.Database.Url != "" {
		if err := db.RunMigrations(config.Database.Url, config.Database.Schema); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}

		pool, err := db.InitDB(ctx, config.Database.Url, config.Database.Schema)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		recorder = append(recorder, audit.NewPGRecorder(pool))
	}

	trustService, err := trust.NewService(ctx, source, store, config.User.ID, &enrollment.Options{
		Recorder: recorder,
	})
	if err != nil {
		slog.Error("Initial enrollment refresh failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Enrollment state resolved at startup", "state", trustService.State())

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(gin.Recovery())
	internalhttp.SetupRoute(engine, &internalhttp.Services{Trust: trustService}, config.Auth.Secret)

	server := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", config.Http.Port),
		Handler: engine,
	}

	go func() {
		slog.Info("Starting HTTP server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	if config.Refresh.Interval > 0 {
		go refreshLoop(ctx, trustService, config.Refresh.Interval)
	}

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}

func refreshLoop(ctx context.Context, trustService *trust.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := trustService.Refresh(ctx); err != nil {
				slog.Warn("Periodic enrollment refresh failed", "error", err)
			}
		}
	}
}
