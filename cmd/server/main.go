package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusnest/campusnest-api/config"
	"github.com/campusnest/campusnest-api/internal/email"
	"github.com/campusnest/campusnest-api/internal/health"
	"github.com/campusnest/campusnest-api/internal/infrastructure/cms"
	ctxlog "github.com/campusnest/campusnest-api/internal/log"
	"github.com/campusnest/campusnest-api/internal/metrics"
	"github.com/campusnest/campusnest-api/internal/token"
	httptransport "github.com/campusnest/campusnest-api/internal/transport/http"
	"github.com/campusnest/campusnest-api/internal/transport/http/handler"
	"github.com/campusnest/campusnest-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.TokenHashSecret == config.InsecureHashSecret {
		logger.Warn("TOKEN_HASH_SECRET is the insecure development default — override it")
	}

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	codec, err := token.NewCodec(cfg.TokenLength, cfg.TokenHashAlgo, []byte(cfg.TokenHashSecret))
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	metrics.Register()

	// Record store
	client := cms.NewClient(cfg.StoreURL, cfg.StoreToken)
	userRepo := cms.NewUserRepository(client)
	tokenRepo := cms.NewVerificationTokenRepository(client)
	profileRepo := cms.NewProfileRepository(client)
	catalogRepo := cms.NewCatalogRepository(client)

	// Sessions
	sessionUsecase := usecase.NewSessionUsecase(userRepo)
	sessionHandler := handler.NewSessionHandler(sessionUsecase, cfg.SessionCookie, logger)

	// Verification
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	verifyUsecase := usecase.NewVerifyUsecase(userRepo, tokenRepo, profileRepo, codec, logger)
	registerUsecase := usecase.NewRegisterUsecase(userRepo, tokenRepo, codec, sender, cfg.VerifyLinkBase, cfg.VerifyTTLMin, logger)
	verifyHandler := handler.NewVerifyHandler(verifyUsecase, registerUsecase, cfg.VerifySuccessURL, cfg.VerifyErrorURL, logger)

	// Catalog
	catalogHandler := handler.NewCatalogHandler(catalogRepo, logger)

	checker := health.NewChecker(client, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, sessionHandler, verifyHandler, catalogHandler, sessionUsecase, cfg.SessionCookie),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
