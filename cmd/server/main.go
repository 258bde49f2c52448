package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/adapters/event"
	httpAdapter "github.com/khoahotran/talent-directory/adapters/http"
	"github.com/khoahotran/talent-directory/adapters/media_storage"
	"github.com/khoahotran/talent-directory/adapters/persistence"
	authUC "github.com/khoahotran/talent-directory/internal/application/usecase/auth"
	"github.com/khoahotran/talent-directory/internal/application/usecase/interchange"
	mediaUC "github.com/khoahotran/talent-directory/internal/application/usecase/media"
	"github.com/khoahotran/talent-directory/internal/application/usecase/store"
	"github.com/khoahotran/talent-directory/internal/config"
	"github.com/khoahotran/talent-directory/pkg/auth"
	"github.com/khoahotran/talent-directory/pkg/logger"
	"github.com/khoahotran/talent-directory/pkg/tracing"
)

func main() {
	fmt.Println("Start Talent Directory API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.App.LogLevel)
	defer appLogger.Sync()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Jaeger.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, "talent-directory-api")
		if err != nil {
			appLogger.Fatal("Cannot initialize tracer", err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				appLogger.Error("Failed to shut down tracer provider", err)
			}
		}()
	}

	// Storage
	repo, closeRepo, err := persistence.OpenDirectoryRepo(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open record storage", err)
	}
	defer closeRepo()

	var storeOpts []store.Option
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := event.NewKafkaPublisher(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka publisher", err)
		}
		defer publisher.Close()
		storeOpts = append(storeOpts, store.WithPublisher(publisher))
	} else {
		appLogger.Warn("No Kafka brokers configured, directory events are not published")
	}

	provider := store.NewProvider(repo, appLogger, storeOpts...)
	if _, err := provider.Store(ctx); err != nil {
		// Requests retry the load, so a cold storage backend is not fatal.
		appLogger.Error("Record store warm-up failed", err)
	}

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(authUC.Admin{
		Email:        cfg.Auth.AdminEmail,
		PasswordHash: cfg.Auth.AdminPasswordHash,
	}, jwtSvc, appLogger)
	importUseCase := interchange.NewImportUseCase(provider, appLogger)
	exportUseCase := interchange.NewExportUseCase(provider, appLogger)

	var mediaHandler *httpAdapter.MediaHandler
	if cfg.Cloudinary.CloudName != "" {
		imageUploader, err := media_storage.NewCloudinaryAdapter(cfg, media_storage.ResourceTypeImage, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize uploader", err)
		}
		mediaHandler = httpAdapter.NewMediaHandler(
			mediaUC.NewProfileImageUseCase(provider, imageUploader, cfg.Cloudinary.ImageFolder, appLogger),
		)
	} else {
		appLogger.Warn("Cloudinary is not configured, profile image routes are disabled")
	}

	// HTTP
	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Directory:   httpAdapter.NewDirectoryHandler(provider, appLogger),
		Interchange: httpAdapter.NewInterchangeHandler(importUseCase, exportUseCase),
		Media:       mediaHandler,
		Auth:        httpAdapter.NewAuthHandler(loginUseCase),
		JWT:         jwtSvc,
		Logger:      appLogger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shut down", err)
	}
	appLogger.Info("Server exited")
}
