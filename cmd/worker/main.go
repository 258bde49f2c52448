package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/adapters/media_storage"
	"github.com/khoahotran/talent-directory/adapters/persistence"
	"github.com/khoahotran/talent-directory/internal/application/usecase/backup"
	"github.com/khoahotran/talent-directory/internal/application/usecase/interchange"
	"github.com/khoahotran/talent-directory/internal/application/usecase/store"
	"github.com/khoahotran/talent-directory/internal/config"
	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/pkg/logger"
	"github.com/khoahotran/talent-directory/pkg/tracing"
)

// snapshotExporter reloads the record sets on every run, since the API server
// mutates them from another process. The store it loads is read-only: the
// API server stays the only writer.
type snapshotExporter struct {
	repo   directory.Repository
	logger logger.Logger
}

func (e snapshotExporter) Execute(ctx context.Context, w io.Writer) (int, error) {
	provider := store.NewProvider(e.repo, e.logger, store.WithReadOnly())
	return interchange.NewExportUseCase(provider, e.logger).Execute(ctx, w)
}

func main() {
	fmt.Println("Starting Talent Directory Backup Worker...")

	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.App.LogLevel)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Jaeger.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, "talent-directory-worker")
		if err != nil {
			appLogger.Fatal("Cannot initialize tracer", err)
		}
		defer tp.Shutdown(context.Background())
	}

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Worker needs Kafka brokers", errors.New("kafka.brokers is empty"))
	}

	// Storage
	repo, closeRepo, err := persistence.OpenDirectoryRepo(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open record storage", err)
	}
	defer closeRepo()

	// Cloudinary Uploader
	uploader, err := media_storage.NewCloudinaryAdapter(cfg, media_storage.ResourceTypeRaw, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	// Worker Use Case
	backupUC := backup.NewBackupUseCase(
		snapshotExporter{repo: repo, logger: appLogger},
		uploader,
		cfg.Cloudinary.Folder,
		cfg.Cloudinary.Retain,
		appLogger,
	)

	// Kafka Consumer
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.Topic,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", cfg.Kafka.Topic), zap.String("group_id", cfg.Kafka.GroupID))

	var lastBackup time.Time
	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		var evt directory.Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			appLogger.Error("Failed to unmarshal event, skipping", err, zap.String("key", string(msg.Key)))
			commitMessage(consumer, msg, appLogger)
			continue
		}

		eventLog := appLogger.With(
			zap.String("event_type", string(evt.Type)),
			zap.String("resource_id", evt.ResourceID),
			zap.Int64("offset", msg.Offset),
		)

		// A backup taken after the event already contains it.
		if !evt.At.IsZero() && evt.At.Before(lastBackup) {
			eventLog.Debug("Event already covered by last backup")
			commitMessage(consumer, msg, appLogger)
			continue
		}

		started := time.Now().UTC()
		res, err := backupUC.Execute(ctx)
		if err != nil {
			eventLog.Error("Failed to back up directory", err)
			continue
		}
		lastBackup = started
		eventLog.Info("Directory backed up", zap.String("public_id", res.PublicID), zap.Int("profiles", res.Profiles))

		commitMessage(consumer, msg, appLogger)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message, appLogger logger.Logger) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		appLogger.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
	}
}
