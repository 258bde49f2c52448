package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/internal/application/service"
	"github.com/khoahotran/talent-directory/pkg/apperror"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

var tracer = otel.Tracer("backup_usecase")

// Exporter writes the interchange export of the directory.
type Exporter interface {
	Execute(ctx context.Context, w io.Writer) (int, error)
}

type Result struct {
	URL      string
	PublicID string
	Profiles int
}

type BackupUseCase struct {
	exporter Exporter
	uploader service.Uploader
	folder   string
	retain   int
	logger   logger.Logger
	now      func() time.Time

	mu       sync.Mutex
	uploaded []string
}

// NewBackupUseCase uploads exports into folder. Only the newest retain
// uploads made by this process are kept; retain <= 0 keeps all of them.
func NewBackupUseCase(exporter Exporter, uploader service.Uploader, folder string, retain int, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		exporter: exporter,
		uploader: uploader,
		folder:   folder,
		retain:   retain,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (uc *BackupUseCase) Execute(ctx context.Context) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Execute")
	defer span.End()

	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.logger.Info("Starting directory backup...")

	var out bytes.Buffer
	n, err := uc.exporter.Execute(ctx, &out)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Export for backup failed", err)
		return nil, err
	}

	timestamp := uc.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("export-%s.csv", timestamp)
	publicID := fmt.Sprintf("%s/%s", uc.folder, filename)

	uploadURL, err := uc.uploader.Upload(ctx, bytes.NewReader(out.Bytes()), uc.folder, publicID)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to upload backup to Cloudinary", err, zap.String("public_id", publicID))
		return nil, apperror.NewInternal("failed to upload backup", err)
	}
	span.SetAttributes(attribute.String("public_id", publicID), attribute.Int("profiles", n))

	uc.uploaded = append(uc.uploaded, publicID)
	uc.prune(ctx)

	uc.logger.Info("Directory backup completed and uploaded successfully",
		zap.String("url", uploadURL),
		zap.String("public_id", publicID),
		zap.Int("profiles", n),
	)
	return &Result{URL: uploadURL, PublicID: publicID, Profiles: n}, nil
}

// prune deletes the oldest uploads beyond the retention limit. A failed
// delete is retried on the next backup.
func (uc *BackupUseCase) prune(ctx context.Context) {
	if uc.retain <= 0 {
		return
	}
	for len(uc.uploaded) > uc.retain {
		oldest := uc.uploaded[0]
		if err := uc.uploader.Delete(ctx, oldest); err != nil {
			uc.logger.Warn("Failed to delete old backup", zap.String("public_id", oldest), zap.Error(err))
			return
		}
		uc.uploaded = uc.uploaded[1:]
		uc.logger.Info("Deleted old backup", zap.String("public_id", oldest))
	}
}
