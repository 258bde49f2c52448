package interchange

import (
	"context"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/internal/application/usecase/store"
	"github.com/khoahotran/talent-directory/pkg/apperror"
	codec "github.com/khoahotran/talent-directory/pkg/interchange"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

type ExportUseCase struct {
	provider *store.Provider
	logger   logger.Logger
}

func NewExportUseCase(provider *store.Provider, log logger.Logger) *ExportUseCase {
	return &ExportUseCase{provider: provider, logger: log}
}

// Execute writes a header and one row per profile to w and returns the
// number of profiles written.
func (uc *ExportUseCase) Execute(ctx context.Context, w io.Writer) (int, error) {
	ctx, span := tracer.Start(ctx, "Export")
	defer span.End()

	st, err := uc.provider.Store(ctx)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	profiles := st.ListProfiles()
	rows := make([]codec.Row, len(profiles))
	for i, p := range profiles {
		rows[i] = codec.Flatten(p)
	}

	if err := codec.WriteCSV(w, rows); err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to write export", err)
		return 0, apperror.NewInternal("failed to write export", err)
	}

	span.SetAttributes(attribute.Int("profiles", len(profiles)))
	uc.logger.Info("Export finished", zap.Int("profiles", len(profiles)))
	return len(profiles), nil
}
