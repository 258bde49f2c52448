package interchange

import (
	"context"
	"errors"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/internal/application/usecase/store"
	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
	"github.com/khoahotran/talent-directory/pkg/apperror"
	codec "github.com/khoahotran/talent-directory/pkg/interchange"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

var tracer = otel.Tracer("interchange_usecase")

type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type ImportReport struct {
	Total    int        `json:"total"`
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
}

func (r *ImportReport) fail(line int, msg string) {
	r.Failed++
	r.Errors = append(r.Errors, RowError{Line: line, Message: msg})
}

type ImportUseCase struct {
	provider *store.Provider
	logger   logger.Logger
}

func NewImportUseCase(provider *store.Provider, log logger.Logger) *ImportUseCase {
	return &ImportUseCase{provider: provider, logger: log}
}

// Execute adds one profile per data row. A row that cannot be read or stored
// is recorded in the report and the import moves on; only an unreadable
// header, a cancelled ctx or an unavailable store stop it.
func (uc *ImportUseCase) Execute(ctx context.Context, r io.Reader) (*ImportReport, error) {
	ctx, span := tracer.Start(ctx, "Import")
	defer span.End()

	st, err := uc.provider.Store(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	rd, err := codec.NewReader(r)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInvalidInput("import file has no usable header row", err)
	}

	known := skillsByName(st.ListSkills())
	report := &ImportReport{Errors: []RowError{}}

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		row, line, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var rowErr *codec.RowError
		if errors.As(err, &rowErr) {
			report.Total++
			report.fail(rowErr.Line, rowErr.Err.Error())
			uc.logger.Warn("Skipping unreadable import row", zap.Int("line", rowErr.Line), zap.Error(rowErr.Err))
			continue
		}
		if err != nil {
			span.RecordError(err)
			return report, apperror.NewInvalidInput("read import file", err)
		}

		report.Total++
		p := codec.Parse(row)
		resolveSkills(&p, known)

		added, err := st.AddProfile(ctx, p)
		if err != nil {
			report.fail(line, rowMessage(err))
			uc.logger.Warn("Failed to import row", zap.Int("line", line), zap.String("name", p.Name), zap.Error(err))
			continue
		}
		report.Imported++
		uc.logger.Debug("Imported row", zap.Int("line", line), zap.String("profile_id", added.ID))
	}

	span.SetAttributes(
		attribute.Int("rows", report.Total),
		attribute.Int("imported", report.Imported),
		attribute.Int("failed", report.Failed),
	)
	uc.logger.Info("Import finished",
		zap.Int("rows", report.Total),
		zap.Int("imported", report.Imported),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func skillsByName(skills []skill.Skill) map[string]skill.Skill {
	m := make(map[string]skill.Skill, len(skills))
	for _, s := range skills {
		m[s.Name] = s
	}
	return m
}

// resolveSkills links imported skill entries to taxonomy skills of the same
// name. Entries with no match keep an empty id.
func resolveSkills(p *profile.Profile, known map[string]skill.Skill) {
	for i, ps := range p.Skills {
		s, ok := known[ps.Name]
		if !ok || ps.ID != "" {
			continue
		}
		p.Skills[i].ID = s.ID
		if ps.Category == "" {
			p.Skills[i].Category = s.Category
		}
	}
}

func rowMessage(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Err != nil {
		return appErr.Err.Error()
	}
	return err.Error()
}
