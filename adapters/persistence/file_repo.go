package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
	"github.com/khoahotran/talent-directory/pkg/apperror"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

type fileDirectoryRepo struct {
	dir    string
	logger logger.Logger
	mu     sync.Mutex
}

// NewFileDirectoryRepo stores each record set as <dir>/<name>.json. A document
// is written to a temporary file first and renamed over the old one, so a
// reader never sees a partially written set.
func NewFileDirectoryRepo(dir string, log logger.Logger) (directory.Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	log.Info("File storage ready", zap.String("dir", dir))
	return &fileDirectoryRepo{dir: dir, logger: log}, nil
}

func (r *fileDirectoryRepo) path(name string) string {
	return filepath.Join(r.dir, name+".json")
}

// read returns nil, nil for a document that does not exist yet.
func (r *fileDirectoryRepo) read(name string) ([]byte, error) {
	b, err := os.ReadFile(r.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewPersistence("read "+name+" document", err)
	}
	return b, nil
}

func (r *fileDirectoryRepo) write(name string, doc any) error {
	b, err := encodeDoc(doc)
	if err != nil {
		return apperror.NewPersistence("encode "+name+" document", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	final := r.path(name)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return apperror.NewPersistence("write "+name+" document", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return apperror.NewPersistence("replace "+name+" document", err)
	}
	r.logger.Debug("Document written", zap.String("document", name), zap.Int("bytes", len(b)))
	return nil
}

func (r *fileDirectoryRepo) LoadProfiles(ctx context.Context) ([]profile.Profile, error) {
	b, err := r.read(docProfiles)
	if err != nil || b == nil {
		return []profile.Profile{}, err
	}
	profiles, err := decodeProfiles(b)
	if err != nil {
		return nil, apperror.NewPersistence("decode profiles document", err)
	}
	return profiles, nil
}

func (r *fileDirectoryRepo) SaveProfiles(ctx context.Context, profiles []profile.Profile) error {
	return r.write(docProfiles, profilesDoc{Profiles: emptyIfNil(profiles)})
}

func (r *fileDirectoryRepo) LoadSkills(ctx context.Context) ([]skill.Skill, error) {
	b, err := r.read(docSkills)
	if err != nil || b == nil {
		return []skill.Skill{}, err
	}
	skills, err := decodeSkills(b)
	if err != nil {
		return nil, apperror.NewPersistence("decode skills document", err)
	}
	return skills, nil
}

func (r *fileDirectoryRepo) SaveSkills(ctx context.Context, skills []skill.Skill) error {
	return r.write(docSkills, skillsDoc{Skills: emptyIfNil(skills)})
}

func (r *fileDirectoryRepo) LoadCategories(ctx context.Context) ([]string, error) {
	b, err := r.read(docCategories)
	if err != nil || b == nil {
		return []string{}, err
	}
	categories, err := decodeCategories(b)
	if err != nil {
		return nil, apperror.NewPersistence("decode categories document", err)
	}
	return categories, nil
}

func (r *fileDirectoryRepo) SaveCategories(ctx context.Context, categories []string) error {
	return r.write(docCategories, categoriesDoc{Categories: emptyIfNil(categories)})
}
