package store

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
	"github.com/khoahotran/talent-directory/pkg/apperror"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

var tracer = otel.Tracer("directory_store")

// Store is the in-memory authority over profiles, skills and categories.
//
// Mutations are serialized by writeMu. Each one stages a new copy of the
// affected record set, persists it, and only then swaps it in under mu, so a
// failed write leaves the in-memory state exactly as it was.
type Store struct {
	repo      directory.Repository
	publisher directory.EventPublisher
	logger    logger.Logger
	newID     func() string
	now       func() time.Time
	readOnly  bool

	writeMu sync.Mutex

	mu         sync.RWMutex
	profiles   []profile.Profile
	skills     []skill.Skill
	categories []string
}

type Option func(*Store)

// WithPublisher sends an Event after every persisted mutation.
func WithPublisher(p directory.EventPublisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithReadOnly builds a store that never writes: Load does not persist a
// missing Uncategorized category and every mutation fails with
// apperror.ErrPermission. Used by processes that only export.
func WithReadOnly() Option {
	return func(s *Store) { s.readOnly = true }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// Load reads all three record sets and makes sure the Uncategorized category
// exists, persisting it when it had to be added unless the store is read-only.
func Load(ctx context.Context, repo directory.Repository, log logger.Logger, opts ...Option) (*Store, error) {
	ctx, span := tracer.Start(ctx, "Load")
	defer span.End()

	s := &Store{
		repo:   repo,
		logger: log,
		newID:  uuid.NewString,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	profiles, err := repo.LoadProfiles(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, asPersistence("load profiles", err)
	}
	skills, err := repo.LoadSkills(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, asPersistence("load skills", err)
	}
	categories, err := repo.LoadCategories(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, asPersistence("load categories", err)
	}

	for i := range profiles {
		profiles[i].Normalize()
	}
	if profiles == nil {
		profiles = []profile.Profile{}
	}
	if skills == nil {
		skills = []skill.Skill{}
	}
	if categories == nil {
		categories = []string{}
	}

	if !slices.Contains(categories, skill.Uncategorized) {
		categories = append(categories, skill.Uncategorized)
		if s.readOnly {
			log.Warn("Reserved category missing from storage, added in memory only", zap.String("category", skill.Uncategorized))
		} else {
			if err := repo.SaveCategories(ctx, categories); err != nil {
				span.RecordError(err)
				return nil, asPersistence("seed uncategorized category", err)
			}
			log.Info("Created reserved category", zap.String("category", skill.Uncategorized))
		}
	}

	s.profiles = profiles
	s.skills = skills
	s.categories = categories

	log.Info("Record store loaded",
		zap.Int("profiles", len(profiles)),
		zap.Int("skills", len(skills)),
		zap.Int("categories", len(categories)),
	)
	return s, nil
}

func asPersistence(details string, err error) error {
	if errors.Is(err, apperror.ErrPersistence) {
		return err
	}
	return apperror.NewPersistence(details, err)
}

func (s *Store) checkWritable() error {
	if s.readOnly {
		return apperror.NewPermissionDenied("record store is read-only")
	}
	return nil
}

func (s *Store) saveProfiles(ctx context.Context, staged []profile.Profile) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	if err := s.repo.SaveProfiles(ctx, staged); err != nil {
		s.logger.Error("Failed to persist profiles", err, zap.Int("count", len(staged)))
		return asPersistence("save profiles", err)
	}
	return nil
}

func (s *Store) saveSkills(ctx context.Context, staged []skill.Skill) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	if err := s.repo.SaveSkills(ctx, staged); err != nil {
		s.logger.Error("Failed to persist skills", err, zap.Int("count", len(staged)))
		return asPersistence("save skills", err)
	}
	return nil
}

func (s *Store) saveCategories(ctx context.Context, staged []string) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	if err := s.repo.SaveCategories(ctx, staged); err != nil {
		s.logger.Error("Failed to persist categories", err, zap.Int("count", len(staged)))
		return asPersistence("save categories", err)
	}
	return nil
}

func (s *Store) publish(ctx context.Context, typ directory.EventType, resourceID, detail string) {
	if s.publisher == nil {
		return
	}
	evt := directory.Event{Type: typ, ResourceID: resourceID, Detail: detail, At: s.now()}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("Failed to publish directory event",
			zap.String("type", string(typ)),
			zap.String("resource_id", resourceID),
			zap.Error(err),
		)
	}
}

// Stats summarises the loaded record sets.
type Stats struct {
	Profiles          int            `json:"profiles"`
	Skills            int            `json:"skills"`
	Categories        int            `json:"categories"`
	SkillsPerCategory map[string]int `json:"skillsPerCategory"`
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perCategory := make(map[string]int, len(s.categories))
	for _, c := range s.categories {
		perCategory[c] = 0
	}
	for _, sk := range s.skills {
		perCategory[sk.Category]++
	}
	return Stats{
		Profiles:          len(s.profiles),
		Skills:            len(s.skills),
		Categories:        len(s.categories) - 1,
		SkillsPerCategory: perCategory,
	}
}
