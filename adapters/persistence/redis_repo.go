package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
	"github.com/khoahotran/talent-directory/pkg/apperror"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

type redisDirectoryRepo struct {
	rdb    redis.UniversalClient
	prefix string
	logger logger.Logger
}

// NewRedisDirectoryRepo stores each record set as one JSON document under
// <prefix>:<name>. The write time of every document is tracked in the
// <prefix>:meta hash in the same transaction.
func NewRedisDirectoryRepo(rdb redis.UniversalClient, prefix string, log logger.Logger) directory.Repository {
	return &redisDirectoryRepo{rdb: rdb, prefix: prefix, logger: log}
}

func (r *redisDirectoryRepo) key(name string) string {
	return r.prefix + ":" + name
}

// get returns nil, nil for a missing key.
func (r *redisDirectoryRepo) get(ctx context.Context, name string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, r.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewPersistence("get "+name+" document", err)
	}
	return b, nil
}

func (r *redisDirectoryRepo) set(ctx context.Context, name string, doc any) error {
	b, err := encodeDoc(doc)
	if err != nil {
		return apperror.NewPersistence("encode "+name+" document", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, r.key(name), b, 0)
	pipe.HSet(ctx, r.key("meta"), name, time.Now().UTC().Format(time.RFC3339Nano))
	if _, err := pipe.Exec(ctx); err != nil {
		return apperror.NewPersistence("set "+name+" document", err)
	}
	r.logger.Debug("Document written", zap.String("key", r.key(name)), zap.Int("bytes", len(b)))
	return nil
}

func (r *redisDirectoryRepo) LoadProfiles(ctx context.Context) ([]profile.Profile, error) {
	b, err := r.get(ctx, docProfiles)
	if err != nil || b == nil {
		return []profile.Profile{}, err
	}
	profiles, err := decodeProfiles(b)
	if err != nil {
		return nil, apperror.NewPersistence("decode profiles document", err)
	}
	return profiles, nil
}

func (r *redisDirectoryRepo) SaveProfiles(ctx context.Context, profiles []profile.Profile) error {
	return r.set(ctx, docProfiles, profilesDoc{Profiles: emptyIfNil(profiles)})
}

func (r *redisDirectoryRepo) LoadSkills(ctx context.Context) ([]skill.Skill, error) {
	b, err := r.get(ctx, docSkills)
	if err != nil || b == nil {
		return []skill.Skill{}, err
	}
	skills, err := decodeSkills(b)
	if err != nil {
		return nil, apperror.NewPersistence("decode skills document", err)
	}
	return skills, nil
}

func (r *redisDirectoryRepo) SaveSkills(ctx context.Context, skills []skill.Skill) error {
	return r.set(ctx, docSkills, skillsDoc{Skills: emptyIfNil(skills)})
}

func (r *redisDirectoryRepo) LoadCategories(ctx context.Context) ([]string, error) {
	b, err := r.get(ctx, docCategories)
	if err != nil || b == nil {
		return []string{}, err
	}
	categories, err := decodeCategories(b)
	if err != nil {
		return nil, apperror.NewPersistence("decode categories document", err)
	}
	return categories, nil
}

func (r *redisDirectoryRepo) SaveCategories(ctx context.Context, categories []string) error {
	return r.set(ctx, docCategories, categoriesDoc{Categories: emptyIfNil(categories)})
}
