package store

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
)

var errDiskFull = errors.New("disk full")

type memRepo struct {
	mu         sync.Mutex
	profiles   []profile.Profile
	skills     []skill.Skill
	categories []string

	loadDelay  time.Duration
	loads      atomic.Int32
	saves      atomic.Int32
	failSaves  bool
	failLoads  bool
	failSkills bool

	// failCategorySaveAt makes the n-th SaveCategories call fail; 0 never fails.
	categorySaves      atomic.Int32
	failCategorySaveAt int32
}

func (r *memRepo) LoadProfiles(ctx context.Context) ([]profile.Profile, error) {
	r.loads.Add(1)
	if r.loadDelay > 0 {
		time.Sleep(r.loadDelay)
	}
	if r.failLoads {
		return nil, errDiskFull
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.profiles), nil
}

func (r *memRepo) SaveProfiles(ctx context.Context, profiles []profile.Profile) error {
	r.saves.Add(1)
	if r.failSaves {
		return errDiskFull
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = slices.Clone(profiles)
	return nil
}

func (r *memRepo) LoadSkills(ctx context.Context) ([]skill.Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.skills), nil
}

func (r *memRepo) SaveSkills(ctx context.Context, skills []skill.Skill) error {
	r.saves.Add(1)
	if r.failSaves || r.failSkills {
		return errDiskFull
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skills = slices.Clone(skills)
	return nil
}

func (r *memRepo) LoadCategories(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.categories), nil
}

func (r *memRepo) SaveCategories(ctx context.Context, categories []string) error {
	r.saves.Add(1)
	n := r.categorySaves.Add(1)
	if r.failSaves || n == r.failCategorySaveAt {
		return errDiskFull
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = slices.Clone(categories)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []directory.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, evt directory.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []directory.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]directory.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
