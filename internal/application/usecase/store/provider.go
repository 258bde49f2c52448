package store

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

// Provider hands out the process-wide Store. The first call loads it; callers
// arriving while that load is in flight wait for the same result instead of
// starting another one. A failed load is not cached.
type Provider struct {
	repo   directory.Repository
	logger logger.Logger
	opts   []Option

	group singleflight.Group
	mu    sync.Mutex
	store *Store
}

func NewProvider(repo directory.Repository, log logger.Logger, opts ...Option) *Provider {
	return &Provider{repo: repo, logger: log, opts: opts}
}

func (p *Provider) loaded() *Store {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store
}

// Store returns the initialized store. ctx only bounds how long this caller
// waits; the shared load itself is never cancelled by one caller leaving.
func (p *Provider) Store(ctx context.Context) (*Store, error) {
	if s := p.loaded(); s != nil {
		return s, nil
	}

	ch := p.group.DoChan("store", func() (any, error) {
		if s := p.loaded(); s != nil {
			return s, nil
		}
		s, err := Load(context.WithoutCancel(ctx), p.repo, p.logger, p.opts...)
		if err != nil {
			p.logger.Error("Record store initialization failed", err)
			return nil, err
		}
		p.mu.Lock()
		p.store = s
		p.mu.Unlock()
		return s, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Store), nil
	}
}
