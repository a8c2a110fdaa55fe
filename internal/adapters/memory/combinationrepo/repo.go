package combinationrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/meridian-travel/itinerary-api/internal/domain"
	"github.com/meridian-travel/itinerary-api/internal/ports/out/combinationrepo"
)

// Repo is an in-memory implementation of combinationrepo.Repository.
// It is safe for concurrent use; key uniqueness is enforced under one lock so
// concurrent inserts of the same key resolve to exactly one winner.
type Repo struct {
	mu    sync.RWMutex
	byKey map[domain.CombinationKey]domain.CombinationEntry
}

func NewRepo() *Repo {
	return &Repo{
		byKey: make(map[domain.CombinationKey]domain.CombinationEntry),
	}
}

func (r *Repo) Insert(ctx context.Context, e domain.CombinationEntry) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[e.Key]; ok {
		return combinationrepo.ErrAlreadyExists
	}
	r.byKey[e.Key] = e
	return nil
}

func (r *Repo) GetByKey(ctx context.Context, key domain.CombinationKey) (domain.CombinationEntry, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byKey[key]
	if !ok {
		return domain.CombinationEntry{}, combinationrepo.ErrNotFound
	}
	return e, nil
}

func (r *Repo) Update(ctx context.Context, e domain.CombinationEntry) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[e.Key]; !ok {
		return combinationrepo.ErrNotFound
	}
	r.byKey[e.Key] = e
	return nil
}

func (r *Repo) Delete(ctx context.Context, key domain.CombinationKey) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[key]; !ok {
		return combinationrepo.ErrNotFound
	}
	delete(r.byKey, key)
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.CombinationEntry, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.CombinationEntry, 0, len(r.byKey))
	for _, e := range r.byKey {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Low != out[j].Key.Low {
			return out[i].Key.Low < out[j].Key.Low
		}
		return out[i].Key.High < out[j].Key.High
	})
	return out, nil
}
