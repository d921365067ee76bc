package repository

import (
	"context"
	"sync"

	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/pkg/metrics"
)

// WeightStore is the versioned weight storage. Every scope carries its own
// monotonic version counter starting at 0; a scope with no stored vector
// resolves through the fallback chain but still reports its own counter, so
// a first CompareAndSwap against version 0 creates the specialization.
type WeightStore struct {
	mu       sync.RWMutex
	vectors  map[model.Scope]model.WeightVector
	versions map[model.Scope]uint64
	defaults model.WeightVector
}

// WeightOption applies a configuration option to the WeightStore.
type WeightOption func(*WeightStore)

// WithDefaultWeights overrides the built-in global default vector.
func WithDefaultWeights(w model.WeightVector) WeightOption {
	return func(s *WeightStore) {
		if w.Sum() > 0 {
			s.defaults = w.Clamped().Normalized()
		}
	}
}

// NewWeightStore creates a weight store seeded with the global default.
func NewWeightStore(opts ...WeightOption) *WeightStore {
	s := &WeightStore{
		vectors:  make(map[model.Scope]model.WeightVector),
		versions: make(map[model.Scope]uint64),
		defaults: model.DefaultWeights(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get resolves the weight vector for a scope and reports the scope's own
// version. Resolution order: (recruiter, job), then (recruiter, ""), then
// the global ("", "") scope, then the built-in default.
func (s *WeightStore) Get(ctx context.Context, scope model.Scope) (model.WeightVector, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(scope), s.versions[scope], nil
}

// resolve walks the fallback chain. Must be called with s.mu held.
func (s *WeightStore) resolve(scope model.Scope) model.WeightVector {
	for _, candidate := range scope.Chain() {
		if w, ok := s.vectors[candidate]; ok {
			return w
		}
	}
	return s.defaults
}

// CompareAndSwap installs next for the scope only if the scope's version
// still equals expected. Returns false without mutating on a mismatch. The
// vector is normalized before storing, so readers never see a raw sum.
func (s *WeightStore) CompareAndSwap(ctx context.Context, scope model.Scope, expected uint64, next model.WeightVector) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.versions[scope] != expected {
		return false, nil
	}
	s.vectors[scope] = next.Clamped().Normalized()
	s.versions[scope]++
	metrics.UpdateWeightScopes(len(s.vectors))
	return true, nil
}

// ScopeCount reports how many scopes hold a specialized vector.
func (s *WeightStore) ScopeCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}
