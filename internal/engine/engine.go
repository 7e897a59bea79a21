// Package engine implements the model lifecycle registry: per-kind
// storage keys, three-tier resolution (memory, durable store, train),
// and the policy table deciding which kinds may train implicitly.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/finopsia/finopsia/internal/common"
	"github.com/finopsia/finopsia/internal/model"
	"github.com/finopsia/finopsia/internal/service"
)

// Registry resolves model artifacts. Resolution order is memory cache,
// then durable store, then policy: train implicitly or refuse.
type Registry struct {
	store    service.ArtifactStore
	trainers map[model.Kind]Trainer
	policies map[model.Kind]Policy

	cacheMu sync.RWMutex
	cache   map[string]Artifact

	// keyLocks serializes training per storage key so concurrent cold
	// starts for the same key train at most once. Unrelated keys never
	// block each other.
	lockMu   sync.Mutex
	keyLocks map[string]*sync.Mutex
}

// NewRegistry creates a registry with the default policy table.
func NewRegistry(store service.ArtifactStore, trainers map[model.Kind]Trainer) *Registry {
	return &Registry{
		store:    store,
		trainers: trainers,
		policies: defaultPolicies(),
		cache:    make(map[string]Artifact),
		keyLocks: make(map[string]*sync.Mutex),
	}
}

// Get resolves an artifact for a kind, optionally scoped to an
// account. On a full miss the kind's policy decides: kinds that allow
// auto-training are trained, persisted and cached; all others fail
// with common.ErrModelNotFound and training is never attempted.
func (r *Registry) Get(ctx context.Context, kind model.Kind, scopeID string) (Artifact, error) {
	policy, key, err := r.resolveRequest(kind, scopeID)
	if err != nil {
		return nil, err
	}

	if artifact, ok := r.cached(key); ok {
		slog.Debug("Model resolved from memory cache", "key", key)
		return artifact, nil
	}

	lock := r.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	// Another caller may have finished resolving while we waited.
	if artifact, ok := r.cached(key); ok {
		slog.Debug("Model resolved from memory cache", "key", key)
		return artifact, nil
	}

	if r.store.Has(key) {
		artifact, loadErr := r.loadArtifact(kind, key)
		if loadErr != nil {
			return nil, loadErr
		}
		slog.Info("Model loaded from durable store", "key", key)
		return artifact, nil
	}

	if !policy.AllowAutoTrain {
		slog.Error("Model missing and policy forbids auto-training",
			"kind", kind,
			"key", key)
		return nil, common.NewUserError(
			fmt.Sprintf("%s model is missing and is never trained implicitly; run 'finopsia retrain %s' with labeled data", kind, kind),
			fmt.Errorf("%w: %s", common.ErrModelNotFound, key))
	}

	inputs := TrainingInputs{AccountID: scopeID}
	if err := validateInputs(policy, inputs); err != nil {
		return nil, err
	}

	slog.Info("Model not found, initiating auto-training", "key", key)
	return r.train(ctx, kind, key, inputs)
}

// Retrain always trains a fresh artifact and overwrites both the
// durable store and the memory cache at the key. Policy gates implicit
// training only; an explicit operator-invoked retrain is never
// refused.
func (r *Registry) Retrain(ctx context.Context, kind model.Kind, scopeID string, inputs TrainingInputs) (Artifact, error) {
	policy, key, err := r.resolveRequest(kind, scopeID)
	if err != nil {
		return nil, err
	}

	if inputs.AccountID == "" {
		inputs.AccountID = scopeID
	}
	if err := validateInputs(policy, inputs); err != nil {
		return nil, err
	}

	lock := r.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	slog.Info("Explicit retraining requested", "kind", kind, "key", key)
	return r.train(ctx, kind, key, inputs)
}

// ClearCache drops every memory cache entry. Durable artifacts are
// untouched. Intended for test harnesses and for refreshing after an
// out-of-process retrain.
func (r *Registry) ClearCache() {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	r.cache = make(map[string]Artifact)
}

// resolveRequest validates the (kind, scope) request shape and derives
// the storage key.
func (r *Registry) resolveRequest(kind model.Kind, scopeID string) (Policy, string, error) {
	policy, ok := r.policies[kind]
	if !ok {
		return Policy{}, "", fmt.Errorf("%w: %q", common.ErrUnknownModelKind, kind)
	}

	switch policy.Scope {
	case model.ScopeGlobal:
		if scopeID != "" {
			return Policy{}, "", fmt.Errorf("%w: %s models are global, scope id %q not allowed",
				common.ErrInvalidRequest, kind, scopeID)
		}
	case model.ScopePerAccount:
		if scopeID == "" {
			return Policy{}, "", fmt.Errorf("%w: %s models require an account id",
				common.ErrInvalidRequest, kind)
		}
	}

	return policy, storageKey(kind, scopeID), nil
}

func validateInputs(policy Policy, inputs TrainingInputs) error {
	for _, required := range policy.Requires {
		switch required {
		case InputAccountID:
			if inputs.AccountID == "" {
				return fmt.Errorf("%w: training requires an account id", common.ErrInvalidRequest)
			}
		case InputLabeledRows:
			if len(inputs.Rows) == 0 {
				return fmt.Errorf("%w: training requires labeled rows", common.ErrInvalidRequest)
			}
		}
	}
	return nil
}

func (r *Registry) cached(key string) (Artifact, bool) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	artifact, ok := r.cache[key]
	return artifact, ok
}

func (r *Registry) insert(key string, artifact Artifact) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	r.cache[key] = artifact
}

func (r *Registry) keyLock(key string) *sync.Mutex {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	lock, ok := r.keyLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.keyLocks[key] = lock
	}
	return lock
}

func (r *Registry) loadArtifact(kind model.Kind, key string) (Artifact, error) {
	trainer, err := r.trainer(kind)
	if err != nil {
		return nil, err
	}

	data, err := r.store.Load(key)
	if err != nil {
		return nil, err
	}

	artifact, err := trainer.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode artifact %s: %w", key, err)
	}

	r.insert(key, artifact)
	return artifact, nil
}

// train runs the kind's trainer, persists the result, and caches it.
// Adapter failures propagate unchanged. Callers hold the key lock.
func (r *Registry) train(ctx context.Context, kind model.Kind, key string, inputs TrainingInputs) (Artifact, error) {
	trainer, err := r.trainer(kind)
	if err != nil {
		return nil, err
	}

	artifact, err := trainer.Train(ctx, inputs)
	if err != nil {
		return nil, err
	}

	data, err := trainer.Encode(artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to encode artifact %s: %w", key, err)
	}

	if err := r.store.Save(key, data); err != nil {
		common.LogError(err, "Failed to save trained artifact", common.Fields{"key": key})
		return nil, err
	}

	r.insert(key, artifact)
	slog.Info("Model trained and saved", "key", key)

	return artifact, nil
}

func (r *Registry) trainer(kind model.Kind) (Trainer, error) {
	trainer, ok := r.trainers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no trainer registered for %q", common.ErrUnknownModelKind, kind)
	}
	return trainer, nil
}
