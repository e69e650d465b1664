package repository

import (
	"sync"

	"github.com/lhpaul/finadmin/internal/shared/errors"
)

// Registry holds the application's repositories keyed by collection path
// template. Construction happens once at wiring time; consumers receive
// repositories through Lookup instead of package-level singletons.
type Registry struct {
	mu    sync.RWMutex
	repos map[string]interface{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{repos: make(map[string]interface{})}
}

// Register adds a repository under its collection path template. Registering
// the same template twice is a wiring bug and fails with CONFLICT.
func Register[T any](reg *Registry, repo *Repository[T]) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	key := repo.Path().Raw()
	if _, exists := reg.repos[key]; exists {
		return errors.NewConflictError("repository already registered for " + key)
	}
	reg.repos[key] = repo
	return nil
}

// Lookup fetches the repository registered under a collection path template.
// An unknown template or a mismatched entity type fails with INTERNAL, since
// both indicate a wiring bug rather than a runtime condition.
func Lookup[T any](reg *Registry, collectionPath string) (*Repository[T], error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	entry, ok := reg.repos[collectionPath]
	if !ok {
		return nil, errors.NewInternalError("no repository registered for " + collectionPath)
	}
	repo, ok := entry.(*Repository[T])
	if !ok {
		return nil, errors.NewInternalError("repository for " + collectionPath + " has a different entity type")
	}
	return repo, nil
}
