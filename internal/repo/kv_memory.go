package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pumpkinkking/whereeat/internal/domain"
)

// MemoryKVRepo is an in-process KVRepo. It backs STORAGE_DRIVER=memory and
// unit tests; values are copied on the way in and out.
type MemoryKVRepo struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryKVRepo returns an empty MemoryKVRepo.
func NewMemoryKVRepo() *MemoryKVRepo {
	return &MemoryKVRepo{values: map[string][]byte{}}
}

func (r *MemoryKVRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return nil, fmt.Errorf("repo.MemoryKVRepo.Get: %w", domain.ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

func (r *MemoryKVRepo) Put(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = append([]byte(nil), value...)
	return nil
}

func (r *MemoryKVRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.values[key]; !ok {
		return fmt.Errorf("repo.MemoryKVRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.values, key)
	return nil
}
