package graphstore

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// MemoryBackend keeps graph documents in a map guarded by a mutex.
type MemoryBackend struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{blobs: make(map[string][]byte)}
}

func (b *MemoryBackend) Name() string { return "memory" }

// PutBlob stores a copy of data.
func (b *MemoryBackend) PutBlob(_ context.Context, id string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.blobs[id] = slices.Clone(data)
	return nil
}

// GetBlob returns a copy of the stored data.
func (b *MemoryBackend) GetBlob(_ context.Context, id string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.blobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrNotFound, id)
	}
	return slices.Clone(data), nil
}

func (b *MemoryBackend) DeleteBlob(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.blobs, id)
	return nil
}

func (b *MemoryBackend) ListIDs(context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return slices.Sorted(maps.Keys(b.blobs)), nil
}

func (b *MemoryBackend) Close() error { return nil }
