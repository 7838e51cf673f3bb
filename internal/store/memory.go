package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type coordinates struct {
	owner, namespace, key string
}

// MemoryStore is an in-memory implementation of the Store interface.
// It uses a map for storage and RWMutex for thread-safe concurrent access.
// This implementation is suitable for development, testing, or single-instance deployments.
type MemoryStore struct {
	mu         sync.RWMutex
	metafields map[coordinates]Metafield
	now        func() time.Time
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		metafields: make(map[coordinates]Metafield),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GetMetafield retrieves a metafield by its coordinates.
func (m *MemoryStore) GetMetafield(ctx context.Context, ownerID, namespace, key string) (*Metafield, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mf, exists := m.metafields[coordinates{ownerID, namespace, key}]
	if !exists {
		return nil, ErrNotFound
	}
	return &mf, nil
}

// SetMetafield creates or overwrites a metafield in memory.
// The metafield id is kept stable across overwrites.
func (m *MemoryStore) SetMetafield(ctx context.Context, params SetParams) (*Metafield, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := coordinates{params.OwnerID, params.Namespace, params.Key}
	id := metafieldGID(uuid.NewString())
	if existing, ok := m.metafields[c]; ok {
		id = existing.ID
	}

	mf := Metafield{
		ID:        id,
		OwnerID:   params.OwnerID,
		Namespace: params.Namespace,
		Key:       params.Key,
		Type:      params.Type,
		Value:     params.Value,
		UpdatedAt: m.now(),
	}
	m.metafields[c] = mf
	return &mf, nil
}

// DeleteMetafield removes a metafield from memory.
func (m *MemoryStore) DeleteMetafield(ctx context.Context, ownerID, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Idempotent: no error if metafield doesn't exist
	delete(m.metafields, coordinates{ownerID, namespace, key})
	return nil
}

// Close is a no-op for MemoryStore as there are no resources to release.
func (m *MemoryStore) Close() error {
	return nil
}
