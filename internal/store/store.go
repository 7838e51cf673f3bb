package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no metafield exists at the requested coordinates.
var ErrNotFound = errors.New("metafield not found")

// Store defines the interface for metafield persistence operations.
// A metafield is addressed by (owner, namespace, key) and holds one opaque value.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// GetMetafield retrieves the metafield at the given coordinates.
	// Returns ErrNotFound if nothing is stored there.
	GetMetafield(ctx context.Context, ownerID, namespace, key string) (*Metafield, error)

	// SetMetafield creates or overwrites a metafield atomically.
	SetMetafield(ctx context.Context, params SetParams) (*Metafield, error)

	// DeleteMetafield removes a metafield.
	// Returns no error if the metafield doesn't exist (idempotent).
	DeleteMetafield(ctx context.Context, ownerID, namespace, key string) error

	// Close releases any resources held by the store.
	// After Close is called, the store should not be used.
	Close() error
}

// Metafield is a namespaced key/value record attached to an owner (a shop).
type Metafield struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Namespace string    `json:"namespace"`
	Key       string    `json:"key"`
	Type      string    `json:"type"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SetParams contains the parameters for writing a metafield.
type SetParams struct {
	OwnerID   string `json:"ownerId"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

func (p SetParams) validate() error {
	if p.OwnerID == "" || p.Namespace == "" || p.Key == "" {
		return errors.New("ownerId, namespace and key are required")
	}
	return nil
}

func metafieldGID(id string) string {
	return "gid://shopify/Metafield/" + id
}
