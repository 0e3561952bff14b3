package repository

import (
	"context"
	"errors"

	"github.com/fastygo/custdir/domain"
)

// ErrBlobNotFound is returned by a BlobStore when nothing is stored under a key.
var ErrBlobNotFound = errors.New("blob not found")

// AggregateRepository loads and stores the whole customer directory at once.
type AggregateRepository interface {
	// Load returns the persisted aggregate, or a fresh one when nothing usable is stored.
	Load(ctx context.Context) (*domain.Aggregate, error)
	// Save overwrites the persisted aggregate and stamps Metadata.LastModified.
	Save(ctx context.Context, aggregate *domain.Aggregate) error
}

// BlobStore is a durable key-value byte store.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}
