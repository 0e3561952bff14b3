package redis

import (
	"context"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/custdir/repository"
)

// Client is the subset of *redislib.Client the blob store needs.
type Client interface {
	Get(ctx context.Context, key string) *redislib.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redislib.StatusCmd
	Ping(ctx context.Context) *redislib.StatusCmd
}

type blobRepository struct {
	client Client
	prefix string
}

// NewBlobRepository creates a Redis-backed blob store. Keys never expire.
func NewBlobRepository(client Client, prefix string) repository.BlobStore {
	if prefix == "" {
		prefix = "custdir:"
	}
	return &blobRepository{
		client: client,
		prefix: prefix,
	}
}

func (r *blobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, repository.ErrBlobNotFound
		}
		return nil, err
	}
	return result, nil
}

func (r *blobRepository) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *blobRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *blobRepository) key(key string) string {
	return r.prefix + key
}
