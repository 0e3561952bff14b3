package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastygo/custdir/repository"
)

// Querier is the subset of *pgxpool.Pool used by the blob store.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

type blobRepository struct {
	db Querier
}

// NewBlobRepository returns a Postgres-backed BlobStore over the kv_blobs table.
func NewBlobRepository(db Querier) repository.BlobStore {
	return &blobRepository{db: db}
}

func (r *blobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM kv_blobs WHERE key = $1`

	var value []byte
	if err := r.db.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrBlobNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *blobRepository) Put(ctx context.Context, key string, value []byte) error {
	const query = `
	INSERT INTO kv_blobs (key, value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE
	SET value = EXCLUDED.value,
		updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, key, value)
	return err
}

func (r *blobRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
