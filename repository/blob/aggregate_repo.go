package blob

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/custdir/domain"
	"github.com/fastygo/custdir/repository"
)

// DefaultKey is the blob key the directory is stored under.
const DefaultKey = "customer_directory"

type aggregateRepository struct {
	store  repository.BlobStore
	key    string
	now    func() time.Time
	logger *zap.Logger
}

// Option customises the aggregate repository.
type Option func(*aggregateRepository)

// WithClock overrides the clock used to stamp Metadata.LastModified.
func WithClock(now func() time.Time) Option {
	return func(r *aggregateRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewAggregateRepository persists the directory aggregate as one JSON blob in store.
func NewAggregateRepository(store repository.BlobStore, key string, logger *zap.Logger, opts ...Option) repository.AggregateRepository {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &aggregateRepository{
		store:  store,
		key:    key,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *aggregateRepository) Load(ctx context.Context) (*domain.Aggregate, error) {
	payload, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, repository.ErrBlobNotFound) {
			return domain.NewAggregate(), nil
		}
		return nil, err
	}

	var aggregate domain.Aggregate
	if err := json.Unmarshal(payload, &aggregate); err != nil {
		r.logger.Warn("discarding undecodable directory blob", zap.String("key", r.key), zap.Error(err))
		return domain.NewAggregate(), nil
	}
	if aggregate.Metadata.Version != domain.SchemaVersion {
		r.logger.Warn("discarding directory blob with foreign schema version",
			zap.String("key", r.key),
			zap.String("version", aggregate.Metadata.Version),
			zap.String("expected", domain.SchemaVersion),
		)
		return domain.NewAggregate(), nil
	}

	aggregate.Normalize()
	return &aggregate, nil
}

func (r *aggregateRepository) Save(ctx context.Context, aggregate *domain.Aggregate) error {
	if aggregate == nil {
		return domain.ErrInvalidPayload
	}
	aggregate.Metadata.Version = domain.SchemaVersion
	aggregate.Metadata.TotalCustomers = len(aggregate.Customers)
	aggregate.Metadata.LastModified = domain.ToMillis(r.now())

	payload, err := json.Marshal(aggregate)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, r.key, payload)
}
