// Package directory implements the customer directory: an indexed record
// store with recency tracking, purchase statistics, search and
// backup/restore, persisted as a single aggregate after every change.
//
// A UseCase is safe for concurrent use; every public operation runs to
// completion under one mutex before the next starts.
package directory

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/custdir/domain"
	"github.com/fastygo/custdir/pkg/idgen"
	"github.com/fastygo/custdir/repository"
)

const idPrefix = "cust"

type UseCase struct {
	mu     sync.Mutex
	repo   repository.AggregateRepository
	state  *domain.Aggregate
	newID  idgen.Generator
	now    func() time.Time
	device domain.DeviceInfo
	logger *zap.Logger
}

// Option customises a UseCase.
type Option func(*UseCase)

// WithIDGenerator replaces the ULID based id generator.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(uc *UseCase) {
		if gen != nil {
			uc.newID = gen
		}
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

// WithDeviceInfo sets the device metadata stamped on exported backups.
func WithDeviceInfo(info domain.DeviceInfo) Option {
	return func(uc *UseCase) {
		if info.Platform != "" {
			uc.device.Platform = info.Platform
		}
		if info.AppVersion != "" {
			uc.device.AppVersion = info.AppVersion
		}
	}
}

// Open loads the persisted directory from repo and returns a ready service.
func Open(ctx context.Context, repo repository.AggregateRepository, logger *zap.Logger, opts ...Option) (*UseCase, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		repo:   repo,
		newID:  idgen.New,
		now:    time.Now,
		device: domain.DeviceInfo{Platform: runtime.GOOS, AppVersion: "dev"},
		logger: logger,
	}
	for _, opt := range opts {
		opt(uc)
	}

	state, err := repo.Load(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodePersistence, "load customer directory", err)
	}
	state.Normalize()
	uc.state = state

	logger.Info("customer directory loaded", zap.Int("customers", len(state.Customers)))
	return uc, nil
}

// Count returns the number of stored customers.
func (uc *UseCase) Count() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.state.Customers)
}

// persist writes the whole aggregate. On failure the in-memory state is kept
// and the error is classified as a persistence failure.
func (uc *UseCase) persist(ctx context.Context, operation string) error {
	uc.state.Metadata.TotalCustomers = len(uc.state.Customers)
	if err := uc.repo.Save(ctx, uc.state); err != nil {
		uc.logger.Warn("customer directory change not persisted",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return domain.WrapError(domain.ErrCodePersistence, "persist customer directory", err)
	}
	return nil
}

func (uc *UseCase) nowMillis() int64 {
	return domain.ToMillis(uc.now())
}
