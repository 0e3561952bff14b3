package directory

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/custdir/domain"
)

// Create stores a new customer with a generated id and zeroed stats.
// Name validation is left to the caller; only uniqueness of phone, email
// and tax id is enforced. If the change cannot be persisted the stored
// record is returned together with a persistence error.
func (uc *UseCase) Create(ctx context.Context, in domain.CustomerInput, from domain.Provenance) (*domain.Customer, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if from == "" {
		from = domain.ProvenanceManual
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := uc.nowMillis()
	customer := domain.Customer{
		ID:          uc.newID(idPrefix),
		Name:        strings.TrimSpace(in.Name),
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.TrimSpace(in.Email),
		TaxID:       strings.TrimSpace(in.TaxID),
		Address:     in.Address,
		Notes:       in.Notes,
		Tags:        append([]string(nil), in.Tags...),
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedFrom: from,
	}

	if err := uc.insertLocked(customer); err != nil {
		return nil, err
	}
	uc.logger.Info("customer created",
		zap.String("customer_id", customer.ID),
		zap.String("created_from", string(from)),
	)

	out := customer.Clone()
	return &out, uc.persist(ctx, "create")
}

// Update merges patch over the stored customer. The id and createdAt never
// change; updatedAt is refreshed. Nothing is mutated when a uniqueness
// check fails.
func (uc *UseCase) Update(ctx context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	updated, err := uc.updateLocked(id, patch)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("customer updated", zap.String("customer_id", id))

	out := updated.Clone()
	return &out, uc.persist(ctx, "update")
}

// Delete removes the customer, its stats and every index entry pointing at it.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	customer, ok := uc.state.Customers[id]
	if !ok {
		return domain.ErrCustomerNotFound
	}

	uc.unregister(customer)
	uc.forget(id)
	delete(uc.state.Customers, id)
	delete(uc.state.Stats, id)
	uc.state.Metadata.TotalCustomers = len(uc.state.Customers)

	uc.logger.Info("customer deleted", zap.String("customer_id", id))
	return uc.persist(ctx, "delete")
}

// Get returns the customer merged with its stats. Reading is not side-effect
// free: the id is promoted to the front of the recency list and the
// directory is persisted.
func (uc *UseCase) Get(ctx context.Context, id string) (*domain.CustomerWithStats, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.getLocked(ctx, id)
}

// GetByPhone resolves phone through the phone index and behaves like Get.
func (uc *UseCase) GetByPhone(ctx context.Context, phone string) (*domain.CustomerWithStats, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	id, ok := uc.state.Indexes.ByPhone[strings.TrimSpace(phone)]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return uc.getLocked(ctx, id)
}

// Peek returns the customer merged with its stats without touching the
// recency list or persisting.
func (uc *UseCase) Peek(id string) (*domain.CustomerWithStats, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	view, ok := uc.view(id)
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &view, nil
}

// List returns every customer with stats, most recently updated first.
func (uc *UseCase) List() []domain.CustomerWithStats {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.listLocked()
}

// ListRecent returns up to limit recently accessed customers, most recent
// first. It does not reorder the recency list.
func (uc *UseCase) ListRecent(limit int) []domain.CustomerWithStats {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ids := uc.state.Indexes.Recent
	if limit < 0 {
		limit = 0
	}
	if limit < len(ids) {
		ids = ids[:limit]
	}
	out := make([]domain.CustomerWithStats, 0, len(ids))
	for _, id := range ids {
		if view, ok := uc.view(id); ok {
			out = append(out, view)
		}
	}
	return out
}

func (uc *UseCase) getLocked(ctx context.Context, id string) (*domain.CustomerWithStats, error) {
	view, ok := uc.view(id)
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	uc.touch(id)
	return &view, uc.persist(ctx, "touch")
}

func (uc *UseCase) insertLocked(customer domain.Customer) error {
	if err := uc.checkUnique(customer); err != nil {
		return err
	}
	uc.state.Customers[customer.ID] = customer
	uc.state.Stats[customer.ID] = domain.CustomerStats{}
	uc.register(customer, nil)
	uc.touch(customer.ID)
	uc.state.Metadata.TotalCustomers = len(uc.state.Customers)
	return nil
}

func (uc *UseCase) updateLocked(id string, patch domain.CustomerPatch) (domain.Customer, error) {
	previous, ok := uc.state.Customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}

	next := previous.Clone()
	patch.Apply(&next)
	next.ID = previous.ID
	next.CreatedAt = previous.CreatedAt
	next.CreatedFrom = previous.CreatedFrom
	next.UpdatedAt = uc.nowMillis()

	if err := uc.checkUnique(next); err != nil {
		return domain.Customer{}, err
	}
	uc.register(next, &previous)
	uc.state.Customers[id] = next
	return next, nil
}

func (uc *UseCase) view(id string) (domain.CustomerWithStats, bool) {
	customer, ok := uc.state.Customers[id]
	if !ok {
		return domain.CustomerWithStats{}, false
	}
	return domain.CustomerWithStats{
		Customer: customer.Clone(),
		Stats:    uc.state.Stats[id].Clone(),
	}, true
}

func (uc *UseCase) listLocked() []domain.CustomerWithStats {
	out := make([]domain.CustomerWithStats, 0, len(uc.state.Customers))
	for id := range uc.state.Customers {
		view, _ := uc.view(id)
		out = append(out, view)
	}
	sortByRecentUpdate(out)
	return out
}

func sortByRecentUpdate(views []domain.CustomerWithStats) {
	sort.Slice(views, func(i, j int) bool {
		if views[i].UpdatedAt != views[j].UpdatedAt {
			return views[i].UpdatedAt > views[j].UpdatedAt
		}
		return views[i].ID < views[j].ID
	})
}
