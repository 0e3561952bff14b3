package directory

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/custdir/domain"
)

const exportDateLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	errImportNameRequired = errors.New("name is required")
	errImportNegativeStat = errors.New("stats must not be negative")
)

// ExportBackup snapshots every customer with stats in List order and stamps
// the directory's lastBackup time.
func (uc *UseCase) ExportBackup(ctx context.Context) (*domain.Backup, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	views := uc.listLocked()
	customers := make([]domain.BackupCustomer, 0, len(views))
	for _, view := range views {
		stats := view.Stats
		customers = append(customers, domain.BackupCustomer{
			Customer: view.Customer,
			Stats:    &stats,
		})
	}

	backup := &domain.Backup{
		Version:    domain.SchemaVersion,
		ExportDate: now.UTC().Format(exportDateLayout),
		DeviceInfo: uc.device,
		Metadata: domain.BackupMetadata{
			TotalCustomers: len(customers),
			HasStats:       true,
		},
		Customers: customers,
	}

	uc.state.Metadata.LastBackup = domain.ToMillis(now)
	uc.logger.Info("customer backup exported", zap.Int("customers", len(customers)))
	return backup, uc.persist(ctx, "export_backup")
}

// ImportBackup reconciles backup into the directory. Replace mode starts from
// an empty directory. Each entry is then matched by phone: a match updates
// the existing customer and overwrites its stats with the incoming ones,
// otherwise a new customer tagged as imported is created. A failing entry is
// reported in the result and does not stop the batch. The directory is
// persisted once at the end.
func (uc *UseCase) ImportBackup(ctx context.Context, backup *domain.Backup, mode domain.ImportMode) (*domain.ImportResult, error) {
	if backup == nil {
		return nil, domain.ErrInvalidPayload
	}
	mode, err := domain.ParseImportMode(string(mode))
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if mode == domain.ImportModeReplace {
		uc.state = domain.NewAggregate()
	}

	result := &domain.ImportResult{Errors: []string{}}
	for i, entry := range backup.Customers {
		if err := uc.importEntry(entry); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, domain.ImportRowError{Row: i + 1, Message: err.Error()}.Error())
			continue
		}
		result.Success++
	}

	uc.logger.Info("customer backup imported",
		zap.String("mode", string(mode)),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
	)
	return result, uc.persist(ctx, "import_backup")
}

func (uc *UseCase) importEntry(entry domain.BackupCustomer) error {
	if strings.TrimSpace(entry.Name) == "" {
		return errImportNameRequired
	}
	if stats := entry.Stats; stats != nil && (stats.TotalPurchases < 0 || stats.TotalTransactions < 0) {
		return errImportNegativeStat
	}

	if phone := strings.TrimSpace(entry.Phone); phone != "" {
		if id, ok := uc.state.Indexes.ByPhone[phone]; ok {
			if _, err := uc.updateLocked(id, domain.PatchFromCustomer(entry.Customer)); err != nil {
				return err
			}
			if entry.Stats != nil {
				uc.state.Stats[id] = entry.Stats.Clone()
			}
			return nil
		}
	}

	customer := uc.importedCustomer(entry.Customer)
	if err := uc.insertLocked(customer); err != nil {
		return err
	}
	if entry.Stats != nil {
		uc.state.Stats[customer.ID] = entry.Stats.Clone()
	}
	return nil
}

// importedCustomer keeps the incoming id and timestamps when usable.
func (uc *UseCase) importedCustomer(in domain.Customer) domain.Customer {
	customer := in.Clone()
	customer.Name = strings.TrimSpace(in.Name)
	customer.Phone = strings.TrimSpace(in.Phone)
	customer.Email = strings.TrimSpace(in.Email)
	customer.TaxID = strings.TrimSpace(in.TaxID)
	customer.CreatedFrom = domain.ProvenanceImport

	if _, exists := uc.state.Customers[customer.ID]; customer.ID == "" || exists {
		customer.ID = uc.newID(idPrefix)
	}
	now := uc.nowMillis()
	if customer.CreatedAt == 0 {
		customer.CreatedAt = now
	}
	if customer.UpdatedAt == 0 {
		customer.UpdatedAt = now
	}
	return customer
}
