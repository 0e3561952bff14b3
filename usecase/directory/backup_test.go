package directory

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/custdir/domain"
)

func seedDirectory(t *testing.T, f *fixture) (asha, ravi *domain.Customer) {
	t.Helper()
	ctx := context.Background()
	asha, err := f.uc.Create(ctx, domain.CustomerInput{
		Name:  "Asha Rao",
		Phone: "9000000001",
		Email: "asha@shop.in",
		Tags:  []string{"wholesale"},
	}, domain.ProvenanceManual)
	require.NoError(t, err)
	ravi, err = f.uc.Create(ctx, domain.CustomerInput{Name: "Ravi Kumar", TaxID: "29AAACR5055K1Z1"}, domain.ProvenanceBilling)
	require.NoError(t, err)
	require.NoError(t, f.uc.RecordPurchase(ctx, asha.ID, 300))
	require.NoError(t, f.uc.RecordPurchase(ctx, asha.ID, 150.5))
	return asha, ravi
}

func sortedByID(views []domain.CustomerWithStats) []domain.CustomerWithStats {
	out := append([]domain.CustomerWithStats(nil), views...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	for i := range out {
		out[i].CreatedFrom = ""
	}
	return out
}

func TestExportBackup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	asha, _ := seedDirectory(t, f)

	backup, err := f.uc.ExportBackup(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.SchemaVersion, backup.Version)
	assert.Equal(t, domain.DeviceInfo{Platform: "test", AppVersion: "1.2.3"}, backup.DeviceInfo)
	assert.Equal(t, domain.BackupMetadata{TotalCustomers: 2, HasStats: true}, backup.Metadata)
	require.Len(t, backup.Customers, 2)
	assert.Equal(t, asha.ID, backup.Customers[0].ID, "most recently updated first")
	require.NotNil(t, backup.Customers[0].Stats)
	assert.Equal(t, 2, backup.Customers[0].Stats.TotalTransactions)

	exported, err := time.Parse(time.RFC3339, backup.ExportDate)
	require.NoError(t, err)
	assert.Equal(t, exported.UnixMilli(), f.uc.state.Metadata.LastBackup)

	raw, err := json.Marshal(backup)
	require.NoError(t, err)
	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	first := wire["customers"].([]any)[0].(map[string]any)
	assert.Equal(t, "Asha Rao", first["name"])
	assert.Contains(t, first, "stats")
	assert.Contains(t, wire["deviceInfo"], "appVersion")
}

func TestImportBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newFixture(t)
	seedDirectory(t, source)

	backup, err := source.uc.ExportBackup(ctx)
	require.NoError(t, err)
	raw, err := json.Marshal(backup)
	require.NoError(t, err)
	var decoded domain.Backup
	require.NoError(t, json.Unmarshal(raw, &decoded))

	target := newFixture(t)
	result, err := target.uc.ImportBackup(ctx, &decoded, domain.ImportModeReplace)
	require.NoError(t, err)
	assert.Equal(t, &domain.ImportResult{Success: 2, Failed: 0, Errors: []string{}}, result)

	assert.Equal(t, sortedByID(source.uc.List()), sortedByID(target.uc.List()))
	for _, view := range target.uc.List() {
		assert.Equal(t, domain.ProvenanceImport, view.CreatedFrom)
	}
	assertInvariants(t, target.uc)
}

func TestImportBackupMerge(t *testing.T) {
	ctx := context.Background()

	t.Run("phone match updates existing customer", func(t *testing.T) {
		f := newFixture(t)
		asha, _ := seedDirectory(t, f)
		lastPurchase := int64(1_690_000_000_000)

		backup := &domain.Backup{Version: domain.SchemaVersion, Customers: []domain.BackupCustomer{{
			Customer: domain.Customer{ID: "foreign-id", Name: "Asha R. Rao", Phone: "9000000001", IsActive: true},
			Stats:    &domain.CustomerStats{TotalPurchases: 10, TotalTransactions: 1, AverageOrderValue: 10, LastPurchaseDate: &lastPurchase},
		}}}

		result, err := f.uc.ImportBackup(ctx, backup, domain.ImportModeMerge)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Success)
		assert.Equal(t, 2, f.uc.Count())

		got := f.uc.state.Customers[asha.ID]
		assert.Equal(t, "Asha R. Rao", got.Name)
		assert.Equal(t, asha.CreatedAt, got.CreatedAt)
		assert.Equal(t, domain.ProvenanceManual, got.CreatedFrom)
		assert.NotContains(t, f.uc.state.Customers, "foreign-id")

		stats := f.uc.state.Stats[asha.ID]
		assert.Equal(t, 1, stats.TotalTransactions, "incoming stats replace, not add")
		assert.Equal(t, 10.0, stats.TotalPurchases)
		assert.Equal(t, lastPurchase, *stats.LastPurchaseDate)
		assertInvariants(t, f.uc)
	})

	t.Run("unmatched phone creates imported customer", func(t *testing.T) {
		f := newFixture(t)
		seedDirectory(t, f)

		backup := &domain.Backup{Customers: []domain.BackupCustomer{
			{Customer: domain.Customer{Name: "Meera Iyer", Phone: "9000000009", IsActive: true}},
		}}
		result, err := f.uc.ImportBackup(ctx, backup, "")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Success)

		found := f.uc.Search("meera")
		require.Len(t, found, 1)
		assert.Equal(t, domain.ProvenanceImport, found[0].CreatedFrom)
		assert.Equal(t, domain.CustomerStats{}, found[0].Stats)
		assert.NotEmpty(t, found[0].ID)
		assert.Equal(t, 3, f.uc.Count())
	})

	t.Run("incoming id collision gets a fresh id", func(t *testing.T) {
		f := newFixture(t)
		asha, _ := seedDirectory(t, f)

		backup := &domain.Backup{Customers: []domain.BackupCustomer{
			{Customer: domain.Customer{ID: asha.ID, Name: "Different Person", IsActive: true}},
		}}
		result, err := f.uc.ImportBackup(ctx, backup, domain.ImportModeMerge)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Success)
		assert.Equal(t, "Asha Rao", f.uc.state.Customers[asha.ID].Name)
		assert.Equal(t, 3, f.uc.Count())
		assertInvariants(t, f.uc)
	})

	t.Run("failed rows are collected and do not abort", func(t *testing.T) {
		f := newFixture(t)
		seedDirectory(t, f)

		backup := &domain.Backup{Customers: []domain.BackupCustomer{
			{Customer: domain.Customer{Name: "Valid One", Phone: "9100000001"}},
			{Customer: domain.Customer{Name: "  ", Phone: "9100000002"}},
			{Customer: domain.Customer{Name: "Email Clash", Email: "asha@shop.in"}},
			{Customer: domain.Customer{Name: "Bad Stats"}, Stats: &domain.CustomerStats{TotalPurchases: -5}},
			{Customer: domain.Customer{Name: "Valid Two"}},
		}}
		saves := f.repo.saves

		result, err := f.uc.ImportBackup(ctx, backup, domain.ImportModeMerge)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Success)
		assert.Equal(t, 3, result.Failed)
		assert.Equal(t, len(backup.Customers), result.Success+result.Failed)
		assert.Equal(t, []string{
			"row 2: name is required",
			"row 3: email already registered to another customer",
			"row 4: stats must not be negative",
		}, result.Errors)
		assert.Equal(t, saves+1, f.repo.saves, "import persists once")
		assert.Equal(t, 4, f.uc.Count())
		assertInvariants(t, f.uc)
	})

	t.Run("duplicate phones inside backup collapse into one customer", func(t *testing.T) {
		f := newFixture(t)
		backup := &domain.Backup{Customers: []domain.BackupCustomer{
			{Customer: domain.Customer{Name: "First Copy", Phone: "9200000001"}},
			{Customer: domain.Customer{Name: "Second Copy", Phone: "9200000001"}},
		}}

		result, err := f.uc.ImportBackup(ctx, backup, domain.ImportModeMerge)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Success)
		assert.Equal(t, 1, f.uc.Count())
		got, err := f.uc.GetByPhone(ctx, "9200000001")
		require.NoError(t, err)
		assert.Equal(t, "Second Copy", got.Name)
	})
}

func TestImportBackupReplace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedDirectory(t, f)

	backup := &domain.Backup{Customers: []domain.BackupCustomer{
		{Customer: domain.Customer{Name: "Only One", Phone: "9000000001", IsActive: true}},
	}}
	result, err := f.uc.ImportBackup(ctx, backup, domain.ImportModeReplace)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)

	views := f.uc.List()
	require.Len(t, views, 1)
	assert.Equal(t, "Only One", views[0].Name)
	assert.Equal(t, domain.ProvenanceImport, views[0].CreatedFrom)
	assert.Empty(t, f.uc.Search("asha"))
	assertInvariants(t, f.uc)

	reopened := openFixture(t, f.store)
	assert.Equal(t, 1, reopened.uc.Count())
}

func TestImportBackupRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.ImportBackup(ctx, nil, domain.ImportModeMerge)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	_, err = f.uc.ImportBackup(ctx, &domain.Backup{}, domain.ImportMode("append"))
	assert.ErrorIs(t, err, domain.ErrInvalidImportMode)
	assert.Equal(t, 0, f.repo.saves)
}
