package domain

import (
	"encoding/json"
	"fmt"
)

// ImportMode selects how a backup is reconciled with the current directory.
type ImportMode string

const (
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

// ParseImportMode maps a user supplied mode to an ImportMode. Empty means merge.
func ParseImportMode(raw string) (ImportMode, error) {
	switch ImportMode(raw) {
	case "", ImportModeMerge:
		return ImportModeMerge, nil
	case ImportModeReplace:
		return ImportModeReplace, nil
	default:
		return "", ErrInvalidImportMode
	}
}

// DeviceInfo identifies the installation that produced a backup.
type DeviceInfo struct {
	Platform   string `json:"platform"`
	AppVersion string `json:"appVersion"`
}

// BackupMetadata summarises a backup's contents.
type BackupMetadata struct {
	TotalCustomers int  `json:"totalCustomers"`
	HasStats       bool `json:"hasStats"`
}

// BackupCustomer is one exported record. Stats is absent in hand-written
// backups that only carry contact data.
type BackupCustomer struct {
	Customer
	Stats *CustomerStats `json:"stats,omitempty"`
}

// UnmarshalJSON treats a missing isActive as true.
func (b *BackupCustomer) UnmarshalJSON(data []byte) error {
	type plain BackupCustomer
	decoded := plain{Customer: Customer{IsActive: true}}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*b = BackupCustomer(decoded)
	return nil
}

// Backup is the portable export/import document.
type Backup struct {
	Version    string           `json:"version"`
	ExportDate string           `json:"exportDate"`
	DeviceInfo DeviceInfo       `json:"deviceInfo"`
	Metadata   BackupMetadata   `json:"metadata"`
	Customers  []BackupCustomer `json:"customers"`
}

// ImportResult reports the outcome of an import. Success+Failed always
// equals the number of entries in the backup.
type ImportResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// ImportRowError describes why a single backup entry was rejected. Row is 1-based.
type ImportRowError struct {
	Row     int
	Message string
}

func (e ImportRowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}
