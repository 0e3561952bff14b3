package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseImportMode(t *testing.T) {
	tests := []struct {
		raw     string
		want    ImportMode
		wantErr bool
	}{
		{"", ImportModeMerge, false},
		{"merge", ImportModeMerge, false},
		{"replace", ImportModeReplace, false},
		{"append", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			mode, err := ParseImportMode(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidImportMode)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, mode)
		})
	}
}

func TestBackupCustomerUnmarshalDefaultsActive(t *testing.T) {
	var backup Backup
	err := json.Unmarshal([]byte(`{"version":"1.0","customers":[
		{"name":"Asha Rao","phone":"9000000001"},
		{"name":"Ravi","isActive":false,"stats":{"totalPurchases":10,"totalTransactions":1,"averageOrderValue":10}}
	]}`), &backup)

	assert.NoError(t, err)
	assert.Len(t, backup.Customers, 2)
	assert.True(t, backup.Customers[0].IsActive)
	assert.Nil(t, backup.Customers[0].Stats)
	assert.False(t, backup.Customers[1].IsActive)
	assert.Equal(t, 1, backup.Customers[1].Stats.TotalTransactions)
}
