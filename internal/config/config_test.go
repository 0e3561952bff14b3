package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("BACKUP_INTERVAL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverBolt, cfg.Storage.Driver)
	assert.Equal(t, "customer_directory", cfg.Storage.Key)
	assert.Equal(t, "./data/directory.db", cfg.Bolt.Path)
	assert.Equal(t, 24*time.Hour, cfg.Backup.Interval)
	assert.Contains(t, cfg.Database.URL, "postgres://")
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("BACKUP_ENABLED", "true")
	t.Setenv("BACKUP_INTERVAL", "90")
	t.Setenv("BACKUP_RETAIN", "3")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Backup.Interval)
	assert.Equal(t, 3, cfg.Backup.Retain)
	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
	assert.Panics(t, func() { MustLoad() })
}
