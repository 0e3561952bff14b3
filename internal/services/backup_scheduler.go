package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/custdir/domain"
)

const (
	backupPrefix     = "customers-"
	backupSuffix     = ".json"
	backupTimeLayout = "20060102T150405.000Z"
)

// Exporter produces a portable snapshot of the directory.
type Exporter interface {
	ExportBackup(ctx context.Context) (*domain.Backup, error)
}

// SchedulerConfig controls where and how often snapshots are written.
type SchedulerConfig struct {
	Dir      string
	Interval time.Duration
	Retain   int
}

// BackupScheduler periodically writes directory backups to disk and keeps the
// newest Retain files.
type BackupScheduler struct {
	exporter Exporter
	cfg      SchedulerConfig
	logger   *zap.Logger
	cron     *cron.Cron
	now      func() time.Time
}

func NewBackupScheduler(exporter Exporter, cfg SchedulerConfig, logger *zap.Logger) *BackupScheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.Retain <= 0 {
		cfg.Retain = 7
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &BackupScheduler{
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
		cron:     cron.New(cron.WithSeconds()),
		now:      time.Now,
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("scheduled backup failed", zap.Error(err))
		}
	})

	return s
}

func (s *BackupScheduler) Start() {
	s.cron.Start()
	s.logger.Info("backup scheduler started", zap.String("dir", s.cfg.Dir), zap.Duration("interval", s.cfg.Interval))
}

// Stop waits for a running backup to finish or for ctx to expire.
func (s *BackupScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce writes one backup file and prunes old ones. It returns the path written.
func (s *BackupScheduler) RunOnce(ctx context.Context) (string, error) {
	backup, err := s.exporter.ExportBackup(ctx)
	if err != nil && backup == nil {
		return "", err
	}
	if err != nil {
		// The snapshot is complete even when stamping lastBackup failed to persist.
		s.logger.Warn("backup exported without persisting metadata", zap.Error(err))
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	payload, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}

	name := backupPrefix + s.now().UTC().Format(backupTimeLayout) + backupSuffix
	path := filepath.Join(s.cfg.Dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("finalize backup: %w", err)
	}

	s.logger.Info("backup written", zap.String("path", path), zap.Int("customers", len(backup.Customers)))

	if err := s.prune(); err != nil {
		s.logger.Warn("backup prune failed", zap.Error(err))
	}
	return path, nil
}

func (s *BackupScheduler) prune() error {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		return err
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		names = append(names, name)
	}
	if len(names) <= s.cfg.Retain {
		return nil
	}

	// Timestamps sort lexically.
	sort.Strings(names)
	for _, name := range names[:len(names)-s.cfg.Retain] {
		if err := os.Remove(filepath.Join(s.cfg.Dir, name)); err != nil {
			return err
		}
		s.logger.Debug("backup pruned", zap.String("file", name))
	}
	return nil
}
