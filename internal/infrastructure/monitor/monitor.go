package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger is implemented by every blob store backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is the last observed storage health.
type Status struct {
	Driver    string    `json:"driver"`
	Storage   bool      `json:"storage"`
	Error     string    `json:"error,omitempty"`
	LastCheck time.Time `json:"last_check"`
}

// Monitor periodically pings the directory's storage backend.
type Monitor struct {
	driver string
	store  Pinger

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(driver string, store Pinger, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		driver:   driver,
		store:    store,
		status:   Status{Driver: driver},
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Storage
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh()
	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh pings the store once and records the result.
func (m *Monitor) Refresh() {
	status := Status{Driver: m.driver, LastCheck: time.Now()}
	if m.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := m.store.Ping(ctx)
		cancel()
		status.Storage = err == nil
		if err != nil {
			status.Error = err.Error()
		}
	}

	m.mu.Lock()
	wasOnline := m.status.Storage
	m.status = status
	m.mu.Unlock()

	if wasOnline && !status.Storage {
		m.logger.Warn("directory storage unreachable", zap.String("driver", m.driver), zap.String("error", status.Error))
	}
}
