package ngon

import (
	"sync"

	"go.uber.org/zap"
)

// LoadingManager is told about the lifecycle of every load. ItemEnd is
// always called, after ItemError when the load failed.
type LoadingManager interface {
	ItemStart(url string)
	ItemEnd(url string)
	ItemError(url string)
}

// Manager counts loads in flight. It is safe for loads running on separate
// goroutines.
type Manager struct {
	// OnProgress is called after each item ends.
	OnProgress func(url string, loaded, total int)
	// OnError is called for each failed item.
	OnError func(url string)

	mu     sync.Mutex
	loaded int
	total  int
	failed int
	logger *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger}
}

func (m *Manager) ItemStart(url string) {
	m.mu.Lock()
	m.total++
	m.mu.Unlock()
	m.logger.Debug("load started", zap.String("url", url))
}

func (m *Manager) ItemEnd(url string) {
	m.mu.Lock()
	m.loaded++
	loaded, total := m.loaded, m.total
	m.mu.Unlock()

	m.logger.Debug("load finished", zap.String("url", url), zap.Int("loaded", loaded), zap.Int("total", total))
	if m.OnProgress != nil {
		m.OnProgress(url, loaded, total)
	}
}

func (m *Manager) ItemError(url string) {
	m.mu.Lock()
	m.failed++
	m.mu.Unlock()

	m.logger.Warn("load failed", zap.String("url", url))
	if m.OnError != nil {
		m.OnError(url)
	}
}

// Counts returns finished, started and failed item counts.
func (m *Manager) Counts() (loaded, total, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded, m.total, m.failed
}

// Idle reports whether every started item has ended.
func (m *Manager) Idle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded == m.total
}
