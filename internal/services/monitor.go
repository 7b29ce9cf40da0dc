package services

import (
	"sync"
	"time"

	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/logging"
)

// DefaultPollInterval is how often the monitor polls for a device
const DefaultPollInterval = 3 * time.Second

// Poller is the part of the coordinator the monitor drives
type Poller interface {
	Refresh() domain.DeviceRecord
	Shutdown()
}

// Monitor polls the coordinator on a fixed interval from a single goroutine
type Monitor struct {
	done     chan struct{}
	interval time.Duration
	poller   Poller
	started  bool
	stopCh   chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
}

// NewMonitor creates a monitor; a non-positive interval uses DefaultPollInterval
func NewMonitor(poller Poller, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{
		done:     make(chan struct{}),
		interval: interval,
		poller:   poller,
		stopCh:   make(chan struct{}),
	}
}

// Start begins polling. The first poll happens immediately.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return
	}
	m.started = true

	logging.Logger.Info("Starting device monitor", "interval", m.interval)
	go m.monitorLoop()
}

// Stop halts polling, waits for an in-flight poll to finish and shuts the
// coordinator down. Safe to call more than once, and without Start.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)

		m.mu.Lock()
		started := m.started
		m.started = true
		m.mu.Unlock()

		if started {
			<-m.done
		}

		logging.Logger.Info("Device monitor stopped")
		m.poller.Shutdown()
	})
}

// monitorLoop refreshes on every tick until stopped. Failed polls are not
// retried; the next tick polls again.
func (m *Monitor) monitorLoop() {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.poller.Refresh()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.poller.Refresh()
		}
	}
}
