package memory

import (
	"math"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"monogrid/internal/logging"
	"monogrid/internal/metrics"
)

// Config holds memory backpressure configuration.
type Config struct {
	// LimitBytes is the soft memory limit (0 = use GOMEMLIMIT if set)
	LimitBytes int64

	// HighWaterMark is the fraction of the limit at which processing
	// resumes after a pause (0.0-1.0)
	HighWaterMark float64

	// CriticalWaterMark is the fraction at which export workers pause (0.0-1.0)
	CriticalWaterMark float64

	// CheckInterval is how often heap usage is sampled
	CheckInterval time.Duration
}

// DefaultConfig returns the backpressure defaults used in production.
func DefaultConfig() Config {
	return Config{
		LimitBytes:        0,
		HighWaterMark:     0.7,
		CriticalWaterMark: 0.85,
		CheckInterval:     5 * time.Second,
	}
}

// Monitor tracks heap usage against a limit and pauses export workers
// while usage is critical. With no limit configured it is inert and
// WaitIfPaused always returns immediately.
type Monitor struct {
	config    Config
	limit     int64
	stopChan  chan struct{}
	mu        sync.RWMutex
	current   uint64
	isPaused  bool
	pauseChan chan struct{}
}

// NewMonitor creates a memory monitor. When cfg.LimitBytes is zero the
// limit is taken from GOMEMLIMIT; if neither is set, backpressure is
// disabled.
func NewMonitor(cfg Config) *Monitor {
	limit := cfg.LimitBytes
	if limit == 0 {
		if goMemLimit := debug.SetMemoryLimit(-1); goMemLimit > 0 && goMemLimit < 1<<62 {
			limit = goMemLimit
			logging.Info("Memory monitor using GOMEMLIMIT: %s", formatBytes(limit))
		}
	}
	if limit == 0 {
		logging.Debug("Memory monitor: no memory limit configured, backpressure disabled")
	}

	return &Monitor{
		config:    cfg,
		limit:     limit,
		stopChan:  make(chan struct{}),
		pauseChan: make(chan struct{}),
	}
}

// Start begins sampling memory usage. It is a no-op without a limit.
func (m *Monitor) Start() {
	if m.limit == 0 {
		return
	}
	go m.monitorLoop()
}

// Stop stops the monitor and releases any paused waiters.
func (m *Monitor) Stop() {
	close(m.stopChan)
}

func (m *Monitor) monitorLoop() {
	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.checkMemory()
		case <-m.stopChan:
			return
		}
	}
}

func (m *Monitor) checkMemory() {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = stats.Alloc
	usage := float64(stats.Alloc) / float64(m.limit)
	metrics.MemoryUsageRatio.Set(usage)

	if usage >= m.config.CriticalWaterMark {
		if !m.isPaused {
			logging.Warn("Memory critical (%.1f%% of limit), pausing export workers", usage*100)
			m.isPaused = true
			metrics.MemoryPaused.Set(1)
			metrics.MemoryForcedGC.Inc()
			go runtime.GC()
		}
	} else if usage < m.config.HighWaterMark {
		if m.isPaused {
			logging.Info("Memory recovered (%.1f%% of limit), resuming export workers", usage*100)
			m.isPaused = false
			metrics.MemoryPaused.Set(0)
			close(m.pauseChan)
			m.pauseChan = make(chan struct{})
		}
	}
}

// WaitIfPaused blocks while memory usage is critical. It returns true
// when it is safe to proceed and false if the monitor was stopped
// while waiting.
func (m *Monitor) WaitIfPaused() bool {
	m.mu.RLock()
	if !m.isPaused {
		m.mu.RUnlock()
		return true
	}
	pauseChan := m.pauseChan
	m.mu.RUnlock()

	select {
	case <-pauseChan:
		return true
	case <-m.stopChan:
		return false
	}
}

// IsPaused reports whether export workers are currently paused.
func (m *Monitor) IsPaused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isPaused
}

// Stats returns the last sampling of heap allocation, the configured
// limit, and their ratio. Usage is 0 when no limit is configured.
func (m *Monitor) Stats() (current, limit int64, usage float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	currentInt64 := int64(math.MaxInt64)
	if m.current <= math.MaxInt64 {
		currentInt64 = int64(m.current)
	}

	var ratio float64
	if m.limit > 0 {
		ratio = float64(m.current) / float64(m.limit)
	}
	return currentInt64, m.limit, ratio
}
