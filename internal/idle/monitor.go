// Package idle enforces the inactivity logout: while a session is active, a
// countdown runs that any interaction signal resets; on expiry the session is
// destroyed with no confirmation.
package idle

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout matches the product's ten-minute idle window.
const DefaultTimeout = 10 * time.Minute

// Monitor owns the countdown for the current session's lifetime. Start and
// Stop bracket a session; Touch resets the countdown. The expiry callback
// fires at most once per Start and never after Stop.
type Monitor struct {
	timeout  time.Duration
	onExpire func()
	log      zerolog.Logger

	mu     sync.Mutex
	timer  *time.Timer
	active bool
}

// NewMonitor creates a stopped monitor. onExpire runs on its own goroutine
// when the countdown lapses. A non-positive timeout falls back to
// DefaultTimeout.
func NewMonitor(timeout time.Duration, onExpire func(), log zerolog.Logger) *Monitor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Monitor{timeout: timeout, onExpire: onExpire, log: log}
}

// Start begins a fresh countdown. Restarting an already running monitor just
// resets the countdown.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
	}
	m.active = true
	m.timer = time.AfterFunc(m.timeout, m.expire)
}

// Touch resets the countdown. Signals arriving while the monitor is stopped
// are ignored; a touch can never resurrect a finished countdown.
func (m *Monitor) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return
	}
	m.timer.Stop()
	m.timer = time.AfterFunc(m.timeout, m.expire)
}

// Stop tears the countdown down. Idempotent; after Stop the expiry callback
// cannot fire.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = false
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Monitor) expire() {
	m.mu.Lock()
	if !m.active {
		// Stop raced the timer firing; the session already ended.
		m.mu.Unlock()
		return
	}
	m.active = false
	m.timer = nil
	m.mu.Unlock()

	m.log.Info().Dur("timeout", m.timeout).Msg("idle timeout reached, logging out")
	m.onExpire()
}
