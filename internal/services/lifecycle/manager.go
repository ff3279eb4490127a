package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownFunc releases one component's resources during shutdown.
type ShutdownFunc func(ctx context.Context) error

type registration struct {
	name string
	stop ShutdownFunc
}

// Manager owns the ordered teardown of server components. Components
// register in startup order and are stopped in reverse, so the HTTP
// server drains before the stores behind it close.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	stack   []registration
	stopped bool
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register appends a shutdown callback. Registration after Shutdown has
// run is ignored.
func (m *Manager) Register(name string, stop ShutdownFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.stack = append(m.stack, registration{name: name, stop: stop})
}

// Shutdown runs every registered callback in reverse order under the
// configured deadline. It is safe to call more than once; later calls
// are no-ops.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	stack := m.stack
	m.mu.Unlock()

	var result error
	for i := len(stack) - 1; i >= 0; i-- {
		reg := stack[i]
		started := time.Now()
		if err := reg.stop(ctx); err != nil {
			m.logger.Error("component shutdown failed",
				zap.String("component", reg.name),
				zap.Error(err))
			result = errors.Join(result, err)
			continue
		}
		m.logger.Info("component stopped",
			zap.String("component", reg.name),
			zap.Duration("elapsed", time.Since(started)))
	}
	return result
}

// Listen watches for SIGTERM/SIGINT and invokes cancel on the first one.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}
