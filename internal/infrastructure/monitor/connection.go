package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/weaverapp/backend/internal/infrastructure/buffer"
)

const (
	pgPingTimeout    = 3 * time.Second
	redisPingTimeout = 2 * time.Second
)

// Monitor probes the backing stores on a fixed interval. The buffer
// processor consults IsOnline before replaying queued writes, and the
// health endpoint reports the latest snapshot.
type Monitor struct {
	pg     *pgxpool.Pool
	redis  *redislib.Client
	buffer *buffer.Store

	mu       sync.RWMutex
	status   Status
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(pg *pgxpool.Pool, redis *redislib.Client, buf *buffer.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pg:       pg,
		redis:    redis,
		buffer:   buf,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

// IsOnline reports whether both durable stores answered the last probe.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.PostgreSQL && m.status.Redis
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	bufferOK, bufferSize := m.probeBuffer()
	next := Status{
		PostgreSQL: m.probePostgres(),
		Redis:      m.probeRedis(),
		Buffer:     bufferOK,
		BufferSize: bufferSize,
		LastCheck:  time.Now(),
	}

	m.mu.Lock()
	prev := m.status
	m.status = next
	m.mu.Unlock()

	wasOnline := prev.PostgreSQL && prev.Redis
	isOnline := next.PostgreSQL && next.Redis
	if wasOnline && !isOnline {
		m.logger.Warn("backing stores went offline",
			zap.Bool("postgres", next.PostgreSQL),
			zap.Bool("redis", next.Redis))
	}
	if !wasOnline && isOnline && !prev.LastCheck.IsZero() {
		m.logger.Info("backing stores back online", zap.Int("buffered_items", bufferSize))
	}
}

func (m *Monitor) probePostgres() bool {
	if m.pg == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), pgPingTimeout)
	defer cancel()
	return m.pg.Ping(ctx) == nil
}

func (m *Monitor) probeRedis() bool {
	if m.redis == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	return m.redis.Ping(ctx).Err() == nil
}

func (m *Monitor) probeBuffer() (bool, int) {
	if m.buffer == nil {
		return false, 0
	}
	size, err := m.buffer.Size()
	if err != nil {
		m.logger.Warn("buffer size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
