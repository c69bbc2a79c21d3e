// Package pool provides the shared database connection pool. It owns the
// concurrency bound and connection lifecycle; callers acquire and release
// connections implicitly through database/sql.
package pool

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/satishbabariya/safequery/internal/debug"
)

// Config holds connection pool configuration.
type Config struct {
	// MaxOpenConns is the maximum number of open connections (0 = unlimited).
	MaxOpenConns int
	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int
	// ConnMaxLifetime is the maximum lifetime of a connection (0 = forever).
	ConnMaxLifetime time.Duration
	// ConnMaxIdleTime is the maximum idle time of a connection (0 = forever).
	ConnMaxIdleTime time.Duration
	// HealthCheckInterval is how often to run health checks (0 = never).
	HealthCheckInterval time.Duration
}

// DefaultConfig returns sensible default pool configuration.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:        25,
		MaxIdleConns:        5,
		ConnMaxLifetime:     30 * time.Minute,
		ConnMaxIdleTime:     10 * time.Minute,
		HealthCheckInterval: 1 * time.Minute,
	}
}

// Pool manages database connections with lifecycle management.
type Pool struct {
	db     *sql.DB
	driver string
	config Config

	mu              sync.RWMutex
	failedChecks    int64
	lastHealthCheck time.Time
	lastHealthErr   error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New opens a pool for the named driver. It does not contact the store;
// call HealthCheck to verify connectivity.
func New(driverName, dataSourceName string, config Config) (*Pool, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return Wrap(db, driverName, config), nil
}

// Wrap applies config to an already opened *sql.DB and takes ownership of it.
func Wrap(db *sql.DB, driverName string, config Config) *Pool {
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool{
		db:     db,
		driver: driverName,
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}

	if config.HealthCheckInterval > 0 {
		p.wg.Add(1)
		go p.healthCheckLoop()
	}

	debug.Debug("pool opened",
		"driver", driverName,
		"max_open", config.MaxOpenConns,
		"max_idle", config.MaxIdleConns)

	return p
}

// DB returns the underlying *sql.DB.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Driver returns the database/sql driver name.
func (p *Pool) Driver() string {
	return p.driver
}

// PoolStats represents pool statistics.
type PoolStats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
	MaxIdleClosed      int64
	MaxLifetimeClosed  int64
	FailedHealthChecks int64
	LastHealthCheck    time.Time
	LastHealthError    error
}

// Stats returns current pool statistics.
func (p *Pool) Stats() PoolStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	dbStats := p.db.Stats()

	return PoolStats{
		MaxOpenConnections: p.config.MaxOpenConns,
		OpenConnections:    dbStats.OpenConnections,
		InUse:              dbStats.InUse,
		Idle:               dbStats.Idle,
		WaitCount:          dbStats.WaitCount,
		WaitDuration:       dbStats.WaitDuration,
		MaxIdleClosed:      dbStats.MaxIdleClosed,
		MaxLifetimeClosed:  dbStats.MaxLifetimeClosed,
		FailedHealthChecks: p.failedChecks,
		LastHealthCheck:    p.lastHealthCheck,
		LastHealthError:    p.lastHealthErr,
	}
}

// HealthCheck pings the store through the pool.
func (p *Pool) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)

	p.mu.Lock()
	p.lastHealthCheck = time.Now()
	p.lastHealthErr = err
	if err != nil {
		p.failedChecks++
	}
	p.mu.Unlock()

	if err != nil {
		debug.Warn("health check failed", "driver", p.driver, "error", err)
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// healthCheckLoop runs periodic health checks.
func (p *Pool) healthCheckLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(p.ctx, 5*time.Second)
			_ = p.HealthCheck(ctx)
			cancel()
		}
	}
}

// Close stops background routines and closes every connection.
func (p *Pool) Close() error {
	p.cancel()
	p.wg.Wait()
	debug.Debug("pool closed", "driver", p.driver)
	return p.db.Close()
}

// Exec executes a statement without returning rows.
func (p *Pool) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return p.db.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows.
func (p *Pool) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return p.db.QueryContext(ctx, query, args...)
}

// QueryRow executes a query that returns at most one row.
func (p *Pool) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return p.db.QueryRowContext(ctx, query, args...)
}
