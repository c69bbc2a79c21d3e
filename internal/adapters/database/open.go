package database

import (
	"context"
	"fmt"
	"time"

	"github.com/satishbabariya/safequery/internal/core/database/pool"
	"github.com/satishbabariya/safequery/internal/debug"
)

// DefaultConfig returns connection settings matching pool.DefaultConfig.
func DefaultConfig() Config {
	pc := pool.DefaultConfig()
	return Config{
		Provider:            string(SQLite),
		URL:                 ":memory:",
		MaxOpenConns:        pc.MaxOpenConns,
		MaxIdleConns:        pc.MaxIdleConns,
		ConnMaxLifetime:     int(pc.ConnMaxLifetime / time.Second),
		ConnMaxIdleTime:     int(pc.ConnMaxIdleTime / time.Second),
		HealthCheckInterval: int(pc.HealthCheckInterval / time.Second),
		ConnectTimeout:      10,
	}
}

// PoolConfig converts connection settings into pool settings.
func (c Config) PoolConfig() pool.Config {
	return pool.Config{
		MaxOpenConns:        c.MaxOpenConns,
		MaxIdleConns:        c.MaxIdleConns,
		ConnMaxLifetime:     time.Duration(c.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime:     time.Duration(c.ConnMaxIdleTime) * time.Second,
		HealthCheckInterval: time.Duration(c.HealthCheckInterval) * time.Second,
	}
}

// Open resolves the configured provider, opens a pool for it and verifies
// connectivity within the connect timeout.
func Open(ctx context.Context, cfg Config) (*pool.Pool, Dialect, error) {
	d, err := Lookup(cfg.Provider)
	if err != nil {
		return nil, Dialect{}, err
	}
	if cfg.URL == "" {
		return nil, Dialect{}, fmt.Errorf("database url is required for provider %q", cfg.Provider)
	}

	if d.Tune != nil {
		d.Tune(&cfg)
	}

	p, err := pool.New(d.Driver, cfg.URL, cfg.PoolConfig())
	if err != nil {
		return nil, Dialect{}, err
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.ConnectTimeout)*time.Second)
		defer cancel()
	}

	if err := p.HealthCheck(ctx); err != nil {
		p.Close()
		return nil, Dialect{}, fmt.Errorf("failed to ping database: %w", err)
	}

	if d.Prepare != nil {
		if err := d.Prepare(ctx, p.DB()); err != nil {
			p.Close()
			return nil, Dialect{}, fmt.Errorf("failed to prepare %s connection: %w", d.Name, err)
		}
	}

	debug.Debug("database connected", "dialect", d.Name, "driver", d.Driver)
	return p, d, nil
}

// ServerVersion asks the store for its version string.
func ServerVersion(ctx context.Context, p *pool.Pool, d Dialect) (string, error) {
	if d.VersionQuery == "" {
		return "", fmt.Errorf("dialect %s has no version query", d.Name)
	}
	var v string
	if err := p.QueryRow(ctx, d.VersionQuery).Scan(&v); err != nil {
		return "", fmt.Errorf("failed to read server version: %w", err)
	}
	return v, nil
}
