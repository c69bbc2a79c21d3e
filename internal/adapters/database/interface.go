// Package database defines the dialect registry that binds a configured
// provider to its driver, placeholder style and error classifier.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/satishbabariya/safequery/internal/core/query/domain"
	"github.com/satishbabariya/safequery/internal/core/query/placeholder"
)

// SQLDialect represents a SQL dialect.
type SQLDialect string

const (
	// PostgreSQL dialect.
	PostgreSQL SQLDialect = "postgres"
	// MySQL dialect.
	MySQL SQLDialect = "mysql"
	// SQLite dialect.
	SQLite SQLDialect = "sqlite"
)

// Classification is a dialect's reading of a driver error.
type Classification struct {
	Kind       domain.FailureKind
	Code       string
	Diagnostic string
}

// Dialect describes how to talk to one kind of store.
type Dialect struct {
	// Name is the canonical dialect name.
	Name SQLDialect
	// Aliases are other provider strings accepted in configuration.
	Aliases []string
	// Driver is the database/sql driver name.
	Driver string
	// Placeholder is the positional parameter syntax.
	Placeholder placeholder.Style
	// VersionQuery returns the server version as a single text column.
	VersionQuery string
	// MinVersion is the oldest server version supported.
	MinVersion string
	// ClassifyDriver maps driver-specific errors. It returns false when it does not
	// recognise the error.
	ClassifyDriver func(err error) (Classification, bool)
	// Tune adjusts connection settings before the pool is opened.
	Tune func(cfg *Config)
	// Prepare runs once against a freshly opened pool.
	Prepare func(ctx context.Context, db *sql.DB) error
}

// Config holds database connection configuration.
type Config struct {
	Provider            string
	URL                 string
	MaxOpenConns        int
	MaxIdleConns        int
	ConnMaxLifetime     int // seconds
	ConnMaxIdleTime     int // seconds
	HealthCheckInterval int // seconds
	ConnectTimeout      int // seconds
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Dialect)
)

// Register makes a dialect available under its name and aliases. Driver
// packages call it from init.
func Register(d Dialect) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if d.Name == "" || d.Driver == "" {
		panic("database: Register requires Name and Driver")
	}
	registry[string(d.Name)] = d
	for _, alias := range d.Aliases {
		registry[strings.ToLower(alias)] = d
	}
}

// Lookup returns the dialect registered for provider.
func Lookup(provider string) (Dialect, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	d, ok := registry[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported database provider %q (registered: %s)",
			provider, strings.Join(providersLocked(), ", "))
	}
	return d, nil
}

// Providers lists every registered provider name, including aliases.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return providersLocked()
}

func providersLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
