// Package sqlite registers the SQLite dialect backed by mattn/go-sqlite3.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/satishbabariya/safequery/internal/adapters/database"
	"github.com/satishbabariya/safequery/internal/core/query/domain"
	"github.com/satishbabariya/safequery/internal/core/query/placeholder"
)

// Dialect is the SQLite dialect.
var Dialect = database.Dialect{
	Name:           database.SQLite,
	Aliases:        []string{"sqlite3"},
	Driver:         "sqlite3",
	Placeholder:    placeholder.Question,
	VersionQuery:   "SELECT sqlite_version()",
	MinVersion:     "3.8.3",
	ClassifyDriver: Classify,
	Tune:           tune,
	Prepare:        prepare,
}

func init() {
	database.Register(Dialect)
}

// tune restricts SQLite to a single connection. In-memory databases live and
// die with their connection, so they also never expire.
func tune(cfg *database.Config) {
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1
	if IsMemory(cfg.URL) {
		cfg.ConnMaxLifetime = 0
		cfg.ConnMaxIdleTime = 0
	}
}

// IsMemory reports whether dsn names an in-memory database.
func IsMemory(dsn string) bool {
	return dsn == ":memory:" ||
		strings.HasPrefix(dsn, "file::memory:") ||
		strings.Contains(dsn, "mode=memory")
}

func prepare(ctx context.Context, db *sql.DB) error {
	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return nil
}

// Classify maps sqlite3.Error result codes onto failure kinds.
func Classify(err error) (database.Classification, bool) {
	var sqErr sqlite3.Error
	if !errors.As(err, &sqErr) {
		return database.Classification{}, false
	}

	c := database.Classification{
		Kind:       domain.FailureUnknown,
		Code:       strconv.Itoa(int(sqErr.ExtendedCode)),
		Diagnostic: sqErr.Error(),
	}

	switch sqErr.Code {
	case sqlite3.ErrError, sqlite3.ErrRange, sqlite3.ErrMismatch:
		c.Kind = domain.FailureSyntax
	case sqlite3.ErrConstraint:
		c.Kind = domain.FailureConstraint
	case sqlite3.ErrCantOpen, sqlite3.ErrIoErr, sqlite3.ErrNotADB, sqlite3.ErrCorrupt:
		c.Kind = domain.FailureConnectivity
	case sqlite3.ErrInterrupt:
		c.Kind = domain.FailureCanceled
	}
	return c, true
}
