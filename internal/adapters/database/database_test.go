package database_test

import (
	"bytes"
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/safequery/internal/adapters/database"
	"github.com/satishbabariya/safequery/internal/adapters/database/mysql"
	"github.com/satishbabariya/safequery/internal/adapters/database/postgres"
	"github.com/satishbabariya/safequery/internal/adapters/database/sqlite"
	"github.com/satishbabariya/safequery/internal/core/query/domain"
	"github.com/satishbabariya/safequery/internal/core/query/placeholder"
	"github.com/satishbabariya/safequery/internal/debug"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		provider string
		want     database.SQLDialect
		style    placeholder.Style
	}{
		{"postgres", database.PostgreSQL, placeholder.Dollar},
		{"postgresql", database.PostgreSQL, placeholder.Dollar},
		{"PG", database.PostgreSQL, placeholder.Dollar},
		{"mysql", database.MySQL, placeholder.Question},
		{"mariadb", database.MySQL, placeholder.Question},
		{"sqlite", database.SQLite, placeholder.Question},
		{" sqlite3 ", database.SQLite, placeholder.Question},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			d, err := database.Lookup(tt.provider)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name)
			assert.Equal(t, tt.style, d.Placeholder)
		})
	}

	t.Run("unknown provider", func(t *testing.T) {
		_, err := database.Lookup("oracle")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres")
	})

	assert.Contains(t, database.Providers(), "sqlite3")
}

func TestClassifyPostgres(t *testing.T) {
	tests := []struct {
		code pq.ErrorCode
		want domain.FailureKind
	}{
		{"42601", domain.FailureSyntax},
		{"42P01", domain.FailureSyntax},
		{"23505", domain.FailureConstraint},
		{"08006", domain.FailureConnectivity},
		{"57014", domain.FailureCanceled},
		{"57P01", domain.FailureConnectivity},
		{"XX000", domain.FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := fmt.Errorf("query: %w", &pq.Error{Code: tt.code, Message: "boom", Detail: "detail"})
			c := postgres.Dialect.Classify(err)
			assert.Equal(t, tt.want, c.Kind)
			assert.Equal(t, string(tt.code), c.Code)
			assert.Equal(t, "boom: detail", c.Diagnostic)
		})
	}
}

func TestClassifyMySQL(t *testing.T) {
	tests := []struct {
		number uint16
		want   domain.FailureKind
	}{
		{1064, domain.FailureSyntax},
		{1146, domain.FailureSyntax},
		{1062, domain.FailureConstraint},
		{1452, domain.FailureConstraint},
		{1317, domain.FailureCanceled},
		{1045, domain.FailureConnectivity},
		{9999, domain.FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.number), func(t *testing.T) {
			c := mysql.Dialect.Classify(&gomysql.MySQLError{Number: tt.number, Message: "boom"})
			assert.Equal(t, tt.want, c.Kind)
			assert.Equal(t, fmt.Sprint(tt.number), c.Code)
			assert.Equal(t, "boom", c.Diagnostic)
		})
	}

	t.Run("invalid connection", func(t *testing.T) {
		c := mysql.Dialect.Classify(gomysql.ErrInvalidConn)
		assert.Equal(t, domain.FailureConnectivity, c.Kind)
	})
}

func TestMySQLTune(t *testing.T) {
	t.Run("enables parseTime", func(t *testing.T) {
		cfg := database.Config{URL: "app:pw@tcp(db:3306)/shop"}
		mysql.Dialect.Tune(&cfg)
		assert.Contains(t, cfg.URL, "parseTime=true")
	})

	t.Run("unparseable dsn is kept and logged", func(t *testing.T) {
		var buf bytes.Buffer
		debug.Configure(debug.Options{Enable: true, Writer: &buf})
		t.Cleanup(func() { debug.Init(false) })

		cfg := database.Config{URL: "host=db user=app"}
		mysql.Dialect.Tune(&cfg)
		assert.Equal(t, "host=db user=app", cfg.URL)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "mysql dsn not tuned")
	})
}

func TestClassifyCommon(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.FailureKind
	}{
		{"canceled", context.Canceled, domain.FailureCanceled},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), domain.FailureCanceled},
		{"bad conn", driver.ErrBadConn, domain.FailureConnectivity},
		{"other", errors.New("mystery"), domain.FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Driver classifiers decline errors they do not own.
			c := postgres.Dialect.Classify(tt.err)
			assert.Equal(t, tt.want, c.Kind)
			assert.Equal(t, tt.err.Error(), c.Diagnostic)
		})
	}

	assert.Equal(t, database.Classification{}, sqlite.Dialect.Classify(nil))
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()

	cfg := database.DefaultConfig()
	cfg.MaxOpenConns = 10
	cfg.HealthCheckInterval = 0

	p, d, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, database.SQLite, d.Name)
	assert.Equal(t, 1, p.Stats().MaxOpenConnections, "sqlite is restricted to one connection")

	var fk int
	require.NoError(t, p.QueryRow(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	v, err := database.ServerVersion(ctx, p, d)
	require.NoError(t, err)
	assert.NotEmpty(t, v)

	t.Run("syntax error classification", func(t *testing.T) {
		_, err := p.Exec(ctx, "SELEC nothing")
		require.Error(t, err)
		assert.Equal(t, domain.FailureSyntax, d.Classify(err).Kind)
	})

	t.Run("constraint classification", func(t *testing.T) {
		_, err := p.Exec(ctx, "CREATE TABLE u (id INTEGER PRIMARY KEY, name TEXT UNIQUE)")
		require.NoError(t, err)
		_, err = p.Exec(ctx, "INSERT INTO u (name) VALUES ('a')")
		require.NoError(t, err)
		_, err = p.Exec(ctx, "INSERT INTO u (name) VALUES ('a')")
		require.Error(t, err)
		assert.Equal(t, domain.FailureConstraint, d.Classify(err).Kind)
	})
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()

	_, _, err := database.Open(ctx, database.Config{Provider: "nope", URL: "x"})
	assert.Error(t, err)

	_, _, err = database.Open(ctx, database.Config{Provider: "sqlite"})
	assert.ErrorContains(t, err, "url is required")
}

func TestSQLiteIsMemory(t *testing.T) {
	assert.True(t, sqlite.IsMemory(":memory:"))
	assert.True(t, sqlite.IsMemory("file::memory:?cache=shared"))
	assert.True(t, sqlite.IsMemory("file:test.db?mode=memory"))
	assert.False(t, sqlite.IsMemory("catalog.db"))
}
