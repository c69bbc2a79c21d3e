// Package container provides dependency injection.
package container

import (
	"context"
	"fmt"

	"github.com/satishbabariya/safequery/internal/adapters/database"
	_ "github.com/satishbabariya/safequery/internal/adapters/database/mysql"
	_ "github.com/satishbabariya/safequery/internal/adapters/database/postgres"
	_ "github.com/satishbabariya/safequery/internal/adapters/database/sqlite"
	httpapi "github.com/satishbabariya/safequery/internal/adapters/http"
	"github.com/satishbabariya/safequery/internal/config"
	"github.com/satishbabariya/safequery/internal/core/database/pool"
	"github.com/satishbabariya/safequery/internal/core/query/builder"
	"github.com/satishbabariya/safequery/internal/core/query/executor"
	"github.com/satishbabariya/safequery/internal/service"
)

// Container holds all application dependencies.
type Container struct {
	// Configuration
	config *config.Config

	// Adapters
	pool    *pool.Pool
	dialect database.Dialect

	// Query pipeline
	builder  *builder.Builder
	executor *executor.QueryExecutor

	// Services
	catalogService *service.CatalogService
}

// NewContainer opens the configured store and wires the query pipeline.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{
		config: cfg,
	}

	if err := cfg.Query.Statement().Validate(); err != nil {
		return nil, fmt.Errorf("invalid query configuration: %w", err)
	}
	if cfg.Query.Param != "" {
		if err := builder.ValidateIdentifier(cfg.Query.Param); err != nil {
			return nil, fmt.Errorf("invalid query parameter name: %w", err)
		}
	}

	var err error
	c.pool, c.dialect, err = database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	c.builder, err = builder.New(c.dialect, cfg.Query.Statement())
	if err != nil {
		c.pool.Close()
		return nil, fmt.Errorf("invalid query configuration: %w", err)
	}

	var opts []executor.Option
	if cfg.Executor.PropagateCancel {
		opts = append(opts, executor.WithCancelPropagation())
	}
	if cfg.Executor.Timeout > 0 {
		opts = append(opts, executor.WithTimeout(cfg.Executor.Timeout))
	}
	c.executor = executor.NewQueryExecutor(c.pool, c.dialect, opts...)

	c.catalogService = service.NewCatalogService(c.builder, c.executor, cfg.Query.Param)

	return c, nil
}

// Config returns the configuration the container was built from.
func (c *Container) Config() *config.Config {
	return c.config
}

// Pool returns the connection pool.
func (c *Container) Pool() *pool.Pool {
	return c.pool
}

// Dialect returns the resolved store dialect.
func (c *Container) Dialect() database.Dialect {
	return c.dialect
}

// Builder returns the query builder.
func (c *Container) Builder() *builder.Builder {
	return c.builder
}

// Executor returns the query executor.
func (c *Container) Executor() *executor.QueryExecutor {
	return c.executor
}

// CatalogService returns the catalog service.
func (c *Container) CatalogService() *service.CatalogService {
	return c.catalogService
}

// Handler returns the HTTP handler for the catalog service.
func (c *Container) Handler() *httpapi.Handler {
	return httpapi.NewHandler(c.catalogService, c.pool)
}

// Close cleans up resources.
func (c *Container) Close() error {
	if c.pool != nil {
		return c.pool.Close()
	}
	return nil
}
