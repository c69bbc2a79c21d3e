// Package service implements the catalog search use case.
package service

import (
	"context"
	"time"

	"github.com/satishbabariya/safequery/internal/core/query/builder"
	"github.com/satishbabariya/safequery/internal/core/query/domain"
	"github.com/satishbabariya/safequery/internal/core/query/executor"
	"github.com/satishbabariya/safequery/internal/core/query/extractor"
	"github.com/satishbabariya/safequery/internal/debug"
)

// CatalogService looks up catalog items by category.
type CatalogService struct {
	builder  *builder.Builder
	executor *executor.QueryExecutor
	param    string
}

// NewCatalogService creates a new catalog service. An empty param falls
// back to extractor.DefaultParam.
func NewCatalogService(b *builder.Builder, exec *executor.QueryExecutor, param string) *CatalogService {
	if param == "" {
		param = extractor.DefaultParam
	}
	return &CatalogService{
		builder:  b,
		executor: exec,
		param:    param,
	}
}

// Param returns the name of the request parameter carrying the category.
func (s *CatalogService) Param() string {
	return s.param
}

// ItemsByCategory extracts the category from params and returns the
// matching items.
func (s *CatalogService) ItemsByCategory(ctx context.Context, params extractor.Params) (*domain.ResultSet, error) {
	id, err := extractor.Extract(params, s.param)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, id)
}

// Search runs the parameterized lookup for id.
func (s *CatalogService) Search(ctx context.Context, id domain.CategoryIdentifier) (*domain.ResultSet, error) {
	q, err := s.builder.BuildSafe(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rs, err := s.executor.Execute(ctx, q)
	if err != nil {
		debug.Warn("catalog search failed", "template", q.Template(), "error", err)
		return nil, err
	}

	debug.Debug("catalog search",
		"template", q.Template(),
		"rows", rs.Len(),
		"duration", time.Since(start))
	return rs, nil
}
