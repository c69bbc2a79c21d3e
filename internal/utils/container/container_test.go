package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/satishbabariya/safequery/internal/config"
	"github.com/satishbabariya/safequery/internal/core/query/builder"
	"github.com/satishbabariya/safequery/internal/core/query/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Database.HealthCheckInterval = 0
	return cfg
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig()
	cfg.Executor.Timeout = time.Second

	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Same(t, cfg, c.Config())
	assert.Equal(t, "sqlite", string(c.Dialect().Name))
	assert.NotNil(t, c.Pool())
	assert.Equal(t, "SELECT ITEM,PRICE FROM PRODUCT WHERE ITEM_CATEGORY=? ORDER BY PRICE", c.Builder().Template())
	assert.NotNil(t, c.Executor())
	assert.Equal(t, "category", c.CatalogService().Param())

	_, err = c.Pool().Exec(context.Background(), `
CREATE TABLE PRODUCT (ITEM TEXT, PRICE INTEGER, ITEM_CATEGORY TEXT);
INSERT INTO PRODUCT VALUES ('TV', 300, 'Electronics');
`)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search/Electronics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"TV"`)
}

func TestNewContainerMissingTable(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.CatalogService().Search(context.Background(), "Electronics")
	assert.True(t, domain.IsQueryExecution(err))
}

func TestNewContainerErrors(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		cfg := testConfig()
		cfg.Database.Provider = "oracle"
		_, err := NewContainer(context.Background(), cfg)
		assert.ErrorContains(t, err, "oracle")
	})

	t.Run("invalid statement", func(t *testing.T) {
		cfg := testConfig()
		cfg.Query.Table = "PRODUCT; DROP TABLE PRODUCT"
		_, err := NewContainer(context.Background(), cfg)
		assert.Error(t, err)
	})

	t.Run("parameter name not usable in a route", func(t *testing.T) {
		cfg := testConfig()
		cfg.Query.Param = "item-category"
		_, err := NewContainer(context.Background(), cfg)
		assert.ErrorIs(t, err, builder.ErrInvalidIdentifier)
	})
}
