package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/safequery/internal/core/query/placeholder"
)

func TestNewQuery(t *testing.T) {
	t.Run("matching count", func(t *testing.T) {
		q, err := NewQuery(placeholder.Dollar, "SELECT * FROM t WHERE a=$1", "x")
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM t WHERE a=$1", q.Template())
		assert.Equal(t, []interface{}{"x"}, q.Params())
		assert.Equal(t, placeholder.Dollar, q.Style())
	})

	t.Run("too few params", func(t *testing.T) {
		_, err := NewQuery(placeholder.Question, "SELECT * FROM t WHERE a=? AND b=?", "x")
		require.Error(t, err)
		assert.True(t, IsMalformedQuery(err))

		var mqe *MalformedQueryError
		require.ErrorAs(t, err, &mqe)
		assert.Equal(t, 2, mqe.Placeholders)
		assert.Equal(t, 1, mqe.Params)
	})

	t.Run("too many params", func(t *testing.T) {
		_, err := NewQuery(placeholder.Dollar, "SELECT 1", "x")
		assert.ErrorIs(t, err, ErrMalformedQuery)
	})

	t.Run("lexer failure is malformed", func(t *testing.T) {
		_, err := NewQuery(placeholder.Question, "SELECT 'x", "x")
		assert.ErrorIs(t, err, ErrMalformedQuery)
		assert.ErrorIs(t, err, placeholder.ErrUnterminatedQuote)
	})

	t.Run("params are copied in and out", func(t *testing.T) {
		params := []interface{}{"a"}
		q, err := NewQuery(placeholder.Question, "SELECT ?", params...)
		require.NoError(t, err)

		params[0] = "mutated"
		got := q.Params()
		got[0] = "also mutated"
		assert.Equal(t, []interface{}{"a"}, q.Params())
	})
}

func TestQueryConsume(t *testing.T) {
	q, err := NewQuery(placeholder.Question, "SELECT 1")
	require.NoError(t, err)

	assert.False(t, q.Consumed())
	assert.True(t, q.Consume())
	assert.False(t, q.Consume())
	assert.True(t, q.Consumed())
}

func TestErrors(t *testing.T) {
	t.Run("missing parameter", func(t *testing.T) {
		err := fmt.Errorf("extract: %w", &MissingParameterError{Name: "category"})
		assert.True(t, IsMissingParameter(err))
		assert.False(t, IsQueryExecution(err))
		assert.Contains(t, err.Error(), `"category"`)
	})

	t.Run("query execution unwraps cause", func(t *testing.T) {
		cause := errors.New("relation \"product\" does not exist")
		err := &QueryExecutionError{Kind: FailureSyntax, Code: "42P01", Diagnostic: cause.Error(), Cause: cause}

		assert.True(t, IsQueryExecution(err))
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, `query failed [syntax 42P01]: relation "product" does not exist`, err.Error())
	})

	t.Run("unsafe query err", func(t *testing.T) {
		u := &UnsafeQuery{Text: "x"}
		assert.NoError(t, u.Err())

		u.Findings = []Finding{{Rule: "quote"}, {Rule: "literal-escape"}}
		assert.True(t, u.Flagged())
		assert.ErrorIs(t, u.Err(), ErrUnsafeQuery)
		assert.Contains(t, u.Err().Error(), "quote, literal-escape")
	})
}

func TestResultSet(t *testing.T) {
	rs := NewResultSet([]string{"ITEM", "PRICE"}, []Row{
		{"ITEM": "TV", "PRICE": int64(300)},
		{"ITEM": "Radio", "PRICE": int64(40)},
	})

	assert.Equal(t, 2, rs.Len())
	assert.Equal(t, []interface{}{"Radio", int64(40)}, rs.Values(1))

	rows := rs.Rows()
	rows[0]["ITEM"] = "changed"
	cols := rs.Columns()
	cols[0] = "changed"

	want := []Row{
		{"ITEM": "TV", "PRICE": int64(300)},
		{"ITEM": "Radio", "PRICE": int64(40)},
	}
	if diff := cmp.Diff(want, rs.Rows()); diff != "" {
		t.Errorf("result set mutated through accessor (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"ITEM", "PRICE"}, rs.Columns())

	empty := NewResultSet([]string{"ITEM"}, nil)
	assert.Equal(t, 0, empty.Len())
	assert.NotNil(t, empty.Rows())
}
