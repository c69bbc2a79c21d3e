// Package builder constructs the category lookup query.
//
// BuildSafe is the only constructor whose output the executor accepts: the
// identifier travels as a bound parameter and never becomes query text.
// BuildUnsafe reproduces the concatenation anti-pattern so it can be shown
// and flagged; its output has no path to the store.
package builder

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/satishbabariya/safequery/internal/adapters/database"
	"github.com/satishbabariya/safequery/internal/core/query/domain"
)

// ErrInvalidIdentifier indicates a table or column name that is not a plain
// SQL identifier.
var ErrInvalidIdentifier = errors.New("invalid sql identifier")

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier reports whether name is a plain identifier.
func ValidateIdentifier(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// Statement names the table and columns of the category lookup. All names
// come from trusted configuration and are validated, never quoted.
type Statement struct {
	Table        string
	Columns      []string
	FilterColumn string
	OrderBy      string
}

// DefaultStatement is the product catalog lookup.
func DefaultStatement() Statement {
	return Statement{
		Table:        "PRODUCT",
		Columns:      []string{"ITEM", "PRICE"},
		FilterColumn: "ITEM_CATEGORY",
		OrderBy:      "PRICE",
	}
}

// Validate checks every name against the plain identifier grammar.
func (s Statement) Validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("%w: no columns selected", ErrInvalidIdentifier)
	}
	names := append([]string{s.Table, s.FilterColumn}, s.Columns...)
	if s.OrderBy != "" {
		names = append(names, s.OrderBy)
	}
	for _, name := range names {
		if err := ValidateIdentifier(name); err != nil {
			return err
		}
	}
	return nil
}

// render produces the statement with value substituted for the filter.
func (s Statement) render(value string) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(s.Columns, ","))
	b.WriteString(" FROM ")
	b.WriteString(s.Table)
	b.WriteString(" WHERE ")
	b.WriteString(s.FilterColumn)
	b.WriteString("=")
	b.WriteString(value)
	if s.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(s.OrderBy)
	}
	return b.String()
}

// Builder builds category lookups for one dialect.
type Builder struct {
	dialect  database.Dialect
	stmt     Statement
	template string
}

// New validates stmt and precomputes the parameterized template.
func New(dialect database.Dialect, stmt Statement) (*Builder, error) {
	if err := stmt.Validate(); err != nil {
		return nil, err
	}
	if dialect.Placeholder == 0 {
		return nil, fmt.Errorf("dialect %q has no placeholder style", dialect.Name)
	}

	return &Builder{
		dialect:  dialect,
		stmt:     stmt,
		template: stmt.render(dialect.Placeholder.Format(1)),
	}, nil
}

// Template returns the parameterized query text. It is the same for every
// identifier.
func (b *Builder) Template() string {
	return b.template
}

// Dialect returns the dialect queries are built for.
func (b *Builder) Dialect() database.Dialect {
	return b.dialect
}

// BuildSafe returns a Query whose only parameter is id, unchanged. The
// template is fixed at construction time, so no byte of id is ever parsed as
// SQL.
func (b *Builder) BuildSafe(id domain.CategoryIdentifier) (*domain.Query, error) {
	return domain.NewQuery(b.dialect.Placeholder, b.template, string(id))
}

// BuildUnsafe concatenates the URI-encoded identifier into a quoted literal.
// URI encoding targets the transport layer: quotes and semicolons pass
// through untouched. The result is audited and is not executable.
func (b *Builder) BuildUnsafe(id domain.CategoryIdentifier) *domain.UnsafeQuery {
	text := b.stmt.render("'" + EncodeURI(string(id)) + "'")
	return &domain.UnsafeQuery{
		Text:       text,
		Identifier: id,
		Findings:   Audit(id, text),
	}
}
