// Package domain defines the query path's core types: the untrusted category
// identifier, the immutable parameterized Query, the read-only ResultSet and
// the error taxonomy shared by every layer.
package domain

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/satishbabariya/safequery/internal/core/query/placeholder"
)

// CategoryIdentifier is an untrusted token taken from a request. It has no
// format guarantee and may contain quotes, delimiters or control characters.
type CategoryIdentifier string

// String returns the raw value.
func (c CategoryIdentifier) String() string {
	return string(c)
}

// Query is an immutable pair of template and bound parameters. The number of
// placeholders in the template always equals len(Params()).
type Query struct {
	template string
	params   []interface{}
	style    placeholder.Style
	consumed *atomic.Bool
}

// NewQuery validates that template expects exactly len(params) parameters in
// the given placeholder style. Parameters are copied.
func NewQuery(style placeholder.Style, template string, params ...interface{}) (*Query, error) {
	n, err := placeholder.Count(style, template)
	if err != nil {
		return nil, &MalformedQueryError{Template: template, Params: len(params), Cause: err}
	}
	if n != len(params) {
		return nil, &MalformedQueryError{Template: template, Placeholders: n, Params: len(params)}
	}

	p := make([]interface{}, len(params))
	copy(p, params)

	return &Query{
		template: template,
		params:   p,
		style:    style,
		consumed: new(atomic.Bool),
	}, nil
}

// Template returns the query text with positional placeholders.
func (q *Query) Template() string {
	return q.template
}

// Params returns a copy of the bound parameters in placeholder order.
func (q *Query) Params() []interface{} {
	p := make([]interface{}, len(q.params))
	copy(p, q.params)
	return p
}

// Style returns the placeholder style the template was validated against.
func (q *Query) Style() placeholder.Style {
	return q.style
}

// Consume marks the query as submitted. It returns false if it already was.
func (q *Query) Consume() bool {
	return q.consumed.CompareAndSwap(false, true)
}

// Consumed reports whether the query has been submitted.
func (q *Query) Consumed() bool {
	return q.consumed.Load()
}

// Finding is one reason a concatenated query is unsafe.
type Finding struct {
	Rule    string
	Message string
}

// UnsafeQuery is query text assembled by concatenating untrusted input. It
// cannot be converted to a Query and is never executed; it exists to be
// inspected and flagged.
type UnsafeQuery struct {
	Text       string
	Identifier CategoryIdentifier
	Findings   []Finding
}

// Flagged reports whether the audit found anything.
func (u *UnsafeQuery) Flagged() bool {
	return len(u.Findings) > 0
}

// Err returns ErrUnsafeQuery annotated with the findings, or nil when the
// audit found nothing.
func (u *UnsafeQuery) Err() error {
	if !u.Flagged() {
		return nil
	}
	rules := make([]string, len(u.Findings))
	for i, f := range u.Findings {
		rules[i] = f.Rule
	}
	return fmt.Errorf("%w: %s", ErrUnsafeQuery, strings.Join(rules, ", "))
}
