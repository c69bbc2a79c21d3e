// Package extractor pulls the category identifier out of an already-parsed
// request. It never reads process-wide or ambient state: the source is always
// passed in explicitly.
package extractor

import (
	"net/http"
	"net/url"

	"github.com/satishbabariya/safequery/internal/core/query/domain"
)

// DefaultParam is the parameter name used when none is configured.
const DefaultParam = "category"

// Params is any source of named request parameters.
type Params interface {
	Lookup(name string) (string, bool)
}

// Extract returns the value of name as an opaque CategoryIdentifier. An absent
// or empty value fails with *domain.MissingParameterError. The value is
// returned as-is: no trimming, decoding or validation.
func Extract(params Params, name string) (domain.CategoryIdentifier, error) {
	if params == nil {
		return "", &domain.MissingParameterError{Name: name}
	}
	v, ok := params.Lookup(name)
	if !ok || v == "" {
		return "", &domain.MissingParameterError{Name: name}
	}
	return domain.CategoryIdentifier(v), nil
}

// Map adapts a plain map.
type Map map[string]string

// Lookup implements Params.
func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Values adapts url.Values, using the first value for a key.
type Values url.Values

// Lookup implements Params.
func (v Values) Lookup(name string) (string, bool) {
	vs, ok := v[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// PathValues adapts the wildcards matched by an http.ServeMux pattern.
type PathValues struct {
	Request *http.Request
}

// Lookup implements Params. ServeMux cannot distinguish an unmatched
// wildcard from an empty one, so both report absent.
func (p PathValues) Lookup(name string) (string, bool) {
	if p.Request == nil {
		return "", false
	}
	v := p.Request.PathValue(name)
	return v, v != ""
}

// First returns a Params that consults each source in order.
func First(sources ...Params) Params {
	return chain(sources)
}

type chain []Params

func (c chain) Lookup(name string) (string, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if v, ok := p.Lookup(name); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
