package builder

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/satishbabariya/safequery/internal/adapters/database/postgres"
	"github.com/satishbabariya/safequery/internal/adapters/database/sqlite"
	"github.com/satishbabariya/safequery/internal/core/query/domain"
)

// TestBuildSafeProperties validates injection resistance of the safe builder
func TestBuildSafeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1337)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	pg, err := New(postgres.Dialect, DefaultStatement())
	if err != nil {
		t.Fatal(err)
	}
	lite, err := New(sqlite.Dialect, DefaultStatement())
	if err != nil {
		t.Fatal(err)
	}

	// Property: an identifier containing a quote never appears in the template
	properties.Property("quoted identifiers stay out of the template", prop.ForAll(
		func(prefix, suffix string) bool {
			id := domain.CategoryIdentifier(prefix + "'" + suffix)
			for _, b := range []*Builder{pg, lite} {
				q, err := b.BuildSafe(id)
				if err != nil {
					return false
				}
				if strings.Contains(q.Template(), string(id)) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	// Property: the parameter list is exactly the identifier, untransformed
	properties.Property("parameters equal the raw identifier", prop.ForAll(
		func(s string) bool {
			q, err := pg.BuildSafe(domain.CategoryIdentifier(s))
			if err != nil {
				return false
			}
			return reflect.DeepEqual(q.Params(), []interface{}{s})
		},
		gen.AnyString(),
	))

	// Property: the template does not depend on the identifier
	properties.Property("template is identifier independent", prop.ForAll(
		func(a, b string) bool {
			qa, errA := lite.BuildSafe(domain.CategoryIdentifier(a))
			qb, errB := lite.BuildSafe(domain.CategoryIdentifier(b))
			return errA == nil && errB == nil && qa.Template() == qb.Template()
		},
		gen.AnyString(),
		gen.OneConstOf("x' OR '1'='1", "'; DROP TABLE PRODUCT; --", "Electronics", "", "/* */"),
	))

	// Property: every concatenated query is flagged, and quotes are named
	properties.Property("unsafe construction is always flagged", prop.ForAll(
		func(prefix, suffix string) bool {
			u := pg.BuildUnsafe(domain.CategoryIdentifier(prefix + "'" + suffix))
			if u.Err() == nil {
				return false
			}
			for _, f := range u.Findings {
				if f.Rule == RuleQuote {
					return true
				}
			}
			return false
		},
		gen.AlphaString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
