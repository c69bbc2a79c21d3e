// Package postgres registers the PostgreSQL dialect backed by lib/pq.
package postgres

import (
	"errors"

	"github.com/lib/pq"

	"github.com/satishbabariya/safequery/internal/adapters/database"
	"github.com/satishbabariya/safequery/internal/core/query/domain"
	"github.com/satishbabariya/safequery/internal/core/query/placeholder"
)

// Dialect is the PostgreSQL dialect.
var Dialect = database.Dialect{
	Name:           database.PostgreSQL,
	Aliases:        []string{"postgresql", "pg"},
	Driver:         "postgres",
	Placeholder:    placeholder.Dollar,
	VersionQuery:   "SHOW server_version",
	MinVersion:     "12.0",
	ClassifyDriver: Classify,
}

func init() {
	database.Register(Dialect)
}

// Classify maps *pq.Error SQLSTATE classes onto failure kinds.
func Classify(err error) (database.Classification, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return database.Classification{}, false
	}

	c := database.Classification{
		Kind:       domain.FailureUnknown,
		Code:       string(pqErr.Code),
		Diagnostic: pqErr.Message,
	}
	if pqErr.Detail != "" {
		c.Diagnostic += ": " + pqErr.Detail
	}

	switch pqErr.Code.Class() {
	case "42": // syntax error or access rule violation
		c.Kind = domain.FailureSyntax
	case "22": // data exception
		c.Kind = domain.FailureSyntax
	case "23": // integrity constraint violation
		c.Kind = domain.FailureConstraint
	case "08": // connection exception
		c.Kind = domain.FailureConnectivity
	case "57":
		if pqErr.Code == "57014" { // query_canceled
			c.Kind = domain.FailureCanceled
		} else {
			c.Kind = domain.FailureConnectivity
		}
	}
	return c, true
}
