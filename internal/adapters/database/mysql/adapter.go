// Package mysql registers the MySQL dialect backed by go-sql-driver/mysql.
package mysql

import (
	"errors"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/satishbabariya/safequery/internal/adapters/database"
	"github.com/satishbabariya/safequery/internal/core/query/domain"
	"github.com/satishbabariya/safequery/internal/core/query/placeholder"
	"github.com/satishbabariya/safequery/internal/debug"
)

// Dialect is the MySQL dialect.
var Dialect = database.Dialect{
	Name:           database.MySQL,
	Aliases:        []string{"mariadb"},
	Driver:         "mysql",
	Placeholder:    placeholder.Question,
	VersionQuery:   "SELECT VERSION()",
	MinVersion:     "5.7.0",
	ClassifyDriver: Classify,
	Tune:           tune,
}

func init() {
	database.Register(Dialect)
}

// tune normalises the DSN so DATETIME columns scan as time.Time.
func tune(cfg *database.Config) {
	dsn, err := mysql.ParseDSN(cfg.URL)
	if err != nil {
		debug.Warn("mysql dsn not tuned, DATETIME columns scan as []byte", "error", err)
		return
	}
	dsn.ParseTime = true
	cfg.URL = dsn.FormatDSN()
}

// Server error numbers, see the MySQL server error reference.
const (
	erParseError       = 1064
	erNoSuchTable      = 1146
	erBadFieldError    = 1054
	erDupEntry         = 1062
	erRowIsReferenced  = 1451
	erNoReferencedRow  = 1452
	erBadNullError     = 1048
	erCheckConstraint  = 3819
	erQueryInterrupted = 1317
	erLockWaitTimeout  = 1205
	erServerShutdown   = 1053
	erAccessDenied     = 1045
)

// Classify maps *mysql.MySQLError numbers and driver connection errors onto
// failure kinds.
func Classify(err error) (database.Classification, bool) {
	if errors.Is(err, mysql.ErrInvalidConn) {
		return database.Classification{Kind: domain.FailureConnectivity, Diagnostic: err.Error()}, true
	}

	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return database.Classification{}, false
	}

	c := database.Classification{
		Kind:       domain.FailureUnknown,
		Code:       strconv.Itoa(int(myErr.Number)),
		Diagnostic: myErr.Message,
	}

	switch myErr.Number {
	case erParseError, erNoSuchTable, erBadFieldError:
		c.Kind = domain.FailureSyntax
	case erDupEntry, erRowIsReferenced, erNoReferencedRow, erBadNullError, erCheckConstraint:
		c.Kind = domain.FailureConstraint
	case erQueryInterrupted, erLockWaitTimeout:
		c.Kind = domain.FailureCanceled
	case erServerShutdown, erAccessDenied:
		c.Kind = domain.FailureConnectivity
	}
	return c, true
}
