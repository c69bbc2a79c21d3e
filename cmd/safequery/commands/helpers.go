package commands

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const redacted = "xxxxx"

var (
	keyValueDSN      = regexp.MustCompile(`^\s*[A-Za-z_]+\s*=`)
	keyValuePassword = regexp.MustCompile(`(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|\S+)`)
	queryPassword    = regexp.MustCompile(`(^|&)password=[^&]*`)
)

// redact hides the password in URL, key/value and MySQL style DSNs.
func redact(dsn string) string {
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		u.RawQuery = queryPassword.ReplaceAllString(u.RawQuery, "${1}password="+redacted)
		return u.Redacted()
	}
	if keyValueDSN.MatchString(dsn) {
		return keyValuePassword.ReplaceAllString(dsn, "${1}"+redacted)
	}
	if cfg, err := mysql.ParseDSN(dsn); err == nil && cfg.Passwd != "" {
		cfg.Passwd = redacted
		return cfg.FormatDSN()
	}
	return dsn
}
