// Package config loads safequery settings from file, environment and
// dotenv files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/safequery/internal/adapters/database"
	"github.com/satishbabariya/safequery/internal/core/query/builder"
	"github.com/satishbabariya/safequery/internal/core/query/extractor"
)

// AppFs is the filesystem config files and dotenv files are read from.
var AppFs = afero.NewOsFs()

const (
	// FileName is the config file name without extension.
	FileName = ".safequery"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SAFEQUERY"
)

// Config holds the application configuration.
type Config struct {
	Database database.Config
	Server   ServerConfig
	Query    QueryConfig
	Executor ExecutorConfig
	Debug    bool
	LogJSON  bool

	// File is the config file that was read, if any.
	File string
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr string
}

// QueryConfig names the lookup statement and its request parameter.
type QueryConfig struct {
	Table        string
	Columns      []string
	FilterColumn string
	OrderBy      string
	Param        string
}

// Statement returns the builder statement described by q.
func (q QueryConfig) Statement() builder.Statement {
	return builder.Statement{
		Table:        q.Table,
		Columns:      append([]string(nil), q.Columns...),
		FilterColumn: q.FilterColumn,
		OrderBy:      q.OrderBy,
	}
}

// ExecutorConfig controls store call lifetime.
type ExecutorConfig struct {
	PropagateCancel bool
	Timeout         time.Duration
}

func setDefaults(v *viper.Viper) {
	db := database.DefaultConfig()
	stmt := builder.DefaultStatement()

	v.SetDefault("database.provider", db.Provider)
	v.SetDefault("database.url", db.URL)
	v.SetDefault("database.max_open_conns", db.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", db.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", db.ConnMaxLifetime)
	v.SetDefault("database.conn_max_idle_time", db.ConnMaxIdleTime)
	v.SetDefault("database.health_check_interval", db.HealthCheckInterval)
	v.SetDefault("database.connect_timeout", db.ConnectTimeout)

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("query.table", stmt.Table)
	v.SetDefault("query.columns", stmt.Columns)
	v.SetDefault("query.filter_column", stmt.FilterColumn)
	v.SetDefault("query.order_by", stmt.OrderBy)
	v.SetDefault("query.param", extractor.DefaultParam)

	v.SetDefault("executor.propagate_cancel", false)
	v.SetDefault("executor.timeout", time.Duration(0))

	v.SetDefault("debug", false)
	v.SetDefault("log_json", false)
}

// New returns a viper instance with defaults, search paths and environment
// bindings applied but nothing read yet.
func New() (*viper.Viper, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "safequery"))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, err
	}

	setDefaults(v)
	return v, nil
}

// Load reads dotenv files, the config file and the environment. When path
// is empty the standard locations are searched and a missing file is not an
// error.
func Load(path string) (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}

	v, err := New()
	if err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Database: database.Config{
			Provider:            v.GetString("database.provider"),
			URL:                 v.GetString("database.url"),
			MaxOpenConns:        v.GetInt("database.max_open_conns"),
			MaxIdleConns:        v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime:     v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime:     v.GetInt("database.conn_max_idle_time"),
			HealthCheckInterval: v.GetInt("database.health_check_interval"),
			ConnectTimeout:      v.GetInt("database.connect_timeout"),
		},
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		Query: QueryConfig{
			Table:        v.GetString("query.table"),
			Columns:      splitList(v.GetStringSlice("query.columns")),
			FilterColumn: v.GetString("query.filter_column"),
			OrderBy:      v.GetString("query.order_by"),
			Param:        v.GetString("query.param"),
		},
		Executor: ExecutorConfig{
			PropagateCancel: v.GetBool("executor.propagate_cancel"),
			Timeout:         v.GetDuration("executor.timeout"),
		},
		Debug:   v.GetBool("debug"),
		LogJSON: v.GetBool("log_json"),
		File:    v.ConfigFileUsed(),
	}
}

// Validate rejects settings that cannot describe a working setup.
func (c *Config) Validate() error {
	if _, err := database.Lookup(c.Database.Provider); err != nil {
		return err
	}
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if err := c.Query.Statement().Validate(); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if c.Query.Param == "" {
		return errors.New("query.param is required")
	}
	if err := builder.ValidateIdentifier(c.Query.Param); err != nil {
		return fmt.Errorf("query.param: %w", err)
	}
	if c.Executor.Timeout < 0 {
		return errors.New("executor.timeout must not be negative")
	}
	return nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(cfg *Config, path string) error {
	v, err := New()
	if err != nil {
		return err
	}

	v.Set("database.provider", cfg.Database.Provider)
	v.Set("database.url", cfg.Database.URL)
	v.Set("database.max_open_conns", cfg.Database.MaxOpenConns)
	v.Set("database.max_idle_conns", cfg.Database.MaxIdleConns)
	v.Set("database.conn_max_lifetime", cfg.Database.ConnMaxLifetime)
	v.Set("database.conn_max_idle_time", cfg.Database.ConnMaxIdleTime)
	v.Set("database.health_check_interval", cfg.Database.HealthCheckInterval)
	v.Set("database.connect_timeout", cfg.Database.ConnectTimeout)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("query.table", cfg.Query.Table)
	v.Set("query.columns", cfg.Query.Columns)
	v.Set("query.filter_column", cfg.Query.FilterColumn)
	v.Set("query.order_by", cfg.Query.OrderBy)
	v.Set("query.param", cfg.Query.Param)
	v.Set("executor.propagate_cancel", cfg.Executor.PropagateCancel)
	v.Set("executor.timeout", cfg.Executor.Timeout.String())
	v.Set("debug", cfg.Debug)
	v.Set("log_json", cfg.LogJSON)

	if err := AppFs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return v.WriteConfigAs(path)
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return FromViper(v)
}

// loadDotenv applies .env without overriding the process environment, then
// .env.local with override.
func loadDotenv() error {
	if err := applyDotenv(".env", false); err != nil {
		return err
	}
	return applyDotenv(".env.local", true)
}

func applyDotenv(name string, override bool) error {
	f, err := AppFs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	for k, val := range vars {
		if _, set := os.LookupEnv(k); set && !override {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return err
		}
	}
	return nil
}

// splitList accepts both YAML lists and comma separated strings.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
