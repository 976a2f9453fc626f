package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"db-classify/internal/dialect"

	"github.com/microsoft/go-mssqldb/msdsn"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
// A DSN given by flag or environment wins over the config file list.
func GetActiveDBConfig() (*DBConfig, error) {
	if direct := viper.GetString("database.dsn"); direct != "" {
		return &DBConfig{Name: "command line", Driver: "sqlserver", DSN: direct, Active: true}, nil
	}

	var configs []DBConfig
	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0
	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true or pass --dsn)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}
	if activeConfig.Driver == "" {
		activeConfig.Driver = "sqlserver"
	}
	return activeConfig, nil
}

// openDB validates the active DSN and opens a pinged connection plus its dialect.
func openDB(ctx context.Context) (*sql.DB, dialect.Dialect, error) {
	config, err := GetActiveDBConfig()
	if err != nil {
		return nil, nil, err
	}
	d, err := dialect.GetDialect(config.Driver)
	if err != nil {
		return nil, nil, err
	}

	parsed, err := msdsn.Parse(config.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid dsn for %s: %w", config.Name, err)
	}

	db, err := sql.Open("sqlserver", config.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	log.Info().
		Str("name", config.Name).
		Str("host", parsed.Host).
		Str("database", parsed.Database).
		Msg("connected")
	return db, d, nil
}

// defaultSchema is the schema read from a live database.
func defaultSchema() string {
	return viper.GetString("settings.default_schema")
}
