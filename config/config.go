// Package config loads importer settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all importer configuration.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// ExportPath is used when no path argument is given.
	ExportPath string
	BatchSize  int

	Debug        bool
	CreateTables bool
}

// New returns a viper instance with .env loaded and defaults applied.
// Callers may bind command flags into it before calling Load.
func New() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("DB_USER", "marathon")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "marathon")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("EXPORT_PATH", "marathon_export.json")
	v.SetDefault("BATCH_SIZE", 500)
	v.SetDefault("DEBUG", false)
	v.SetDefault("CREATE_TABLES", false)
	return v
}

// Load builds a Config from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	pass := v.GetString("DB_PASSWORD")
	if pass == "" {
		// DB_PASS keeps older env files working.
		pass = v.GetString("DB_PASS")
	}

	cfg := &Config{
		DatabaseURL:  strings.TrimSpace(v.GetString("DATABASE_URL")),
		DBUser:       v.GetString("DB_USER"),
		DBPass:       pass,
		DBHost:       v.GetString("DB_HOST"),
		DBPort:       v.GetString("DB_PORT"),
		DBName:       v.GetString("DB_NAME"),
		DBSSLMode:    v.GetString("DB_SSLMODE"),
		ExportPath:   v.GetString("EXPORT_PATH"),
		BatchSize:    v.GetInt("BATCH_SIZE"),
		Debug:        v.GetBool("DEBUG"),
		CreateTables: v.GetBool("CREATE_TABLES"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that would make a run impossible.
func (c *Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("config: BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	if c.DatabaseURL != "" {
		return nil
	}
	if c.DBHost == "" || c.DBName == "" {
		return errors.New("config: DATABASE_URL or DB_HOST and DB_NAME must be set")
	}
	return nil
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}
