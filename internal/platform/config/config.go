// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Storage backend identifiers accepted in STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the Lectern API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StorageBackend selects the article store implementation
	// (memory, sqlite or postgres).
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`

	// Relational Database (PostgreSQL). Required only when
	// STORAGE_BACKEND=postgres.
	DatabaseURL string `env:"DATABASE_URL"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `env:"SQLITE_PATH" envDefault:"./data/lectern.db"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). When empty, peer review summaries are
	// cached in process memory instead.
	RedisURL string `env:"REDIS_URL"`

	// Cryptographic keys for service token verification. The private key
	// is only needed by the token-issuing tooling.
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Upstream collaborators
	DocmapEndpoint   string `env:"DOCMAP_ENDPOINT"`
	CitationEndpoint string `env:"CITATION_ENDPOINT"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// Backend choices are validated here so a typo fails at boot, not on
	// the first request.
	switch cfg.StorageBackend {
	case BackendMemory, BackendSQLite, BackendPostgres:
	default:
		return nil, fmt.Errorf("config: unknown storage backend %q", cfg.StorageBackend)
	}
	if cfg.StorageBackend == BackendPostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required when STORAGE_BACKEND=postgres")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
