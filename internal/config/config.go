// Package config provides functionality for managing configuration options
// for the application using command-line flags, an optional JSON file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Supported storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"server_address"`

	// Storage selects the store backend: memory, postgres or sqlite.
	Storage string `json:"storage"`

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string `json:"database_dsn"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `json:"sqlite_path"`

	// JWTSecret signs and verifies bearer tokens.
	JWTSecret string `json:"jwt_secret"`

	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration `json:"-"`

	// BcryptCost is the work factor used for password hashes.
	BcryptCost int `json:"bcrypt_cost"`

	// LogLevel is the minimal zap level written to the log.
	LogLevel string `json:"log_level"`

	// AuthRequired enables bearer-token enforcement on note and user routes.
	AuthRequired bool `json:"auth_required"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// fileOptions mirrors the JSON config file. Durations are written as
// strings ("24h") there.
type fileOptions struct {
	*Options
	TokenTTL string `json:"token_ttl"`
}

// Parse parses the process command line and environment. It exits the
// process on invalid configuration.
func Parse() *Options {
	opts, err := ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return opts
}

// ParseArgs builds Options from defaults, args, the optional JSON config
// file and environment variables, in that order of precedence (later wins).
func ParseArgs(args []string) (*Options, error) {
	options := &Options{}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&options.Storage, "s", StorageMemory, "storage backend: memory | postgres | sqlite")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.SQLitePath, "sqlite", "notes.db", "sqlite database file")
	fs.StringVar(&options.JWTSecret, "k", "", "jwt signing secret")
	fs.DurationVar(&options.TokenTTL, "ttl", 24*time.Hour, "token lifetime")
	fs.IntVar(&options.BcryptCost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	fs.StringVar(&options.LogLevel, "l", "info", "log level")
	fs.BoolVar(&options.AuthRequired, "auth", true, "require bearer token on note and user routes")
	fs.StringVar(&options.TLSCert, "tls-cert", "", "path to TLS certificate")
	fs.StringVar(&options.TLSKey, "tls-key", "", "path to TLS key")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			if err := loadFile(options.Config, options); err != nil {
				return nil, err
			}
		}
	}

	if err := applyEnv(options); err != nil {
		return nil, err
	}

	if err := options.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}

func loadFile(path string, options *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	fo := fileOptions{Options: options}
	if err := json.Unmarshal(data, &fo); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	if fo.TokenTTL != "" {
		ttl, err := time.ParseDuration(fo.TokenTTL)
		if err != nil {
			return fmt.Errorf("error while parsing token_ttl: %w", err)
		}
		options.TokenTTL = ttl
	}
	return nil
}

func applyEnv(options *Options) error {
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		options.Port = v
	}
	if v := os.Getenv("STORAGE"); v != "" {
		options.Storage = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		options.DatabaseDSN = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		options.SQLitePath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		options.JWTSecret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		options.LogLevel = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse TOKEN_TTL: %w", err)
		}
		options.TokenTTL = ttl
	}
	if v := os.Getenv("AUTH_REQUIRED"); v != "" {
		required, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse AUTH_REQUIRED: %w", err)
		}
		options.AuthRequired = required
	}
	return nil
}

// Validate reports configuration that cannot produce a working server.
func (o *Options) Validate() error {
	switch o.Storage {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if o.DatabaseDSN == "" {
			return errors.New("postgres storage requires a database DSN")
		}
	default:
		return fmt.Errorf("unknown storage %q", o.Storage)
	}
	if o.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	if o.BcryptCost < bcrypt.MinCost || o.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost %d out of range", o.BcryptCost)
	}
	if (o.TLSCert == "") != (o.TLSKey == "") {
		return errors.New("tls cert and key must be set together")
	}
	return nil
}
