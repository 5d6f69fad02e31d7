// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"port"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// BcryptCost is the work factor for password hashing. It is read once
	// at startup and never changed afterwards.
	BcryptCost int `json:"bcrypt_cost"`

	// LogLevel is the minimum zap level to emit.
	LogLevel string `json:"log_level"`

	// CORSOrigins lists origins allowed to call the API. Empty allows any.
	CORSOrigins []string `json:"cors_origins"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// CleanupInterval is how often comments of deleted posts are purged.
	CleanupInterval Duration `json:"cleanup_interval"`
}

// Duration is a time.Duration that reads "90s"-style strings from JSON.
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts either a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

const defaultOrigin = "http://localhost:3000"

// options holds the current configuration values.
var options = &Options{}

var corsOrigins string

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	flag.IntVar(&options.BcryptCost, "bcrypt-cost", bcrypt.DefaultCost, "bcrypt work factor")
	flag.StringVar(&options.LogLevel, "log-level", "info", "log level")
	flag.StringVar(&corsOrigins, "cors", defaultOrigin, "comma-separated allowed CORS origins")
	flag.StringVar(&options.TLSCert, "tls-cert", "", "path to TLS certificate")
	flag.StringVar(&options.TLSKey, "tls-key", "", "path to TLS private key")
	flag.DurationVar(&options.CleanupInterval.Duration, "cleanup-interval", time.Hour, "orphan comment cleanup interval")
}

// Parse parses the command-line flags, the config file and environment
// variables to set configuration values, in that order of precedence
// (environment wins). It returns a pointer to the Options struct.
func Parse() *Options {
	flag.Parse()
	options.CORSOrigins = splitList(corsOrigins)

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if err := LoadFile(options.Config, options); err != nil {
		log.Fatalf("error while loading config file: %v", err)
	}

	if err := ApplyEnv(options, os.LookupEnv); err != nil {
		log.Fatalf("error while reading environment: %v", err)
	}

	return options
}

// LoadFile merges the JSON file at path into opts. A missing file is not
// an error.
func LoadFile(path string, opts *Options) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, opts); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides opts with the environment variables found by lookup.
func ApplyEnv(opts *Options, lookup func(string) (string, bool)) error {
	if v, ok := lookup("SERVER_ADDRESS"); ok && v != "" {
		opts.Port = v
	}
	if v, ok := lookup("DATABASE_DSN"); ok && v != "" {
		opts.DatabaseDSN = v
	}
	if v, ok := lookup("BCRYPT_COST"); ok && v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		opts.BcryptCost = cost
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		opts.LogLevel = v
	}
	if v, ok := lookup("CORS_ORIGINS"); ok {
		opts.CORSOrigins = splitList(v)
	}
	if v, ok := lookup("TLS_CERT"); ok && v != "" {
		opts.TLSCert = v
	}
	if v, ok := lookup("TLS_KEY"); ok && v != "" {
		opts.TLSKey = v
	}
	if v, ok := lookup("CLEANUP_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CLEANUP_INTERVAL: %w", err)
		}
		opts.CleanupInterval.Duration = d
	}
	return nil
}

// TLSEnabled reports whether both certificate and key are configured.
func (o *Options) TLSEnabled() bool {
	return o.TLSCert != "" && o.TLSKey != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
