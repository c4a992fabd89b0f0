package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".dialdex"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML shape of the configuration file. All fields are
// optional; zero values leave the corresponding Config defaults in place.
//
//	endpoint: https://directory.example.gov/ContactDirectory.aspx
//	crawl_delay: 1s
//	timeout: 30s
//	user_agent: "Mozilla/5.0 ..."
//	reputation:
//	  endpoint: https://threatlist.example.com/v1/lookup
//	  token: "..."
type File struct {
	// Endpoint is the directory URL.
	Endpoint string `yaml:"endpoint"`

	// CrawlDelay is the pause between page requests (Go duration syntax).
	CrawlDelay time.Duration `yaml:"crawl_delay"`

	// Timeout is the per-request HTTP timeout (Go duration syntax).
	Timeout time.Duration `yaml:"timeout"`

	// UserAgent overrides the browser-like default.
	UserAgent string `yaml:"user_agent"`

	// Reputation configures the threat-list API client.
	Reputation ReputationConfig `yaml:"reputation"`
}

// ReputationConfig configures the threat-list lookup.
type ReputationConfig struct {
	// Endpoint is the threat-list API URL.
	Endpoint string `yaml:"endpoint"`

	// Token is the API bearer token. The DIALDEX_REPUTATION_TOKEN
	// environment variable takes precedence so the token can stay out
	// of the config file.
	Token string `yaml:"token"`
}

// LoadConfigFile loads configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// decide how to handle that based on whether the path was explicitly
// specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .dialdex in the current directory
//  3. Look for .dialdex in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply overlays the file values onto a Config. Zero values in the file
// leave the existing Config values untouched.
func (f *File) Apply(cfg *Config) {
	if f.Endpoint != "" {
		cfg.DirectoryEndpoint = f.Endpoint
	}
	if f.CrawlDelay > 0 {
		cfg.CrawlDelay = f.CrawlDelay
	}
	if f.Timeout > 0 {
		cfg.Timeout = f.Timeout
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.Reputation.Endpoint != "" {
		cfg.ReputationEndpoint = f.Reputation.Endpoint
	}
	if f.Reputation.Token != "" {
		cfg.ReputationToken = f.Reputation.Token
	}
}

// LoadReputationToken resolves the threat-list API token. An optional
// .env file in the working directory is loaded first (missing files are
// fine), then the environment variable takes precedence over whatever the
// config file carried.
func LoadReputationToken(cfg *Config) {
	// godotenv only populates variables that aren't already set, so an
	// exported variable always wins over the .env file.
	_ = godotenv.Load()

	if token := os.Getenv(EnvReputationToken); token != "" {
		cfg.ReputationToken = token
	}
}
