package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validConfig returns a Config that passes validation.
func validConfig() *Config {
	cfg := NewConfig()
	cfg.DirectoryEndpoint = "https://directory.example.gov/ContactDirectory.aspx"
	return cfg
}

// TestConfigValidate tests validation sentinels.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()
		if err := validConfig().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing endpoint", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		if err := cfg.Validate(); !errors.Is(err, ErrNoEndpoint) {
			t.Errorf("expected ErrNoEndpoint, got %v", err)
		}
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("negative crawl delay", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.CrawlDelay = -time.Second
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidCrawlDelay) {
			t.Errorf("expected ErrInvalidCrawlDelay, got %v", err)
		}
	})

	t.Run("negative max body size", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxBodySize = -1
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxBodySize) {
			t.Errorf("expected ErrInvalidMaxBodySize, got %v", err)
		}
	})

	t.Run("zero crawl delay is allowed", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.CrawlDelay = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestNewConfigDefaults tests the default values.
func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.CrawlDelay != DefaultCrawlDelay {
		t.Errorf("CrawlDelay = %v, want %v", cfg.CrawlDelay, DefaultCrawlDelay)
	}
	if cfg.UserAgent == "" {
		t.Error("expected a default user agent")
	}
	if filepath.Base(cfg.StorePath) != ContactStoreFile {
		t.Errorf("StorePath = %q, want a %s path", cfg.StorePath, ContactStoreFile)
	}
	if cfg.DirectoryEndpoint != "" {
		t.Errorf("endpoint must have no default, got %q", cfg.DirectoryEndpoint)
	}
}

// TestLoadConfigFile tests YAML loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads all fields", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `endpoint: https://directory.example.gov/ContactDirectory.aspx
crawl_delay: 2s
timeout: 45s
user_agent: "custom-agent"
reputation:
  endpoint: https://threatlist.example.com/v1/lookup
  token: file-token
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if cf.Endpoint != "https://directory.example.gov/ContactDirectory.aspx" {
			t.Errorf("unexpected endpoint %q", cf.Endpoint)
		}
		if cf.CrawlDelay != 2*time.Second || cf.Timeout != 45*time.Second {
			t.Errorf("unexpected durations: delay %v, timeout %v", cf.CrawlDelay, cf.Timeout)
		}
		if cf.Reputation.Token != "file-token" {
			t.Errorf("unexpected token %q", cf.Reputation.Token)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("endpoint: [broken"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

// TestFileApply tests the file-over-defaults overlay.
func TestFileApply(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cf := &File{
		Endpoint:   "https://directory.example.gov/ContactDirectory.aspx",
		CrawlDelay: 3 * time.Second,
	}
	cf.Apply(cfg)

	if cfg.DirectoryEndpoint != cf.Endpoint {
		t.Errorf("endpoint not applied: %q", cfg.DirectoryEndpoint)
	}
	if cfg.CrawlDelay != 3*time.Second {
		t.Errorf("crawl delay not applied: %v", cfg.CrawlDelay)
	}
	// Zero fields must not clobber defaults.
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("timeout clobbered: %v", cfg.Timeout)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("user agent clobbered: %q", cfg.UserAgent)
	}
}

// TestFindConfigFile tests the explicit-path branch.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("endpoint: x"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile = %q, want %q", got, path)
		}
	})

	t.Run("explicit missing path yields empty", func(t *testing.T) {
		t.Parallel()
		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing")); got != "" {
			t.Errorf("expected empty result, got %q", got)
		}
	})
}

// TestLoadReputationToken tests environment precedence.
func TestLoadReputationToken(t *testing.T) {
	// Mutates process environment; not parallel.
	cfg := NewConfig()
	cfg.ReputationToken = "from-file"

	t.Setenv(EnvReputationToken, "from-env")
	LoadReputationToken(cfg)
	if cfg.ReputationToken != "from-env" {
		t.Errorf("expected environment token to win, got %q", cfg.ReputationToken)
	}

	t.Setenv(EnvReputationToken, "")
	cfg.ReputationToken = "from-file"
	LoadReputationToken(cfg)
	if cfg.ReputationToken != "from-file" {
		t.Errorf("expected file token to survive empty env, got %q", cfg.ReputationToken)
	}
}
