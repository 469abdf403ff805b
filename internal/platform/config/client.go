package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Token store backends.
const (
	TokenStoreMemory   = "memory"
	TokenStoreSQLite   = "sqlite"
	TokenStorePostgres = "postgres"
)

const (
	DefaultAPIURL   = "http://localhost:8000/api"
	DefaultTokenKey = "access_token"
)

// ClientConfig configures a planner client process (tripctl, webclient).
//
// Values come from an optional YAML file first, then environment variables.
type ClientConfig struct {
	APIURL      string        `yaml:"api_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	TokenStore     string `yaml:"token_store"`
	TokenStorePath string `yaml:"token_store_path"`
	DatabaseURL    string `yaml:"database_url"`
	TokenKey       string `yaml:"token_key"`

	SpeechLang string `yaml:"speech_lang"`
	PageSize   int    `yaml:"page_size"`
}

// DefaultClientConfig returns the configuration used when nothing is set.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		APIURL:     DefaultAPIURL,
		TokenStore: TokenStoreSQLite,
		TokenKey:   DefaultTokenKey,
		SpeechLang: "zh-CN",
	}
}

// ConfigFilePath returns the YAML file consulted by LoadClientConfigFromEnv.
// TRIPCTL_CONFIG wins; otherwise the user config dir is used. An empty result
// means no file location could be determined.
func ConfigFilePath() string {
	if p := strings.TrimSpace(os.Getenv("TRIPCTL_CONFIG")); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tripctl", "config.yaml")
}

func LoadClientConfigFromEnv() (ClientConfig, error) {
	cfg := DefaultClientConfig()

	if path := ConfigFilePath(); path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return ClientConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && os.Getenv("TRIPCTL_CONFIG") == "":
			// The default location is optional.
		default:
			return ClientConfig{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("PLANNER_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("PLANNER_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return ClientConfig{}, fmt.Errorf("PLANNER_HTTP_TIMEOUT must be a duration (e.g. 30s): %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if v := os.Getenv("TOKEN_STORE"); v != "" {
		cfg.TokenStore = v
	}
	if v := os.Getenv("TOKEN_STORE_PATH"); v != "" {
		cfg.TokenStorePath = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("TOKEN_KEY"); v != "" {
		cfg.TokenKey = v
	}
	if v := os.Getenv("SPEECH_LANG"); v != "" {
		cfg.SpeechLang = v
	}
	if v := os.Getenv("PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ClientConfig{}, fmt.Errorf("PAGE_SIZE must be an integer: %w", err)
		}
		cfg.PageSize = n
	}

	if cfg.TokenStore == TokenStoreSQLite && cfg.TokenStorePath == "" {
		cfg.TokenStorePath = defaultTokenStorePath()
	}

	if err := cfg.Validate(); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

// Validate checks the combination of settings.
func (c ClientConfig) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PLANNER_API_URL must be an absolute URL, got %q", c.APIURL)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("PLANNER_HTTP_TIMEOUT must not be negative")
	}
	if c.PageSize < 0 {
		return fmt.Errorf("PAGE_SIZE must not be negative")
	}
	if strings.TrimSpace(c.TokenKey) == "" {
		return fmt.Errorf("TOKEN_KEY must not be empty")
	}
	switch c.TokenStore {
	case TokenStoreMemory:
	case TokenStoreSQLite:
		if c.TokenStorePath == "" {
			return fmt.Errorf("TOKEN_STORE=sqlite requires TOKEN_STORE_PATH")
		}
	case TokenStorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("TOKEN_STORE=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("TOKEN_STORE must be one of memory, sqlite, postgres, got %q", c.TokenStore)
	}
	return nil
}

func defaultTokenStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tripctl-tokens.db"
	}
	return filepath.Join(dir, "tripctl", "tokens.db")
}
