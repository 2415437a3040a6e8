// Package config reads the YAML file describing where a tsd document lives
// and how it is cached, and builds the storage from it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	RemoteGitHub = "github"
	RemoteDir    = "dir"

	CachePebble = "pebble"
	CacheSQLite = "sqlite"
	CacheMemory = "memory"
)

var ErrConfig = errors.New("invalid configuration")

type Config struct {
	Remote     Remote `yaml:"remote"`
	Cache      Cache  `yaml:"cache"`
	AutoSync   bool   `yaml:"autoSync,omitempty"`
	RetryDelay string `yaml:"retryDelay,omitempty"`
}

type Remote struct {
	Kind    string `yaml:"kind"`
	BaseURL string `yaml:"baseURL,omitempty"`
	Token   string `yaml:"token,omitempty"`
	// TokenEnv names the environment variable holding the token when Token
	// is empty.
	TokenEnv  string     `yaml:"tokenEnv,omitempty"`
	Owner     string     `yaml:"owner"`
	Repo      string     `yaml:"repo"`
	Branch    string     `yaml:"branch,omitempty"`
	Path      string     `yaml:"path"`
	Dir       string     `yaml:"dir,omitempty"`
	Committer *Committer `yaml:"committer,omitempty"`
}

type Committer struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type Cache struct {
	Kind string `yaml:"kind"`
	// Dir holds the pebble database or the sqlite file.
	Dir  string `yaml:"dir,omitempty"`
	Size int    `yaml:"size,omitempty"`
}

// Default returns a configuration for the main branch of a GitHub
// repository cached with pebble under the user cache directory.
func Default() *Config {
	cfg := &Config{
		Remote: Remote{
			Kind:     RemoteGitHub,
			Branch:   "main",
			TokenEnv: "GITHUB_TOKEN",
		},
		Cache: Cache{Kind: CachePebble},
	}
	if d, err := os.UserCacheDir(); err == nil {
		cfg.Cache.Dir = filepath.Join(d, "tsd")
	}
	return cfg
}

// Load reads the file at path over Default and validates the result.
func Load(path string) (*Config, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Parse(d []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(d, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Remote.Kind {
	case RemoteGitHub:
		if c.Remote.Owner == "" || c.Remote.Repo == "" {
			return fmt.Errorf("%w: github remote needs owner and repo", ErrConfig)
		}
	case RemoteDir:
		if c.Remote.Dir == "" {
			return fmt.Errorf("%w: dir remote needs dir", ErrConfig)
		}
	default:
		return fmt.Errorf("%w: unknown remote kind %q", ErrConfig, c.Remote.Kind)
	}
	if c.Remote.Path == "" {
		return fmt.Errorf("%w: remote path is required", ErrConfig)
	}
	if c.Remote.Branch == "" {
		return fmt.Errorf("%w: remote branch is required", ErrConfig)
	}
	switch c.Cache.Kind {
	case CacheMemory:
	case CachePebble, CacheSQLite:
		if c.Cache.Dir == "" {
			return fmt.Errorf("%w: %s cache needs dir", ErrConfig, c.Cache.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown cache kind %q", ErrConfig, c.Cache.Kind)
	}
	if _, err := c.retryDelay(); err != nil {
		return err
	}
	return nil
}

func (c *Config) retryDelay() (time.Duration, error) {
	if c.RetryDelay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RetryDelay)
	if err != nil {
		return 0, fmt.Errorf("%w: retryDelay: %w", ErrConfig, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: negative retryDelay %s", ErrConfig, d)
	}
	return d, nil
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
