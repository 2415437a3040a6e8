package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/signadot/tsd/cache"
	"github.com/signadot/tsd/remote"
	"github.com/signadot/tsd/remote/dir"
	"github.com/signadot/tsd/remote/github"
	"github.com/signadot/tsd/storage"
)

// Location returns the remote location, taking the token from the
// environment if the file has none.
func (c *Config) Location() remote.Location {
	tok := c.Remote.Token
	if tok == "" && c.Remote.TokenEnv != "" {
		tok = os.Getenv(c.Remote.TokenEnv)
	}
	return remote.Location{
		Token:  tok,
		Owner:  c.Remote.Owner,
		Repo:   c.Remote.Repo,
		Branch: c.Remote.Branch,
		Path:   c.Remote.Path,
	}
}

func (c *Config) NewRemote(log *slog.Logger) (remote.Remote, error) {
	switch c.Remote.Kind {
	case RemoteGitHub:
		gh := github.New()
		if c.Remote.BaseURL != "" {
			gh.BaseURL = c.Remote.BaseURL
		}
		if cm := c.Remote.Committer; cm != nil {
			gh.Committer = &github.Committer{Name: cm.Name, Email: cm.Email}
		}
		if log != nil {
			gh.Log = log
		}
		return gh, nil
	case RemoteDir:
		return dir.New(c.Remote.Dir), nil
	}
	return nil, fmt.Errorf("%w: unknown remote kind %q", ErrConfig, c.Remote.Kind)
}

// OpenCache opens the configured cache, creating its directory if needed.
func (c *Config) OpenCache() (cache.Store, error) {
	switch c.Cache.Kind {
	case CacheMemory:
		return cache.NewMemory(c.Cache.Size), nil
	case CachePebble:
		return cache.OpenPebble(filepath.Join(c.Cache.Dir, "pebble"))
	case CacheSQLite:
		if err := os.MkdirAll(c.Cache.Dir, 0o755); err != nil {
			return nil, err
		}
		return cache.OpenSQLite(filepath.Join(c.Cache.Dir, "cache.db"))
	}
	return nil, fmt.Errorf("%w: unknown cache kind %q", ErrConfig, c.Cache.Kind)
}

// Spec builds the storage spec. The caller owns the opened cache and
// closes it after the Storage.
func (c *Config) Spec(log *slog.Logger) (*storage.Spec, error) {
	delay, err := c.retryDelay()
	if err != nil {
		return nil, err
	}
	rem, err := c.NewRemote(log)
	if err != nil {
		return nil, err
	}
	store, err := c.OpenCache()
	if err != nil {
		return nil, fmt.Errorf("opening %s cache: %w", c.Cache.Kind, err)
	}
	return &storage.Spec{
		Remote:     rem,
		Location:   c.Location(),
		Cache:      store,
		AutoSync:   c.AutoSync,
		RetryDelay: delay,
		Log:        log,
	}, nil
}
