package cache

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

// Pebble is a Store on a pebble database. Every Set is synced to disk.
type Pebble struct {
	db *pebble.DB
}

// OpenPebble opens or creates the database in dir.
func OpenPebble(dir string) (*Pebble, error) {
	opts := pebble.Options{}
	db, err := pebble.Open(dir, &opts)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", dir, err)
	}
	return &Pebble{db: db}, nil
}

func (p *Pebble) Get(key string) ([]byte, bool, error) {
	v, closer, err := p.db.Get([]byte(key))
	if closer != nil {
		defer closer.Close()
	}
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return append([]byte(nil), v...), true, nil
}

func (p *Pebble) Set(key string, value []byte) error {
	return p.db.Set([]byte(key), value, pebble.Sync)
}

func (p *Pebble) Close() error {
	return p.db.Close()
}

// DB returns the underlying database, for metrics collection.
func (p *Pebble) DB() *pebble.DB {
	return p.db
}
