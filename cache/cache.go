// Package cache provides the local key-value side of document storage.
//
// A Store maps string keys to byte values. Writes are durable when Set
// returns, for the stores which persist at all.
package cache

import "errors"

var ErrClosed = errors.New("cache closed")

type Store interface {
	// Get returns the value stored under key. ok is false when there is
	// none.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Close() error
}
