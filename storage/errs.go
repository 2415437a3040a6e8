package storage

import "errors"

var (
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrReinitRequired = errors.New("remote configuration has changed, reinitialisation required")
	ErrNoData         = errors.New("no data in cache")
	ErrNoDocument     = errors.New("no document loaded")
	ErrClosed         = errors.New("storage closed")
)
