package remote

import "errors"

var (
	ErrNotFound  = errors.New("remote file not found")
	ErrConflict  = errors.New("remote file changed")
	ErrAuth      = errors.New("remote authentication failed")
	ErrTransport = errors.New("remote transport error")
	ErrContent   = errors.New("bad remote content")
)
