// Package remote defines the remote side of document storage: a hosted
// repository addressed by a [Location], holding files whose content is
// exchanged base64 encoded and versioned by its git blob SHA.
//
// The SHA returned with a file's content is an optimistic concurrency
// token. UpdateFile with a SHA which is no longer current fails with
// [ErrConflict] instead of overwriting.
package remote
