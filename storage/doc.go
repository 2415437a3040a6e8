// Package storage keeps a tsd document in sync between memory, a local
// cache and a remote file.
//
// # Sync
//
// [Storage.Sync] fetches the remote file, merges it with the in-memory
// document and the cache, uploads the result using the SHA from the fetch
// and writes the result to the cache. When the remote cannot be read the
// cached copy is used instead and the status becomes [Offline]. When there
// is no cached copy either the status becomes [NoData] and Sync fails with
// [ErrNoData].
//
// At most one sync runs at a time. A Sync call made while another is in
// flight fails at once with [ErrSyncInProgress] and schedules one more
// sync to run when the current one finishes. Any number of such calls
// schedule just one follow-up. A failed upload does not fail the sync; it
// schedules a retry the same way.
//
// # Autosync
//
// With autosync on, any change to the document schedules a sync in the
// background. Background syncs run until [Storage.Close].
//
// # Reconfiguration
//
// A Storage is bound to the location it was created with. After
// [Storage.SetLocation] every sync fails with [ErrReinitRequired], and a
// sync in progress stops before writing anything to the cache.
//
// # Thread Safety
//
// Storage methods are safe for concurrent use. The document is not: change
// it only within [Storage.Update] and read it within [Storage.View] while
// syncs may run.
package storage
