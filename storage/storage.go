package storage

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/signadot/tsd/cache"
	"github.com/signadot/tsd/ir"
	"github.com/signadot/tsd/parse"
	"github.com/signadot/tsd/remote"
)

// Spec holds what a Storage is built from.
type Spec struct {
	Remote   remote.Remote
	Location remote.Location
	Cache    cache.Store
	AutoSync bool

	// RetryDelay is waited before the sync retrying a failed upload.
	RetryDelay time.Duration

	// Callbacks, all optional, are never called with internal locks held.
	OnStatusChange func(old, new Status)
	// OnSynced gets the live document. Read it through View or change it
	// through Update; background syncs merge into it.
	OnSynced       func(doc *ir.Element)
	OnUploadFailed func(err error)
	// OnError receives the errors of background syncs.
	OnError func(err error)

	Log     *slog.Logger
	Metrics *Metrics
}

type Storage struct {
	remote  remote.Remote
	cache   cache.Store
	spec    Spec
	log     *slog.Logger
	metrics *Metrics

	ctx    context.Context
	cancel context.CancelFunc
	bgMu   sync.Mutex
	bg     sync.WaitGroup
	closed bool

	autoSync atomic.Bool
	dirty    atomic.Bool

	mu        sync.Mutex
	id        string
	loc       remote.Location
	doc       *ir.Element
	unwatch   func()
	status    Status
	state     syncState
	retry     bool
	localOnly bool
}

// New creates a Storage for spec. Its identity is computed from
// spec.Location at once. Nothing is loaded until the first Sync.
func New(spec Spec) *Storage {
	log := spec.Log
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Storage{
		remote:  spec.Remote,
		cache:   spec.Cache,
		spec:    spec,
		log:     log.With("location", spec.Location.String()),
		metrics: spec.Metrics,
		ctx:     ctx,
		cancel:  cancel,
		id:      Identity(spec.Location),
		loc:     spec.Location,
		status:  NotLoaded,
	}
	s.autoSync.Store(spec.AutoSync)
	return s
}

// Close stops background syncs and waits for them to finish. The cache is
// not closed.
func (s *Storage) Close() error {
	s.bgMu.Lock()
	s.closed = true
	s.bgMu.Unlock()
	s.cancel()
	s.bg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unwatch != nil {
		s.unwatch()
		s.unwatch = nil
	}
	return nil
}

func (s *Storage) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Document returns the current document, nil before any successful sync.
// It is the live tree which syncs merge into: use View and Update to
// access it while a Storage may sync in the background.
func (s *Storage) Document() *ir.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// HasLocalOnlyChanges reports whether the document has changes which did
// not reach the remote.
func (s *Storage) HasLocalOnlyChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localOnly || s.dirty.Load()
}

func (s *Storage) SetAutoSync(v bool) {
	s.autoSync.Store(v)
}

// Identity returns the identity the Storage was created with.
func (s *Storage) Identity() string {
	return s.id
}

// SetLocation changes the remote location. The Storage keeps its
// identity, so from now on syncs fail with ErrReinitRequired.
func (s *Storage) SetLocation(loc remote.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loc = loc
}

// Update calls fn with the document while holding the lock which
// serializes it with syncs. Changes made by fn trigger autosync.
func (s *Storage) Update(fn func(doc *ir.Element) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNoDocument
	}
	return fn(s.doc)
}

// View calls fn with the document while holding the lock which serializes
// it with syncs. fn must not change the document.
func (s *Storage) View(fn func(doc *ir.Element) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNoDocument
	}
	return fn(s.doc)
}

// SetDocument replaces the document with doc and saves it to the cache.
// Nothing is uploaded until the next Sync or Publish.
func (s *Storage) SetDocument(doc *ir.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIdentityLocked(); err != nil {
		return err
	}
	s.setDocLocked(doc)
	s.localOnly = true
	return s.saveCacheLocked()
}

func (s *Storage) checkIdentityLocked() error {
	if Identity(s.loc) != s.id {
		return ErrReinitRequired
	}
	return nil
}

// setDocLocked makes doc the document, moving the change watch to it.
func (s *Storage) setDocLocked(doc *ir.Element) {
	if s.unwatch != nil {
		s.unwatch()
		s.unwatch = nil
	}
	s.doc = doc
	if doc != nil {
		s.unwatch = doc.Watch(s.changed)
	}
}

// changed is called on every change to the document, possibly with s.mu
// held.
func (s *Storage) changed(*ir.Element) {
	s.dirty.Store(true)
	if !s.autoSync.Load() {
		return
	}
	s.background(0)
}

func (s *Storage) isClosed() bool {
	s.bgMu.Lock()
	defer s.bgMu.Unlock()
	return s.closed
}

// background starts a sync on its own goroutine after delay, unless the
// Storage is closed.
func (s *Storage) background(delay time.Duration) {
	s.bgMu.Lock()
	defer s.bgMu.Unlock()
	if s.closed {
		return
	}
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		if delay > 0 {
			t := time.NewTimer(delay)
			defer t.Stop()
			select {
			case <-s.ctx.Done():
				return
			case <-t.C:
			}
		}
		_, err := s.Sync(s.ctx, false)
		switch {
		case err == nil:
		case errors.Is(err, ErrSyncInProgress), errors.Is(err, ErrClosed), errors.Is(err, context.Canceled):
		default:
			s.log.Debug("background sync failed", "error", err)
			if s.spec.OnError != nil {
				s.spec.OnError(err)
			}
		}
	}()
}

// loadCacheLocked returns the cached document, nil when there is none.
// Unreadable cache content counts as none.
func (s *Storage) loadCacheLocked() (*ir.Element, error) {
	d, ok, err := s.cache.Get(cacheKeyPrefix + s.id)
	if err != nil || !ok {
		return nil, err
	}
	doc, err := parse.Parse(d)
	if err != nil {
		s.log.Warn("ignoring unreadable cache", "error", err)
		return nil, nil
	}
	return doc, nil
}

func (s *Storage) saveCacheLocked() error {
	if s.doc == nil {
		return ErrNoDocument
	}
	text, err := encodeString(s.doc, true)
	if err != nil {
		return err
	}
	return s.cache.Set(cacheKeyPrefix+s.id, []byte(text))
}
