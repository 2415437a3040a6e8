package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/signadot/tsd/debug"
	"github.com/signadot/tsd/encode"
	"github.com/signadot/tsd/ir"
	"github.com/signadot/tsd/parse"
	"github.com/signadot/tsd/remote"
)

// events collects callbacks to run once s.mu is released.
type events []func()

func (ev *events) add(f func()) {
	*ev = append(*ev, f)
}

func (ev *events) fire() {
	for _, f := range *ev {
		f()
	}
}

func (s *Storage) setStatusLocked(st Status, ev *events) {
	old := s.status
	s.status = st
	if old != st {
		s.log.Debug("status change", "from", old, "to", st)
	}
	if f := s.spec.OnStatusChange; f != nil {
		ev.add(func() { f(old, st) })
	}
}

func (s *Storage) syncedLocked(ev *events) {
	if f := s.spec.OnSynced; f != nil {
		doc := s.doc
		ev.add(func() { f(doc) })
	}
}

func encodeString(doc *ir.Element, wire bool) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(doc, buf, encode.EncodeWire(wire)); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Sync reconciles the document with the cache and the remote. With
// override the fetched remote document replaces the in-memory one instead
// of being merged into it; the cache is merged in either way.
//
// Sync returns the document on success, including when it could only be
// loaded from the cache.
func (s *Storage) Sync(ctx context.Context, override bool) (*ir.Element, error) {
	start := time.Now()
	doc, result, err := s.sync(ctx, override)
	s.metrics.sync(result, time.Since(start).Seconds())
	return doc, err
}

func (s *Storage) sync(ctx context.Context, override bool) (*ir.Element, string, error) {
	if s.isClosed() {
		return nil, resultError, ErrClosed
	}
	s.mu.Lock()
	if err := s.checkIdentityLocked(); err != nil {
		s.mu.Unlock()
		return nil, resultReinit, err
	}
	if s.doc != nil {
		cached, err := s.loadCacheLocked()
		if err == nil && cached != nil {
			s.doc.Merge(cached)
		}
		if err == nil {
			err = s.saveCacheLocked()
		}
		if err != nil {
			s.mu.Unlock()
			return nil, resultError, fmt.Errorf("cache: %w", err)
		}
	}
	if s.state != idle {
		s.state = inFlightQueued
		s.mu.Unlock()
		return nil, resultRejected, ErrSyncInProgress
	}
	s.state = inFlight
	loc := s.loc
	s.mu.Unlock()

	defer s.finish()

	if debug.Sync() {
		debug.Logf("sync %s override=%v\n", loc, override)
	}
	info, err := s.remote.GetContentInfo(ctx, loc, remote.DataFile)
	var fetched *ir.Element
	if err == nil {
		fetched, err = decodeRemote(info)
		if err != nil {
			s.log.Warn("unreadable remote document", "error", err)
		}
	}
	if err != nil {
		return s.fallback(err)
	}
	return s.online(ctx, loc, info, fetched, override)
}

func decodeRemote(info *remote.ContentInfo) (*ir.Element, error) {
	text, err := remote.DecodeContent(info.Content)
	if err != nil {
		return nil, err
	}
	return parse.ParseString(text)
}

// online finishes a sync whose fetch succeeded.
func (s *Storage) online(ctx context.Context, loc remote.Location, info *remote.ContentInfo, fetched *ir.Element, override bool) (*ir.Element, string, error) {
	var ev events
	defer ev.fire()

	s.mu.Lock()
	if err := s.checkIdentityLocked(); err != nil {
		s.mu.Unlock()
		return nil, resultReinit, err
	}
	if s.doc != nil && !override {
		changed := s.doc.Merge(fetched)
		if debug.Merge() {
			debug.Logf("merged remote, changed=%v:\n%s", changed, debug.Y{Element: s.doc})
		}
	} else {
		s.setDocLocked(fetched)
	}
	cached, err := s.loadCacheLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, resultError, fmt.Errorf("cache: %w", err)
	}
	if cached != nil {
		s.doc.Merge(cached)
	}
	hadLocalOnly := s.localOnly || s.dirty.Swap(false)
	s.localOnly = false
	text, err := encodeString(s.doc, false)
	if err != nil {
		s.localOnly = hadLocalOnly
		s.mu.Unlock()
		return nil, resultError, err
	}
	s.mu.Unlock()

	upErr := s.remote.UpdateFile(ctx, loc, remote.DataFile, remote.EncodeContent(text), info.SHA)

	s.mu.Lock()
	defer s.mu.Unlock()
	if upErr != nil {
		s.log.Warn("upload failed, will retry", "error", upErr)
		s.metrics.uploadFailed()
		s.localOnly = true
		s.retry = true
		s.state = inFlightQueued
		if f := s.spec.OnUploadFailed; f != nil {
			ev.add(func() { f(upErr) })
		}
	}
	if err := s.checkIdentityLocked(); err != nil {
		return nil, resultReinit, err
	}
	s.setStatusLocked(Online, &ev)
	if err := s.saveCacheLocked(); err != nil {
		return nil, resultError, fmt.Errorf("cache: %w", err)
	}
	s.syncedLocked(&ev)
	return s.doc, resultOnline, nil
}

// fallback finishes a sync whose fetch failed, from the cache.
func (s *Storage) fallback(fetchErr error) (*ir.Element, string, error) {
	var ev events
	defer ev.fire()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIdentityLocked(); err != nil {
		return nil, resultReinit, err
	}
	s.log.Info("unable to load remote data, switching to cache", "error", fetchErr)
	cached, err := s.loadCacheLocked()
	if err != nil {
		s.log.Warn("cache unavailable", "error", err)
		cached = nil
	}
	if cached == nil {
		if s.doc == nil {
			s.setStatusLocked(NoData, &ev)
		}
		return nil, resultNoData, fmt.Errorf("%w: %w", ErrNoData, fetchErr)
	}
	if s.doc == nil {
		s.setDocLocked(cached)
	} else {
		s.doc.Merge(cached)
	}
	s.setStatusLocked(Offline, &ev)
	s.syncedLocked(&ev)
	return s.doc, resultOffline, nil
}

// finish ends the sync in flight and starts the one queued meanwhile, if
// any.
func (s *Storage) finish() {
	s.mu.Lock()
	rerun := s.state == inFlightQueued
	s.state = idle
	var delay time.Duration
	if s.retry {
		delay = s.spec.RetryDelay
		s.retry = false
	}
	s.mu.Unlock()
	if rerun {
		s.background(delay)
	}
}

// Publish creates the remote file from the document. It fails with an
// error wrapping remote.ErrConflict when the file already exists; use
// Sync then.
func (s *Storage) Publish(ctx context.Context) error {
	s.mu.Lock()
	if err := s.checkIdentityLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.doc == nil {
		s.mu.Unlock()
		return ErrNoDocument
	}
	loc := s.loc
	dirty := s.dirty.Swap(false)
	text, err := encodeString(s.doc, false)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := s.remote.UpdateFile(ctx, loc, remote.DataFile, remote.EncodeContent(text), ""); err != nil {
		if dirty {
			s.dirty.Store(true)
		}
		return fmt.Errorf("publishing %s: %w", loc, err)
	}

	var ev events
	defer ev.fire()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIdentityLocked(); err != nil {
		return err
	}
	s.localOnly = false
	s.setStatusLocked(Online, &ev)
	return s.saveCacheLocked()
}
