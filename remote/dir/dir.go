// Package dir implements [remote.Remote] on a local directory tree.
//
// Files live at <root>/<owner>/<repo>/<branch>/<path>/<file>. Identities are
// git blob SHAs, as with GitHub, and writes are atomic renames.
package dir

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/signadot/tsd/remote"

	"github.com/natefinch/atomic"
)

type Dir struct {
	root string
	mu   sync.Mutex
}

var _ remote.Remote = (*Dir)(nil)

func New(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) filePath(loc remote.Location, file string) string {
	parts := []string{d.root}
	for _, p := range []string{loc.Owner, loc.Repo, loc.Branch} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, filepath.FromSlash(loc.File(file)))
	return filepath.Join(parts...)
}

func (d *Dir) read(p string) ([]byte, bool, error) {
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", remote.ErrTransport, err)
	}
	return data, true, nil
}

func (d *Dir) GetContentInfo(ctx context.Context, loc remote.Location, file string) (*remote.ContentInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok, err := d.read(d.filePath(loc, file))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", remote.ErrNotFound, loc.File(file))
	}
	return &remote.ContentInfo{
		Path:    loc.File(file),
		Content: remote.EncodeContent(string(data)),
		SHA:     remote.BlobSHA(data),
		Size:    len(data),
	}, nil
}

func (d *Dir) UpdateFile(ctx context.Context, loc remote.Location, file, content, sha string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text, err := remote.DecodeContent(content)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.filePath(loc, file)
	cur, exists, err := d.read(p)
	if err != nil {
		return err
	}
	switch {
	case !exists && sha != "":
		return fmt.Errorf("%w: %s", remote.ErrNotFound, loc.File(file))
	case exists && sha != remote.BlobSHA(cur):
		return fmt.Errorf("%w: %s", remote.ErrConflict, loc.File(file))
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("%w: %w", remote.ErrTransport, err)
	}
	if err := atomic.WriteFile(p, strings.NewReader(text)); err != nil {
		return fmt.Errorf("%w: %w", remote.ErrTransport, err)
	}
	return nil
}
