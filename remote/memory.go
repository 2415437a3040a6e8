package remote

import (
	"context"
	"sync"
)

// Memory is a Remote holding files in memory, keyed by Location.String
// of the directory and file name. Faults can be injected per operation.
type Memory struct {
	mu        sync.Mutex
	files     map[string][]byte
	getErr    error
	updateErr error
	gets      int
	updates   int
}

func NewMemory() *Memory {
	return &Memory{files: map[string][]byte{}}
}

func memKey(loc Location, file string) string {
	return loc.Owner + "/" + loc.Repo + "@" + loc.Branch + ":" + loc.File(file)
}

// FailGet makes GetContentInfo return err until called again with nil.
func (m *Memory) FailGet(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

// FailUpdate makes UpdateFile return err until called again with nil.
func (m *Memory) FailUpdate(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateErr = err
}

// Put stores content as is, bypassing the SHA check.
func (m *Memory) Put(loc Location, file string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[memKey(loc, file)] = append([]byte(nil), content...)
}

// Content returns the current content of file.
func (m *Memory) Content(loc Location, file string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.files[memKey(loc, file)]
	return d, ok
}

// Calls returns the number of GetContentInfo and UpdateFile calls.
func (m *Memory) Calls() (gets, updates int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets, m.updates
}

func (m *Memory) GetContentInfo(ctx context.Context, loc Location, file string) (*ContentInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, ok := m.files[memKey(loc, file)]
	if !ok {
		return nil, ErrNotFound
	}
	return &ContentInfo{
		Path:    loc.File(file),
		Content: EncodeContent(string(d)),
		SHA:     BlobSHA(d),
		Size:    len(d),
	}, nil
}

func (m *Memory) UpdateFile(ctx context.Context, loc Location, file, content, sha string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if m.updateErr != nil {
		return m.updateErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	d, err := DecodeContent(content)
	if err != nil {
		return err
	}
	k := memKey(loc, file)
	cur, exists := m.files[k]
	if err := checkSHA(cur, exists, sha); err != nil {
		return err
	}
	m.files[k] = []byte(d)
	return nil
}

// checkSHA applies the optimistic concurrency rule of UpdateFile.
func checkSHA(cur []byte, exists bool, sha string) error {
	switch {
	case !exists && sha != "":
		return ErrNotFound
	case exists && sha != BlobSHA(cur):
		return ErrConflict
	}
	return nil
}
