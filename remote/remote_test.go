package remote

import (
	"context"
	"errors"
	"testing"
)

func TestContentRoundTrip(t *testing.T) {
	for _, s := range []string{"", "ascii", "ünïcødé ✓ 𝄞", "a:{b:\"1\"|100}\n"} {
		got, err := DecodeContent(EncodeContent(s))
		if err != nil {
			t.Fatalf("%q: %v", s, err)
		}
		if got != s {
			t.Errorf("got %q want %q", got, s)
		}
	}
}

func TestDecodeContentWrapped(t *testing.T) {
	got, err := DecodeContent("aGVs\nbG8g\r\nd29y bGQ=\n")
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello world" {
		t.Errorf("got %q", got)
	}
}

func TestDecodeContentErrors(t *testing.T) {
	if _, err := DecodeContent("!!!"); !errors.Is(err, ErrContent) {
		t.Errorf("got %v", err)
	}
	if _, err := DecodeContent(EncodeContent("\xff\xfe")); !errors.Is(err, ErrContent) {
		t.Errorf("got %v", err)
	}
}

func TestBlobSHA(t *testing.T) {
	// git hash-object of "hello world\n"
	if got := BlobSHA([]byte("hello world\n")); got != "3b18e512dba79e4c8300dd08aeb37f8e728b8dad" {
		t.Errorf("got %s", got)
	}
	// the empty blob
	if got := BlobSHA(nil); got != "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391" {
		t.Errorf("got %s", got)
	}
}

func TestLocationFile(t *testing.T) {
	tests := []struct {
		path, want string
	}{
		{"", "data.tsd"},
		{"docs", "docs/data.tsd"},
		{"/docs/", "docs/data.tsd"},
		{"a/b", "a/b/data.tsd"},
	}
	for _, tc := range tests {
		loc := Location{Path: tc.path}
		if got := loc.File(DataFile); got != tc.want {
			t.Errorf("%q: got %q", tc.path, got)
		}
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	loc := Location{Owner: "o", Repo: "r", Branch: "main", Path: "p"}
	if _, err := m.GetContentInfo(ctx, loc, DataFile); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v", err)
	}
	if err := m.UpdateFile(ctx, loc, DataFile, EncodeContent("v1"), ""); err != nil {
		t.Fatal(err)
	}
	info, err := m.GetContentInfo(ctx, loc, DataFile)
	if err != nil {
		t.Fatal(err)
	}
	if info.SHA != BlobSHA([]byte("v1")) || info.Path != "p/data.tsd" {
		t.Errorf("bad info %+v", info)
	}
	if err := m.UpdateFile(ctx, loc, DataFile, EncodeContent("v2"), ""); !errors.Is(err, ErrConflict) {
		t.Errorf("create over existing: got %v", err)
	}
	if err := m.UpdateFile(ctx, loc, DataFile, EncodeContent("v2"), info.SHA); err != nil {
		t.Fatal(err)
	}
	if err := m.UpdateFile(ctx, loc, DataFile, EncodeContent("v3"), info.SHA); !errors.Is(err, ErrConflict) {
		t.Errorf("stale sha: got %v", err)
	}
	other := loc
	other.Branch = "dev"
	if _, err := m.GetContentInfo(ctx, other, DataFile); !errors.Is(err, ErrNotFound) {
		t.Errorf("branches not separated: %v", err)
	}
	m.FailGet(ErrTransport)
	if _, err := m.GetContentInfo(ctx, loc, DataFile); !errors.Is(err, ErrTransport) {
		t.Errorf("got %v", err)
	}
	gets, updates := m.Calls()
	if gets != 4 || updates != 4 {
		t.Errorf("got %d gets %d updates", gets, updates)
	}
}
