package github

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/tsd/remote"
)

// fakeGitHub serves the contents endpoints of a single repository.
type fakeGitHub struct {
	mu     sync.Mutex
	files  map[string][]byte
	bodies []updateRequest
	auth   []string
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	if r.Header.Get("Authorization") != "token secret" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Bad credentials"}`))
		return
	}
	const prefix = "/repos/o/r/contents/"
	switch {
	case r.URL.Path == "/user":
		w.Write([]byte(`{"login":"me","name":"Me"}`))
		return
	case r.URL.Path == "/repos/o/r":
		w.Write([]byte(`{"full_name":"o/r","default_branch":"main","private":true}`))
		return
	case len(r.URL.Path) <= len(prefix) || r.URL.Path[:len(prefix)] != prefix:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	name := r.URL.Path[len(prefix):]
	cur, exists := f.files[name]
	switch r.Method {
	case http.MethodGet:
		if r.URL.Query().Get("ref") != "main" || !exists {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		b64 := remote.EncodeContent(string(cur))
		wrapped := b64
		if len(b64) > 4 {
			wrapped = b64[:4] + "\n" + b64[4:] + "\n"
		}
		json.NewEncoder(w).Encode(map[string]any{
			"path":     name,
			"sha":      remote.BlobSHA(cur),
			"size":     len(cur),
			"content":  wrapped,
			"encoding": "base64",
		})
	case http.MethodPut, http.MethodDelete:
		d, _ := io.ReadAll(r.Body)
		req := updateRequest{}
		if err := json.Unmarshal(d, &req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.bodies = append(f.bodies, req)
		if (exists && req.SHA != remote.BlobSHA(cur)) || (!exists && req.SHA != "") {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":"sha does not match"}`))
			return
		}
		if r.Method == http.MethodDelete {
			delete(f.files, name)
			w.Write([]byte(`{}`))
			return
		}
		content, err := remote.DecodeContent(req.Content)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.files[name] = []byte(content)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}
}

func setup(t *testing.T) (*Client, *fakeGitHub, remote.Location) {
	f := &fakeGitHub{files: map[string][]byte{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	c := New()
	c.BaseURL = srv.URL
	c.Committer = &Committer{Name: "tsd", Email: "tsd@example.com"}
	loc := remote.Location{Token: "secret", Owner: "o", Repo: "r", Branch: "main", Path: "notes"}
	return c, f, loc
}

func TestClientContents(t *testing.T) {
	ctx := context.Background()
	c, f, loc := setup(t)
	if _, err := c.GetContentInfo(ctx, loc, remote.DataFile); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
	text := "a:{b:\"ü\"|1}"
	if err := c.UpdateFile(ctx, loc, remote.DataFile, remote.EncodeContent(text), ""); err != nil {
		t.Fatal(err)
	}
	info, err := c.GetContentInfo(ctx, loc, remote.DataFile)
	if err != nil {
		t.Fatal(err)
	}
	got, err := remote.DecodeContent(info.Content)
	if err != nil {
		t.Fatal(err)
	}
	if got != text || info.SHA != remote.BlobSHA([]byte(text)) || info.Path != "notes/data.tsd" {
		t.Errorf("got %q %+v", got, info)
	}
	if err := c.UpdateFile(ctx, loc, remote.DataFile, remote.EncodeContent("x:1"), "stale"); !errors.Is(err, remote.ErrConflict) {
		t.Errorf("got %v", err)
	}
	if err := c.UpdateFile(ctx, loc, remote.DataFile, remote.EncodeContent("x:1"), info.SHA); err != nil {
		t.Fatal(err)
	}
	want := []updateRequest{
		{Message: "create notes/data.tsd", Content: remote.EncodeContent(text), Branch: "main", Committer: c.Committer},
		{Message: "update notes/data.tsd", Content: remote.EncodeContent("x:1"), SHA: "stale", Branch: "main", Committer: c.Committer},
		{Message: "update notes/data.tsd", Content: remote.EncodeContent("x:1"), SHA: info.SHA, Branch: "main", Committer: c.Committer},
	}
	if diff := cmp.Diff(want, f.bodies); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
	if err := c.DeleteFile(ctx, loc, remote.DataFile, remote.BlobSHA([]byte("x:1"))); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetContentInfo(ctx, loc, remote.DataFile); !errors.Is(err, remote.ErrNotFound) {
		t.Errorf("got %v", err)
	}
}

func TestClientBranch(t *testing.T) {
	ctx := context.Background()
	c, f, loc := setup(t)
	f.files["notes/data.tsd"] = []byte("a:1")
	loc.Branch = "dev"
	if _, err := c.GetContentInfo(ctx, loc, remote.DataFile); !errors.Is(err, remote.ErrNotFound) {
		t.Errorf("got %v", err)
	}
}

func TestClientAuth(t *testing.T) {
	ctx := context.Background()
	c, _, loc := setup(t)
	loc.Token = "wrong"
	_, err := c.GetContentInfo(ctx, loc, remote.DataFile)
	if !errors.Is(err, remote.ErrAuth) {
		t.Errorf("got %v", err)
	}
}

func TestClientUserRepo(t *testing.T) {
	ctx := context.Background()
	c, _, loc := setup(t)
	u, err := c.User(ctx, loc)
	if err != nil {
		t.Fatal(err)
	}
	if u.Login != "me" {
		t.Errorf("got %+v", u)
	}
	r, err := c.Repo(ctx, loc)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&Repository{FullName: "o/r", DefaultBranch: "main", Private: true}, r); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestClientTransport(t *testing.T) {
	c := New()
	c.BaseURL = "http://127.0.0.1:1"
	_, err := c.GetContentInfo(context.Background(), remote.Location{Owner: "o", Repo: "r"}, remote.DataFile)
	if !errors.Is(err, remote.ErrTransport) {
		t.Errorf("got %v", err)
	}
}

func TestStatusErr(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{200, nil},
		{201, nil},
		{401, remote.ErrAuth},
		{403, remote.ErrAuth},
		{404, remote.ErrNotFound},
		{409, remote.ErrConflict},
		{422, remote.ErrConflict},
		{500, remote.ErrTransport},
	}
	for _, tc := range tests {
		err := statusErr(tc.code, []byte(`{"message":"m"}`))
		if tc.want == nil {
			if err != nil {
				t.Errorf("%d: got %v", tc.code, err)
			}
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Errorf("%d: got %v want %v", tc.code, err, tc.want)
		}
	}
}
