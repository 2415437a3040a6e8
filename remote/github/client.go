// Package github implements [remote.Remote] with the GitHub contents REST
// API.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/signadot/tsd/debug"
	"github.com/signadot/tsd/remote"
)

const DefaultBaseURL = "https://api.github.com"

type Committer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Client struct {
	BaseURL   string
	HTTP      *http.Client
	Committer *Committer
	Log       *slog.Logger
}

// New returns a client for DefaultBaseURL with a 30 second timeout.
func New() *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Log:     slog.Default(),
	}
}

var _ remote.Remote = (*Client)(nil)

type contentResponse struct {
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Size     int    `json:"size"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type updateRequest struct {
	Message   string     `json:"message"`
	Content   string     `json:"content,omitempty"`
	SHA       string     `json:"sha,omitempty"`
	Branch    string     `json:"branch,omitempty"`
	Committer *Committer `json:"committer,omitempty"`
}

type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

type Repository struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
}

func contentsPath(loc remote.Location, file string) string {
	segs := strings.Split(loc.File(file), "/")
	for i := range segs {
		segs[i] = url.PathEscape(segs[i])
	}
	return "/repos/" + url.PathEscape(loc.Owner) + "/" + url.PathEscape(loc.Repo) +
		"/contents/" + strings.Join(segs, "/")
}

func (c *Client) GetContentInfo(ctx context.Context, loc remote.Location, file string) (*remote.ContentInfo, error) {
	p := contentsPath(loc, file)
	if loc.Branch != "" {
		p += "?ref=" + url.QueryEscape(loc.Branch)
	}
	res := &contentResponse{}
	if err := c.do(ctx, http.MethodGet, p, loc.Token, nil, res); err != nil {
		return nil, err
	}
	if res.Encoding != "" && res.Encoding != "base64" {
		return nil, fmt.Errorf("%w: unsupported encoding %q", remote.ErrContent, res.Encoding)
	}
	return &remote.ContentInfo{
		Path:    res.Path,
		Content: res.Content,
		SHA:     res.SHA,
		Size:    res.Size,
	}, nil
}

func (c *Client) UpdateFile(ctx context.Context, loc remote.Location, file, content, sha string) error {
	verb := "update "
	if sha == "" {
		verb = "create "
	}
	body := &updateRequest{
		Message:   verb + loc.File(file),
		Content:   content,
		SHA:       sha,
		Branch:    loc.Branch,
		Committer: c.Committer,
	}
	return c.do(ctx, http.MethodPut, contentsPath(loc, file), loc.Token, body, nil)
}

// DeleteFile deletes file, which must currently have the given SHA.
func (c *Client) DeleteFile(ctx context.Context, loc remote.Location, file, sha string) error {
	body := &updateRequest{
		Message:   "delete " + loc.File(file),
		SHA:       sha,
		Branch:    loc.Branch,
		Committer: c.Committer,
	}
	return c.do(ctx, http.MethodDelete, contentsPath(loc, file), loc.Token, body, nil)
}

// User returns the account owning the token of loc.
func (c *Client) User(ctx context.Context, loc remote.Location) (*User, error) {
	res := &User{}
	if err := c.do(ctx, http.MethodGet, "/user", loc.Token, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Repo(ctx context.Context, loc remote.Location) (*Repository, error) {
	res := &Repository{}
	p := "/repos/" + url.PathEscape(loc.Owner) + "/" + url.PathEscape(loc.Repo)
	if err := c.do(ctx, http.MethodGet, p, loc.Token, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, p, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		d, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(d)
	}
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimSuffix(base, "/")+p, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Cache-Control", "no-store")
	if token != "" {
		req.Header.Set("Authorization", "token "+token)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	if debug.HTTP() {
		debug.Logf("%s %s\n", method, req.URL)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", remote.ErrTransport, err)
	}
	defer resp.Body.Close()
	d, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", remote.ErrTransport, err)
	}
	if err := statusErr(resp.StatusCode, d); err != nil {
		c.logger().Debug("github request failed", "method", method, "path", p, "status", resp.StatusCode)
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(d, out); err != nil {
		return fmt.Errorf("%w: decoding response: %w", remote.ErrTransport, err)
	}
	return nil
}

func (c *Client) logger() *slog.Logger {
	if c.Log == nil {
		return slog.Default()
	}
	return c.Log
}

type apiError struct {
	Message string `json:"message"`
}

func statusErr(code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}
	ae := &apiError{}
	_ = json.Unmarshal(body, ae)
	msg := ae.Message
	if msg == "" {
		msg = http.StatusText(code)
	}
	var base error
	switch code {
	case http.StatusNotFound:
		base = remote.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		base = remote.ErrAuth
	case http.StatusConflict, http.StatusUnprocessableEntity:
		base = remote.ErrConflict
	default:
		base = remote.ErrTransport
	}
	return fmt.Errorf("%w: %d %s", base, code, msg)
}
