package remote

import (
	"context"
	"path"
	"strings"
)

// DataFile is the name of the document file under a Location's Path.
const DataFile = "data.tsd"

// Location addresses a directory in a branch of a hosted repository.
type Location struct {
	Token  string
	Owner  string
	Repo   string
	Branch string
	Path   string
}

// File returns the repository path of name under l.Path.
func (l Location) File(name string) string {
	return strings.TrimPrefix(path.Join(l.Path, name), "/")
}

// String describes l without its token.
func (l Location) String() string {
	return l.Owner + "/" + l.Repo + "@" + l.Branch + ":" + l.File(DataFile)
}

type ContentInfo struct {
	Path string
	// Content is base64 encoded, possibly with line breaks.
	Content string
	SHA     string
	Size    int
}

type Remote interface {
	GetContentInfo(ctx context.Context, loc Location, file string) (*ContentInfo, error)
	// UpdateFile replaces file with the base64 encoded content. sha must be
	// the current SHA of the file, or empty to create it.
	UpdateFile(ctx context.Context, loc Location, file, content, sha string) error
}
