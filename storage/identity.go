package storage

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/signadot/tsd/remote"
)

const cacheKeyPrefix = "tsd_data_"

// Identity returns the identity of a remote location, which names its
// cache slot. Storages with equal locations share a slot.
func Identity(loc remote.Location) string {
	d := xxhash.New()
	for _, f := range []string{loc.Token, loc.Owner, loc.Repo, loc.Branch, loc.Path} {
		d.WriteString(f)
		d.Write([]byte{0})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// CacheKey returns the cache key of the document stored for loc.
func CacheKey(loc remote.Location) string {
	return cacheKeyPrefix + Identity(loc)
}
