package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Parse bool
	Merge bool
	Sync  bool
	HTTP  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("TSD_DEBUG_PARSE")
	d.Merge = boolEnv("TSD_DEBUG_MERGE")
	d.Sync = boolEnv("TSD_DEBUG_SYNC")
	d.HTTP = boolEnv("TSD_DEBUG_HTTP")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Merge() bool {
	return d.Merge
}
func Sync() bool {
	return d.Sync
}
func HTTP() bool {
	return d.HTTP
}
