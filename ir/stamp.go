package ir

import (
	"cmp"
	"strconv"
	"time"
)

// Stamp is a last-modified time with millisecond precision. The zero Stamp
// means the element was never modified.
type Stamp struct {
	ms    int64
	valid bool
}

var now = time.Now

func StampMillis(ms int64) Stamp {
	return Stamp{ms: ms, valid: true}
}

func StampOf(t time.Time) Stamp {
	return StampMillis(t.UnixMilli())
}

func (s Stamp) IsZero() bool {
	return !s.valid
}

func (s Stamp) Millis() int64 {
	return s.ms
}

func (s Stamp) Time() time.Time {
	if !s.valid {
		return time.Time{}
	}
	return time.UnixMilli(s.ms)
}

// Compare orders stamps with the zero Stamp first.
func (s Stamp) Compare(o Stamp) int {
	switch {
	case s.valid && o.valid:
		return cmp.Compare(s.ms, o.ms)
	case s.valid:
		return 1
	case o.valid:
		return -1
	}
	return 0
}

func (s Stamp) String() string {
	if !s.valid {
		return "null"
	}
	return strconv.FormatInt(s.ms, 10)
}

// next returns the stamp for a mutation made now on an element last
// stamped s. It never goes backwards.
func (s Stamp) next() Stamp {
	t := StampOf(now())
	if s.valid && t.ms <= s.ms {
		t.ms = s.ms + 1
	}
	return t
}
