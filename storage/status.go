package storage

type Status int

const (
	NotLoaded Status = iota
	Online
	Offline
	NoData
)

func (s Status) String() string {
	switch s {
	case NotLoaded:
		return "not-loaded"
	case Online:
		return "online"
	case Offline:
		return "offline"
	case NoData:
		return "no-data"
	}
	return "unknown"
}

// syncState tracks the sync in flight. A sync requested while one is in
// flight moves inFlight to inFlightQueued; further requests leave it
// there.
type syncState int

const (
	idle syncState = iota
	inFlight
	inFlightQueued
)
