package store

import "time"

// SlotInfo describes a stored slot without its payload.
type SlotInfo struct {
	Key       string
	Size      int
	UpdatedAt time.Time
}

// Backup is a copy of a slot payload taken before it was overwritten.
type Backup struct {
	ID        int64
	SlotKey   string
	Data      []byte
	Reason    string
	CreatedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}
