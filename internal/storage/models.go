package storage

import (
	"time"
)

// Session is the browse criteria in effect when folio last exited.
type Session struct {
	Term    string    `json:"term"`
	Genre   string    `json:"genre"`
	SavedAt time.Time `json:"saved_at"`
}
