package storage

import (
	"errors"
	"time"
)

// ErrNoRecord is returned by ReadRecord when nothing has been stored yet.
var ErrNoRecord = errors.New("no config record stored")

// Provider is a persistence device holding one fixed-size config record.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Record
	ReadRecord() ([]byte, error)
	WriteRecord(data []byte) error

	// Utils
	GetConfigPath() string
}

// Revision is one historical write of the record.
type Revision struct {
	ID      string
	Record  []byte
	SavedAt time.Time
}

// Historian is implemented by providers that keep every written revision.
type Historian interface {
	History(limit int) ([]Revision, error)
}
