package storage

import "ev-value-index/models"

// ScoredWriter is the interface any backend persisting the scored snapshot must satisfy.
type ScoredWriter interface {
	WriteScored(records []models.ScoredRecord) error
	Close() error
}

// RawWriter is the interface for persisting fetched, unvalidated records.
type RawWriter interface {
	WriteRaw(records []models.RawRecord) error
	Close() error
}
