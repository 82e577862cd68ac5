package db

import (
	"context"
	"database/sql"

	"parliament-search/pkg/domain"
)

// DBProvider is an interface for database clients that provide access to a
// sql.DB handle.
type DBProvider interface {
	DB() *sql.DB
}

// Store is the write-and-check surface the ingestion pipeline depends on.
// Implementations must make UpsertSpeaker idempotent and InsertSpeech
// unique on the record's natural key.
type Store interface {
	// UpsertSpeaker inserts the identity if absent and reports whether a
	// row was created. Existing rows are never overwritten.
	UpsertSpeaker(ctx context.Context, id domain.SpeakerIdentity) (bool, error)

	// SpeechExists reports whether a speech with the natural key is already
	// stored. Queried before any costly full-text fetch.
	SpeechExists(ctx context.Context, naturalKey string) (bool, error)

	// InsertSpeech persists one record. A natural-key collision returns
	// ErrDuplicate; any other failure returns *WriteError and affects only
	// this record.
	InsertSpeech(ctx context.Context, rec *domain.SpeechRecord) error
}

// Reader is the read-only surface consumed by the downstream analysis
// process.
type Reader interface {
	// Speakers lists every stored identity, ordered by name.
	Speakers(ctx context.Context) ([]domain.SpeakerIdentity, error)

	// SpeechTexts returns all speech texts for one speaker, newest first.
	SpeechTexts(ctx context.Context, speakerID string) ([]domain.SpeechRecord, error)
}
