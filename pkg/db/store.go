package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parliament-search/pkg/domain"
)

// Two relations, append-only across runs: ingestion only adds rows, never
// rewrites existing text or identity fields.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS speakers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  party TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS speeches (
  natural_key TEXT PRIMARY KEY,
  speaker_id TEXT NOT NULL REFERENCES speakers(id),
  date TEXT NOT NULL DEFAULT '',
  time TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL DEFAULT '',
  doc_id TEXT NOT NULL DEFAULT '',
  doc_title TEXT NOT NULL DEFAULT '',
  text TEXT NOT NULL DEFAULT '',
  source_url TEXT NOT NULL DEFAULT '',
  ingested_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// SpeechStore implements Store and Reader over a relational handle.
type SpeechStore struct {
	pg DBProvider
}

// NewSpeechStore wraps a connected database client.
func NewSpeechStore(pg DBProvider) *SpeechStore {
	return &SpeechStore{pg: pg}
}

// Init creates the speakers and speeches relations if absent. An error here
// aborts the run; nothing can proceed without the store.
func (s *SpeechStore) Init(ctx context.Context) error {
	if s.pg.DB() == nil {
		return fmt.Errorf("database not connected")
	}
	if _, err := s.pg.DB().ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("create speech schema: %w", err)
	}
	return nil
}

// UpsertSpeaker inserts the identity if it is not stored yet. Conflicting
// rows are left untouched, so the first-seen name and party stick.
func (s *SpeechStore) UpsertSpeaker(ctx context.Context, id domain.SpeakerIdentity) (bool, error) {
	res, err := s.pg.DB().ExecContext(ctx,
		`INSERT INTO speakers (id, name, party) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		id.ID, id.Name, id.Party)
	if err != nil {
		return false, &WriteError{NaturalKey: id.ID, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &WriteError{NaturalKey: id.ID, Err: err}
	}
	return n > 0, nil
}

// SpeechExists reports whether the natural key is already stored.
func (s *SpeechStore) SpeechExists(ctx context.Context, naturalKey string) (bool, error) {
	var one int
	err := s.pg.DB().QueryRowContext(ctx,
		`SELECT 1 FROM speeches WHERE natural_key = $1`, naturalKey).Scan(&one)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, err
}

// InsertSpeech persists one record in its own implicit transaction, so a
// failure rolls back only this record. Natural-key collisions come back as
// ErrDuplicate.
func (s *SpeechStore) InsertSpeech(ctx context.Context, rec *domain.SpeechRecord) error {
	_, err := s.pg.DB().ExecContext(ctx,
		`INSERT INTO speeches
		   (natural_key, speaker_id, date, time, title, doc_id, doc_title, text, source_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.NaturalKey, rec.SpeakerID, rec.Date, rec.Time, rec.Title,
		rec.DocumentID, rec.DocumentTitle, rec.Text, rec.SourceURL)
	if err != nil {
		if uniqueViolation(err) {
			return ErrDuplicate
		}
		return &WriteError{NaturalKey: rec.NaturalKey, Err: err}
	}
	return nil
}

// Speakers lists every stored identity ordered by display name.
func (s *SpeechStore) Speakers(ctx context.Context) ([]domain.SpeakerIdentity, error) {
	rows, err := s.pg.DB().QueryContext(ctx,
		`SELECT id, name, party FROM speakers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	defer rows.Close()

	var out []domain.SpeakerIdentity
	for rows.Next() {
		var id domain.SpeakerIdentity
		if err := rows.Scan(&id.ID, &id.Name, &id.Party); err != nil {
			return nil, fmt.Errorf("scan speaker: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// SpeechTexts returns one speaker's speeches ordered by date descending,
// the order the analysis consumer reads them in.
func (s *SpeechStore) SpeechTexts(ctx context.Context, speakerID string) ([]domain.SpeechRecord, error) {
	rows, err := s.pg.DB().QueryContext(ctx,
		`SELECT natural_key, speaker_id, date, time, title, doc_id, doc_title, text, source_url
		 FROM speeches WHERE speaker_id = $1
		 ORDER BY date DESC, title ASC`, speakerID)
	if err != nil {
		return nil, fmt.Errorf("list speeches for %s: %w", speakerID, err)
	}
	defer rows.Close()

	var out []domain.SpeechRecord
	for rows.Next() {
		var r domain.SpeechRecord
		if err := rows.Scan(&r.NaturalKey, &r.SpeakerID, &r.Date, &r.Time, &r.Title,
			&r.DocumentID, &r.DocumentTitle, &r.Text, &r.SourceURL); err != nil {
			return nil, fmt.Errorf("scan speech: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
