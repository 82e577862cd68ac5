package domain

import (
	"fmt"
	"time"
)

// SpeakerIdentity is the canonical (id, name, party) tuple referenced by
// every speech from one person. Rows are created once and never merged.
type SpeakerIdentity struct {
	ID    string
	Name  string
	Party string // empty for sources that never expose it
}

// SpeechRecord represents one normalized speech as stored in the database.
// Records are immutable once persisted.
type SpeechRecord struct {
	NaturalKey    string // source-assigned speech id, or derived; unique
	SpeakerID     string
	Date          string // ISO date (YYYY-MM-DD); upstream formats vary
	Time          string // optional HH:MM:SS
	Title         string // topic / section heading
	DocumentID    string
	DocumentTitle string
	Text          string
	SourceURL     string
	IngestedAt    time.Time
}

// DraftRecord is the extraction-time shape of a speech: identity fields for
// the resolver plus record fields. For remote sources the full text is not
// fetched yet; TextURL points at the per-speech detail document and Text is
// filled in only after the existence check passes.
type DraftRecord struct {
	NaturalID  string // speaker id as supplied by the source, may be empty
	Name       string
	Party      string
	NaturalKey string
	Date       string
	Time       string
	Title      string
	DocumentID string
	DocTitle   string
	Text       string
	TextURL    string
}

// Record builds the persistable SpeechRecord for a resolved speaker.
func (d DraftRecord) Record(speakerID string) *SpeechRecord {
	return &SpeechRecord{
		NaturalKey:    d.NaturalKey,
		SpeakerID:     speakerID,
		Date:          d.Date,
		Time:          d.Time,
		Title:         d.Title,
		DocumentID:    d.DocumentID,
		DocumentTitle: d.DocTitle,
		Text:          d.Text,
		SourceURL:     d.TextURL,
		IngestedAt:    time.Now(),
	}
}

// RunSummary accumulates per-record outcomes for one ingestion run.
type RunSummary struct {
	Processed   int
	Added       int
	Skipped     int
	Failed      int
	NewSpeakers int
}

// Merge folds another summary into this one.
func (s *RunSummary) Merge(o RunSummary) {
	s.Processed += o.Processed
	s.Added += o.Added
	s.Skipped += o.Skipped
	s.Failed += o.Failed
	s.NewSpeakers += o.NewSpeakers
}

// String renders the end-of-run report line.
func (s RunSummary) String() string {
	return fmt.Sprintf("processed %d, added %d, skipped %d, failed %d, new speakers %d",
		s.Processed, s.Added, s.Skipped, s.Failed, s.NewSpeakers)
}
