package domain

import "testing"

func TestDraftRecordRecord(t *testing.T) {
	d := DraftRecord{
		NaturalKey: "H90912345-1",
		Date:       "2024-01-15",
		Title:      "Skolpolitik",
		DocumentID: "H90912",
		DocTitle:   "Protokoll 2023/24:55",
		Text:       "Herr talman!",
		TextURL:    "https://example.org/anforande/H90912345-1",
	}
	rec := d.Record("0123456789")
	if rec.SpeakerID != "0123456789" || rec.NaturalKey != "H90912345-1" {
		t.Errorf("Unexpected record %+v", rec)
	}
	if rec.SourceURL != d.TextURL || rec.DocumentTitle != d.DocTitle {
		t.Errorf("Field mapping lost: %+v", rec)
	}
	if rec.IngestedAt.IsZero() {
		t.Error("Expected IngestedAt to be set")
	}
}

func TestRunSummaryMerge(t *testing.T) {
	a := RunSummary{Processed: 3, Added: 2, Skipped: 1}
	a.Merge(RunSummary{Processed: 2, Failed: 1, NewSpeakers: 1})
	want := RunSummary{Processed: 5, Added: 2, Skipped: 1, Failed: 1, NewSpeakers: 1}
	if a != want {
		t.Errorf("Merge = %+v, want %+v", a, want)
	}
}

func TestRunSummaryString(t *testing.T) {
	s := RunSummary{Processed: 5, Added: 2, Skipped: 2, Failed: 1, NewSpeakers: 1}
	if got := s.String(); got != "processed 5, added 2, skipped 2, failed 1, new speakers 1" {
		t.Errorf("Unexpected report line %q", got)
	}
}
