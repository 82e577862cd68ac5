// Package extract turns raw XML bytes from the supported legislative
// sources into draft speech records. Each schema variant is a typed
// document implementing the same extraction capability; documents that
// fail to decode or parse produce typed errors and are skipped by callers.
package extract

import "parliament-search/pkg/domain"

// Extractor is the shared capability of all schema variants. Extract
// returns the qualifying draft records, the number of entries dropped by
// filters or missing required fields, and a document-level error when the
// bytes could not be parsed at all.
type Extractor interface {
	Extract(raw []byte) ([]domain.DraftRecord, int, error)
}

var (
	_ Extractor = SpeechListDocument{}
	_ Extractor = MemberFileDocument{}
	_ Extractor = SessionDocument{}
)
