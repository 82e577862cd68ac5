package extract

import "fmt"

// ParseError reports a document that could not be parsed as XML. The
// document is skipped and the run continues.
type ParseError struct {
	Source string // URL or file path
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EncodingError reports that a document's bytes could not be decoded with
// the primary charset or the legacy fallback. Callers escalate it to a
// ParseError for the whole document.
type EncodingError struct {
	Source  string
	Charset string
	Err     error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("decode %s as %s: %v", e.Source, e.Charset, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// MissingFieldError reports a speech entry missing a required field. The
// entry is skipped and logged; the rest of the document is still processed.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is missing", e.Field)
}
