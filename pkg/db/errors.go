package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate signals that the record's natural key is already stored.
// Duplicates are how re-runs detect already-ingested speeches, so callers
// count them as skipped, not failed.
var ErrDuplicate = errors.New("record already present")

// WriteError reports a store write that failed for one record. The record's
// transaction is rolled back; the rest of the batch proceeds.
type WriteError struct {
	NaturalKey string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store write for %s: %v", e.NaturalKey, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// uniqueViolation identifies a Postgres unique-constraint failure by its
// SQLSTATE, never by message text.
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
