package db

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	if !uniqueViolation(dup) {
		t.Error("Expected SQLSTATE 23505 to be recognized")
	}
	if !uniqueViolation(fmt.Errorf("insert speech: %w", dup)) {
		t.Error("Expected recognition through wrapping")
	}
	if uniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("Foreign-key violations are not duplicates")
	}
	if uniqueViolation(errors.New("duplicate key value")) {
		t.Error("Message text alone must never classify an error")
	}
}

func TestWriteErrorUnwrap(t *testing.T) {
	cause := errors.New("connection lost")
	err := &WriteError{NaturalKey: "H90912345-1", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("Expected the cause to be reachable via errors.Is")
	}
	if !strings.Contains(err.Error(), "H90912345-1") {
		t.Errorf("Expected the natural key in the message, got %q", err.Error())
	}
}
