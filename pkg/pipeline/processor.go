package pipeline

import (
	"context"
	"fmt"
	"strings"

	"parliament-search/pkg/content"
	"parliament-search/pkg/domain"
	"parliament-search/pkg/extract"
	"parliament-search/pkg/identity"
)

// TextFetcher retrieves the detail document holding one speech's full text.
// The remote connector implements it; local sources carry text inline and
// use a nil fetcher.
type TextFetcher interface {
	SpeechText(ctx context.Context, url string) ([]byte, error)
}

// recordState tracks one record through
// Discovered → IdentityResolved → ExistenceChecked → {Skipped | TextFetched → Persisted},
// with Failed reachable from every state.
type recordState int

const (
	stateDiscovered recordState = iota
	stateIdentityResolved
	stateExistenceChecked
	stateTextFetched
	statePersisted
	stateSkipped
	stateFailed
)

// prepared is a record that passed the existence check and carries its full
// text, ready for the single writer.
type prepared struct {
	speaker domain.SpeakerIdentity
	record  *domain.SpeechRecord
}

// prepare advances one draft to the hand-off point: resolve identity, check
// existence, fetch and clean the text. It performs no writes, so it is safe
// to run from multiple workers.
func (in *Ingestor) prepare(ctx context.Context, d domain.DraftRecord) (prepared, recordState, error) {
	speakerID := identity.Resolve(d.NaturalID, d.Name, d.Party)

	exists, err := in.store.SpeechExists(ctx, d.NaturalKey)
	if err != nil {
		return prepared{}, stateFailed, fmt.Errorf("existence check for %s: %w", d.NaturalKey, err)
	}
	if exists {
		// Already ingested; skip without the costly text fetch.
		return prepared{}, stateSkipped, nil
	}

	text, err := in.fetchText(ctx, d)
	if err != nil {
		return prepared{}, stateFailed, err
	}
	d.Text = text

	return prepared{
		speaker: domain.SpeakerIdentity{ID: speakerID, Name: d.Name, Party: d.Party},
		record:  d.Record(speakerID),
	}, stateTextFetched, nil
}

// fetchText returns the plain speech text. Inline text (local sources) is
// cleaned directly; remote drafts cost one extra round trip. When the
// detail endpoint answers with an HTML page instead of the XML leaf, the
// readable main text is taken from the page.
func (in *Ingestor) fetchText(ctx context.Context, d domain.DraftRecord) (string, error) {
	if d.TextURL == "" || in.fetcher == nil {
		return content.PlainText(d.Text)
	}

	raw, err := in.fetcher.SpeechText(ctx, d.TextURL)
	if err != nil {
		return "", err
	}

	body, err := extract.SpeechDetail(d.TextURL, raw)
	if err != nil {
		// Some entries point at an HTML page rather than the XML leaf;
		// the readable main text of the page is the best we can do.
		if looksLikeHTML(raw) {
			return content.MainText(string(raw))
		}
		return "", err
	}
	return content.PlainText(body)
}

func looksLikeHTML(raw []byte) bool {
	n := len(raw)
	if n > 512 {
		n = 512
	}
	head := strings.ToLower(string(raw[:n]))
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html")
}
