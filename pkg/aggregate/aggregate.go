// Package aggregate regroups a corpus of session transcripts into one
// ordered output file per speaker. Input documents are event-parsed so only
// one fragment is held in memory at a time; output handles live in a pool
// keyed by resolved speaker identity and are all closed when the run ends,
// on success or on error.
package aggregate

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"parliament-search/pkg/domain"
	"parliament-search/pkg/extract"
	"parliament-search/pkg/identity"
)

// Mode selects the corpus schema.
type Mode int

const (
	// ModeSession: namespaced Assemblée nationale session transcripts.
	ModeSession Mode = iota
	// ModeHansard: Hansard debate files; speech elements are copied
	// verbatim into the per-member outputs.
	ModeHansard
)

// Summary reports one aggregation run.
type Summary struct {
	Files     int
	Failed    int
	Fragments int
	Dropped   int
	Speakers  int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d files (%d failed), %d fragments (%d dropped), %d speakers",
		s.Files, s.Failed, s.Fragments, s.Dropped, s.Speakers)
}

// Aggregator fans speech fragments out to per-speaker sinks.
type Aggregator struct {
	pool   *SinkPool
	filter extract.Filter
	mode   Mode
	walk   walkFunc
}

// New creates an aggregator writing per-speaker files into outputDir.
func New(outputDir string, filter extract.Filter, mode Mode) (*Aggregator, error) {
	pool, err := NewSinkPool(outputDir)
	if err != nil {
		return nil, err
	}
	walk := walkFunc(extract.WalkSession)
	if mode == ModeHansard {
		walk = extract.WalkHansard
	}
	return &Aggregator{pool: pool, filter: filter, mode: mode, walk: walk}, nil
}

// Run streams every input file into the sink pool and closes all sinks
// before returning, on every exit path. A file that fails to parse is
// logged and skipped; it never blocks the rest of the corpus.
func (a *Aggregator) Run(ctx context.Context, files []string) (summary Summary, err error) {
	defer func() {
		summary.Speakers = a.pool.Len()
		if cerr := a.pool.CloseAll(); cerr != nil && err == nil {
			err = fmt.Errorf("close sinks: %w", cerr)
		}
	}()

	for _, path := range files {
		if ctx.Err() != nil {
			// Stop between files; the deferred close still runs.
			break
		}
		summary.Files++
		if err := a.runFile(path, &summary); err != nil {
			log.Printf("aggregate: %v", err)
			summary.Failed++
		}
	}
	return summary, nil
}

func (a *Aggregator) runFile(path string, summary *Summary) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dropped, err := a.walk(f, path, a.filter, func(rec domain.DraftRecord) error {
		a.add(rec)
		summary.Fragments++
		return nil
	})
	summary.Dropped += dropped
	return err
}

type walkFunc func(r io.Reader, source string, filter extract.Filter, emit func(domain.DraftRecord) error) (int, error)

// add routes one fragment to its speaker's sink, creating the sink on first
// encounter.
func (a *Aggregator) add(rec domain.DraftRecord) {
	key := identity.Resolve(rec.NaturalID, rec.Name, rec.Party)
	sink := a.pool.Get(key, rec.Name, sinkFilename(rec))
	sink.Add(fragment{
		Date:  rec.Date,
		Time:  rec.Time,
		Title: rec.Title,
		Text:  rec.Text,
		Raw:   a.mode == ModeHansard,
	})
}

// sinkFilename names a speaker's output file: the member id and slugged
// name when a natural id exists, just the slugged name otherwise.
func sinkFilename(rec domain.DraftRecord) string {
	slug := identity.Slug(rec.Name)
	if slug == "" {
		slug = "unknown"
	}
	if rec.NaturalID != "" {
		return rec.NaturalID + "_" + slug
	}
	return slug
}
