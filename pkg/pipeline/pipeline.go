// Package pipeline drives ingestion: drafts from an extractor are resolved,
// checked against the store, completed with their full text by a bounded
// pool of fetch workers, and persisted by a single writer goroutine. The
// single-writer discipline keeps the natural-key uniqueness invariant free
// of write races; fetches, the only slow part, run in parallel.
package pipeline

import (
	"context"
	"errors"
	"log"
	"sync"

	"parliament-search/pkg/db"
	"parliament-search/pkg/domain"
)

// Ingestor runs the write path for one batch of drafts.
type Ingestor struct {
	store   db.Store
	fetcher TextFetcher
	workers int
}

// New creates an ingestor. fetcher may be nil when every draft carries its
// text inline. workers bounds the concurrent text fetches.
func New(store db.Store, fetcher TextFetcher, workers int) *Ingestor {
	if workers <= 0 {
		workers = 1
	}
	return &Ingestor{store: store, fetcher: fetcher, workers: workers}
}

// Run processes every draft and returns the run summary. Each record is
// independent: a failure is logged, counted and left behind. Cancelling ctx
// stops between records; committed records are already durable, so a re-run
// resumes via the existence check.
func (in *Ingestor) Run(ctx context.Context, drafts []domain.DraftRecord) domain.RunSummary {
	jobs := make(chan domain.DraftRecord)
	ready := make(chan prepared, in.workers*2)

	var mu sync.Mutex
	summary := domain.RunSummary{}
	tally := func(f func(*domain.RunSummary)) {
		mu.Lock()
		f(&summary)
		mu.Unlock()
	}

	// Fetch workers: no store writes happen here.
	var workerWg sync.WaitGroup
	for i := 0; i < in.workers; i++ {
		workerWg.Add(1)
		go func(workerID int) {
			defer workerWg.Done()
			for d := range jobs {
				tally(func(s *domain.RunSummary) { s.Processed++ })
				p, state, err := in.prepare(ctx, d)
				switch state {
				case stateSkipped:
					tally(func(s *domain.RunSummary) { s.Skipped++ })
				case stateFailed:
					log.Printf("pipeline: worker %d: record %s failed: %v", workerID, d.NaturalKey, err)
					tally(func(s *domain.RunSummary) { s.Failed++ })
				default:
					select {
					case ready <- p:
					case <-ctx.Done():
						return
					}
				}
			}
		}(i)
	}

	// Single writer: every store mutation funnels through here.
	var writerWg sync.WaitGroup
	writerWg.Add(1)
	go func() {
		defer writerWg.Done()
		for p := range ready {
			in.persist(ctx, p, tally)
		}
	}()

	// Feed drafts until done or cancelled.
feed:
	for _, d := range drafts {
		select {
		case jobs <- d:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	workerWg.Wait()
	close(ready)
	writerWg.Wait()

	return summary
}

// persist upserts the speaker and inserts the speech. A write failure rolls
// back that record only; a duplicate natural key counts as skipped.
func (in *Ingestor) persist(ctx context.Context, p prepared, tally func(func(*domain.RunSummary))) {
	created, err := in.store.UpsertSpeaker(ctx, p.speaker)
	if err != nil {
		log.Printf("pipeline: upsert speaker %s: %v", p.speaker.ID, err)
		tally(func(s *domain.RunSummary) { s.Failed++ })
		return
	}
	if created {
		log.Printf("pipeline: new speaker %s (%s)", p.speaker.Name, p.speaker.ID)
		tally(func(s *domain.RunSummary) { s.NewSpeakers++ })
	}

	switch err := in.store.InsertSpeech(ctx, p.record); {
	case err == nil:
		tally(func(s *domain.RunSummary) { s.Added++ })
	case errors.Is(err, db.ErrDuplicate):
		tally(func(s *domain.RunSummary) { s.Skipped++ })
	default:
		log.Printf("pipeline: insert speech %s: %v", p.record.NaturalKey, err)
		tally(func(s *domain.RunSummary) { s.Failed++ })
	}
}
