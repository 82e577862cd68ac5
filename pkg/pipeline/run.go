package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"

	"parliament-search/pkg/config"
	"parliament-search/pkg/db"
	"parliament-search/pkg/domain"
	"parliament-search/pkg/extract"
	"parliament-search/pkg/sources"
)

// RemoteRun ingests one date window from the remote list endpoint. The list
// fetch failing means there is nothing to do; the store is left untouched
// and the error is reported so a later run can retry.
func RemoteRun(ctx context.Context, cfg config.Config, remote *sources.Remote, store db.Store) (domain.RunSummary, error) {
	query := sources.ListQuery{
		DateFrom:  cfg.DateFrom,
		DateTo:    cfg.DateTo,
		PageSize:  cfg.PageSize,
		Type:      cfg.SpeechType,
		SortField: "datum",
		SortOrder: "desc",
	}
	log.Printf("ingest: fetching speech list %s .. %s", cfg.DateFrom, cfg.DateTo)

	raw, err := remote.SpeechList(ctx, query)
	if err != nil {
		return domain.RunSummary{}, fmt.Errorf("speech list: %w", err)
	}

	doc := extract.SpeechListDocument{
		Source: query.URL(cfg.BaseURL),
		Filter: extract.NewFilter(0, cfg.ExcludedRoles),
	}
	drafts, dropped, err := doc.Extract(raw)
	if err != nil {
		return domain.RunSummary{}, err
	}
	if len(drafts) >= cfg.PageSize {
		log.Printf("ingest: list hit the page-size cap (%d); narrow the window to fetch everything", cfg.PageSize)
	}
	log.Printf("ingest: %d entries in window, %d dropped by filters", len(drafts), dropped)

	ing := New(store, remote, cfg.FetchWorkers)
	return ing.Run(ctx, drafts), nil
}

// CorpusRun ingests a local tree of per-member XML files. Files that fail
// to parse are logged and skipped; they never block the rest of the tree.
// Files whose schema carries no member id get sequential ids in sorted file
// order, which is reproducible because enumeration is sorted.
func CorpusRun(ctx context.Context, cfg config.Config, store db.Store) (domain.RunSummary, error) {
	files, err := sources.ListFiles(cfg.InputDir, cfg.Pattern, cfg.Recursive)
	if err != nil {
		return domain.RunSummary{}, err
	}
	log.Printf("corpus: %d files under %s match %q", len(files), cfg.InputDir, cfg.Pattern)

	filter := extract.NewFilter(cfg.MinWords, cfg.ExcludedRoles)
	ing := New(store, nil, 1)

	var summary domain.RunSummary
	seq := 0
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("corpus: read %s: %v", path, err)
			summary.Failed++
			continue
		}
		doc := extract.MemberFileDocument{Path: path, Filter: filter}
		drafts, dropped, err := doc.Extract(raw)
		if err != nil {
			log.Printf("corpus: %v", err)
			summary.Failed++
			continue
		}
		if dropped > 0 {
			log.Printf("corpus: %s: %d fragments dropped by filters", path, dropped)
		}
		if len(drafts) > 0 && drafts[0].NaturalID == "" {
			seq++
			id := fmt.Sprintf("%05d", seq)
			for i := range drafts {
				drafts[i].NaturalID = id
			}
		}
		sub := ing.Run(ctx, drafts)
		summary.Merge(sub)
	}
	return summary, nil
}
