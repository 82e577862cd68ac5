// Command ingest pulls speech records from the remote list endpoint for a
// date window and persists the new ones. Safe to re-run: already-ingested
// speeches are skipped by natural key without refetching their text.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"parliament-search/pkg/config"
	"parliament-search/pkg/db"
	"parliament-search/pkg/httpclient"
	"parliament-search/pkg/pipeline"
	"parliament-search/pkg/sources"
)

var (
	cfgFile  string
	dateFrom string
	dateTo   string
	dsn      string
)

var rootCmd = &cobra.Command{
	Use:           "ingest",
	Short:         "Ingest legislative speeches from the remote API into the store",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file")
	rootCmd.Flags().StringVar(&dateFrom, "from", "", "window start (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&dateTo, "to", "", "window end (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&dsn, "dsn", "", "database DSN (overrides config)")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if dateFrom != "" {
		cfg.DateFrom = dateFrom
	}
	if dateTo != "" {
		cfg.DateTo = dateTo
	}
	if dsn != "" {
		cfg.DatabaseDSN = dsn
	}

	ctx := cmd.Context()

	// Store problems are the one thing a run cannot work around.
	pg := db.NewPostgresClient(db.PostgresConfig{DSN: cfg.DatabaseDSN})
	if err := pg.Connect(ctx); err != nil {
		return err
	}
	defer pg.Close()

	store := db.NewSpeechStore(pg)
	if err := store.Init(ctx); err != nil {
		return err
	}

	client := httpclient.NewClient(cfg.FetchTimeout)
	remote := sources.NewRemote(client, cfg.BaseURL, cfg.DetailRate)

	summary, err := pipeline.RemoteRun(ctx, cfg, remote, store)
	if err != nil {
		return err
	}
	log.Printf("ingest complete: %s", summary)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("ingest: %v", err)
		os.Exit(1)
	}
}
