// Command corpus works on local XML document trees: `build` ingests
// per-member archive files into the store, `aggregate` regroups session or
// debate transcripts into one ordered file per speaker.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"parliament-search/pkg/aggregate"
	"parliament-search/pkg/config"
	"parliament-search/pkg/db"
	"parliament-search/pkg/extract"
	"parliament-search/pkg/pipeline"
	"parliament-search/pkg/sources"
)

var (
	cfgFile   string
	inputDir  string
	outputDir string
	pattern   string
	recursive bool
	minWords  int
	mode      string
	dsn       string
)

var rootCmd = &cobra.Command{
	Use:           "corpus",
	Short:         "Process local legislative XML corpora",
	SilenceErrors: true,
	SilenceUsage:  true,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Ingest per-member XML archive files into the store",
	RunE:  runBuild,
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Regroup session transcripts into one file per speaker",
	RunE:  runAggregate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	rootCmd.PersistentFlags().StringVar(&inputDir, "input-dir", "", "directory containing XML files")
	rootCmd.PersistentFlags().StringVar(&pattern, "pattern", "", "file name pattern (default *.xml)")
	rootCmd.PersistentFlags().BoolVar(&recursive, "recursive", false, "search subdirectories")
	rootCmd.PersistentFlags().IntVar(&minWords, "min-words", 0, "minimum words per speech (overrides config)")

	buildCmd.Flags().StringVar(&dsn, "dsn", "", "database DSN (overrides config)")
	aggregateCmd.Flags().StringVar(&outputDir, "output-dir", "speaker_speeches", "directory for per-speaker files")
	aggregateCmd.Flags().StringVar(&mode, "mode", "session", "corpus schema: session or hansard")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(aggregateCmd)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if inputDir != "" {
		cfg.InputDir = inputDir
	}
	if pattern != "" {
		cfg.Pattern = pattern
	}
	if recursive {
		cfg.Recursive = true
	}
	if minWords > 0 {
		cfg.MinWords = minWords
	}
	return cfg, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	ctx := cmd.Context()

	pg := db.NewPostgresClient(db.PostgresConfig{DSN: cfg.DatabaseDSN})
	if err := pg.Connect(ctx); err != nil {
		return err
	}
	defer pg.Close()

	store := db.NewSpeechStore(pg)
	if err := store.Init(ctx); err != nil {
		return err
	}

	summary, err := pipeline.CorpusRun(ctx, cfg, store)
	if err != nil {
		return err
	}
	log.Printf("corpus build complete: %s", summary)
	return nil
}

func runAggregate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := sources.ListFiles(cfg.InputDir, cfg.Pattern, cfg.Recursive)
	if err != nil {
		return err
	}

	m := aggregate.ModeSession
	if mode == "hansard" {
		m = aggregate.ModeHansard
	}

	filter := extract.NewFilter(cfg.MinWords, cfg.ExcludedRoles)
	agg, err := aggregate.New(outputDir, filter, m)
	if err != nil {
		return err
	}

	summary, err := agg.Run(cmd.Context(), files)
	if err != nil {
		return err
	}
	log.Printf("aggregate complete: %s", summary)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("corpus: %v", err)
		os.Exit(1)
	}
}
