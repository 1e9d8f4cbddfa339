package main

import (
	"fmt"
	"os"

	"github.com/jonathan/job-matcher/internal/config"
	"github.com/jonathan/job-matcher/internal/embedding"
	"github.com/jonathan/job-matcher/internal/ingest"
	"github.com/jonathan/job-matcher/internal/logger"
	"github.com/spf13/cobra"
)

var (
	ingestCSV     string
	ingestOut     string
	ingestColumns []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the job-embeddings corpus from a CSV of postings",
	Long: `Read job postings from a CSV file, embed the configured columns into one
vector per posting, and write the corpus JSON the serve and match commands
consume.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCSV, "csv", "Data.csv", "CSV file of job postings")
	ingestCmd.Flags().StringVar(&ingestOut, "out", "job_embeddings.json", "Output corpus path")
	ingestCmd.Flags().StringSliceVar(&ingestColumns, "columns", nil, "CSV columns to embed (default: company, job description, required qualification, location)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(jsonLog, debugLog)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	provider, err := embedding.NewGeminiProvider(cmd.Context(), apiKey, cfg.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("failed to create embedding provider: %w", err)
	}
	defer func() { _ = provider.Close() }()

	return ingest.Run(cmd.Context(), ingest.Options{
		CSVPath:    ingestCSV,
		OutputPath: ingestOut,
		Columns:    ingestColumns,
	}, provider, log)
}
