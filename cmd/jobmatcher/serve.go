package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/job-matcher/internal/config"
	"github.com/jonathan/job-matcher/internal/embedding"
	"github.com/jonathan/job-matcher/internal/geo"
	"github.com/jonathan/job-matcher/internal/location"
	"github.com/jonathan/job-matcher/internal/logger"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/server"
	"github.com/jonathan/job-matcher/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the job matching endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	log, err := logger.New(jsonLog, debugLog)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	provider, err := embedding.NewGeminiProvider(ctx, apiKey, cfg.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("failed to create embedding provider: %w", err)
	}
	defer func() { _ = provider.Close() }()

	vectors, err := loadStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	engine, err := matching.NewEngine(vectors, matching.Weights{
		Position:      cfg.PositionWeight,
		Skills:        cfg.SkillsWeight,
		Qualification: cfg.QualificationWeight,
		Experience:    cfg.ExperienceWeight,
	}, cfg.TopNMatches)
	if err != nil {
		return err
	}

	resolver := geo.NewResolver(geo.NewNominatim(cfg.GeocodeEndpoint), geo.Policy{
		MaxAttempts: cfg.GeocodeRetries,
		Backoff:     cfg.GeocodeBackoff(),
		Timeout:     cfg.GeocodeTimeout(),
	}, log)

	srv := server.New(cfg.Port, server.Deps{
		Store:      vectors,
		Engine:     engine,
		Vectorizer: embedding.NewVectorizer(provider, log),
		Ranker:     location.NewRanker(resolver, cfg.TopNLocation, cfg.GeocodeConcurrency, log),
		Logger:     log,
	})

	return srv.Start()
}

// loadStore builds the vector store from Postgres when a database URL is
// configured, otherwise from the corpus file. An unavailable corpus degrades
// to an empty store: the server still starts and serves zero matches.
func loadStore(ctx context.Context, cfg config.Config, log *zap.Logger) (*store.VectorStore, error) {
	var source store.CorpusSource
	if cfg.DatabaseURL != "" {
		pg, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer pg.Close()
		source = pg
	} else {
		source = &store.FileSource{Path: cfg.CorpusPath}
	}

	vectors, err := store.Load(ctx, source, log)
	if err != nil {
		var unavailable *store.ErrDataUnavailable
		if errors.As(err, &unavailable) {
			log.Warn("corpus unavailable, starting with empty store", zap.Error(err))
			return store.Empty(), nil
		}
		return nil, err
	}
	return vectors, nil
}
