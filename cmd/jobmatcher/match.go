package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/job-matcher/internal/config"
	"github.com/jonathan/job-matcher/internal/embedding"
	"github.com/jonathan/job-matcher/internal/geo"
	"github.com/jonathan/job-matcher/internal/location"
	"github.com/jonathan/job-matcher/internal/logger"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	matchResumeDir    string
	matchOutputDir    string
	matchLocationSort bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Batch-match candidate profiles against the corpus",
	Long: `Read candidate profile JSON files from a folder, score each against the
job corpus, and write a <name>_matches.json file per profile. With
--location-sort, profiles that carry a location are re-ranked by proximity.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchResumeDir, "resumes", "json_output", "Folder of candidate profile JSON files")
	matchCmd.Flags().StringVar(&matchOutputDir, "out", "matched_jobs", "Output folder for match results")
	matchCmd.Flags().BoolVar(&matchLocationSort, "location-sort", false, "Re-rank matches by distance to the profile location")
	rootCmd.AddCommand(matchCmd)
}

// batchMatch is the on-disk shape of one match result row.
type batchMatch struct {
	MatchScore   float64            `json:"match_score"`
	Breakdown    matching.Breakdown `json:"breakdown"`
	JobDetails   map[string]string  `json:"job_details"`
	DistanceKm   *float64           `json:"distance_km,omitempty"`
	Coordinates  *geo.Coordinates   `json:"job_coordinates,omitempty"`
	LocationRank int                `json:"location_rank,omitempty"`
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
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
	if vectors.Size() == 0 {
		return fmt.Errorf("corpus is empty, run 'jobmatcher ingest' first")
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

	vectorizer := embedding.NewVectorizer(provider, log)

	var ranker *location.Ranker
	if matchLocationSort {
		resolver := geo.NewResolver(geo.NewNominatim(cfg.GeocodeEndpoint), geo.Policy{
			MaxAttempts: cfg.GeocodeRetries,
			Backoff:     cfg.GeocodeBackoff(),
			Timeout:     cfg.GeocodeTimeout(),
		}, log)
		ranker = location.NewRanker(resolver, cfg.TopNLocation, cfg.GeocodeConcurrency, log)
	}

	entries, err := os.ReadDir(matchResumeDir)
	if err != nil {
		return fmt.Errorf("failed to read resumes folder %s: %w", matchResumeDir, err)
	}
	if err := os.MkdirAll(matchOutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder %s: %w", matchOutputDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(matchResumeDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("skipping unreadable profile", zap.String("path", path), zap.Error(err))
			continue
		}

		var req types.LocationMatchRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Warn("skipping malformed profile", zap.String("path", path), zap.Error(err))
			continue
		}

		profile := req.Profile()
		matches, err := engine.Match(vectorizer.FieldVectors(ctx, profile))
		if err != nil {
			return fmt.Errorf("matching failed for %s: %w", entry.Name(), err)
		}

		results := plainResults(matches)
		if ranker != nil && profile.Location != "" {
			if ranked := ranker.Rank(ctx, matches, profile.Location); ranked.LocationSorted {
				results = locatedResults(ranked.Matches)
			}
		}

		outName := strings.TrimSuffix(entry.Name(), ".json") + "_matches.json"
		outPath := filepath.Join(matchOutputDir, outName)
		encoded, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results for %s: %w", entry.Name(), err)
		}
		if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}

		log.Info("profile matched",
			zap.String("profile", entry.Name()),
			zap.String("output", outPath),
			zap.Int("matches", len(results)))
	}

	return nil
}

func plainResults(matches []matching.Match) []batchMatch {
	out := make([]batchMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, batchMatch{
			MatchScore: m.FinalScore,
			Breakdown:  m.Breakdown,
			JobDetails: m.Job.Metadata,
		})
	}
	return out
}

func locatedResults(matches []location.Match) []batchMatch {
	out := make([]batchMatch, 0, len(matches))
	for _, m := range matches {
		row := batchMatch{
			MatchScore:   m.FinalScore,
			Breakdown:    m.Breakdown,
			JobDetails:   m.Job.Metadata,
			Coordinates:  m.Coordinates,
			LocationRank: m.LocationRank,
		}
		if !math.IsInf(m.DistanceKm, 1) {
			rounded := geo.RoundKm(m.DistanceKm)
			row.DistanceKm = &rounded
		}
		out = append(out, row)
	}
	return out
}
