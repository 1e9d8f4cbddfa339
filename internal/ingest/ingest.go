// Package ingest builds the job-embeddings corpus from a CSV export of job
// postings. This is a batch preprocessing step; the serving engine only ever
// reads its output.
package ingest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/job-matcher/internal/embedding"
	"github.com/jonathan/job-matcher/internal/store"
	"go.uber.org/zap"
)

// DefaultColumns are the CSV columns combined into the embedded text, in
// order, matching the corpus the matcher was tuned on.
var DefaultColumns = []string{"company", "job description", "required qualification", "location"}

// Options configures a corpus build.
type Options struct {
	CSVPath    string
	OutputPath string
	Columns    []string // columns to embed; nil uses DefaultColumns
}

// Run reads the CSV, embeds one combined text per row, and writes the corpus
// JSON consumed by store.FileSource. Rows whose embedding fails are skipped
// with a warning; the build only fails on I/O or CSV structure errors.
func Run(ctx context.Context, opts Options, provider embedding.Provider, log *zap.Logger) error {
	if len(opts.Columns) == 0 {
		opts.Columns = DefaultColumns
	}

	f, err := os.Open(opts.CSVPath)
	if err != nil {
		return fmt.Errorf("failed to open CSV %s: %w", opts.CSVPath, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	// Only embed the configured columns that actually exist.
	embedIdx := make([]int, 0, len(opts.Columns))
	for _, col := range opts.Columns {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				embedIdx = append(embedIdx, i)
				break
			}
		}
	}
	if len(embedIdx) == 0 {
		return fmt.Errorf("none of the embed columns %v found in CSV header %v", opts.Columns, header)
	}

	var records []store.RawRecord
	for rowNum := 0; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV row %d: %w", rowNum, err)
		}

		text := combineColumns(header, row, embedIdx)
		vec, err := provider.Embed(ctx, text)
		if err != nil {
			log.Warn("skipping row, embedding failed", zap.Int("row", rowNum), zap.Error(err))
			continue
		}

		metadata := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				metadata[strings.TrimSpace(h)] = StripHTML(row[i])
			}
		}

		records = append(records, store.RawRecord{
			ID:        rowNum,
			Metadata:  metadata,
			Embedding: vec,
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal corpus: %w", err)
	}
	if err := os.WriteFile(opts.OutputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write corpus %s: %w", opts.OutputPath, err)
	}

	log.Info("corpus written",
		zap.String("path", opts.OutputPath),
		zap.Int("jobs", len(records)))
	return nil
}

// combineColumns renders the embed columns as "column: value" lines, the
// text shape the job vectors were generated from.
func combineColumns(header, row []string, embedIdx []int) string {
	parts := make([]string, 0, len(embedIdx))
	for _, i := range embedIdx {
		val := ""
		if i < len(row) {
			val = StripHTML(row[i])
		}
		parts = append(parts, fmt.Sprintf("%s: %s", strings.TrimSpace(header[i]), val))
	}
	return strings.Join(parts, "\n")
}

// StripHTML reduces an HTML fragment to its text content. Job boards export
// description fields with markup; plain values pass through unchanged apart
// from whitespace cleanup.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	doc.Find("script, style, noscript").Remove()
	return cleanWhitespace(doc.Text())
}

// cleanWhitespace collapses runs of whitespace into single spaces.
func cleanWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
