// Package corpus turns raw catalog records into immutable documents.
//
// Records are filtered with the eligibility rules in Eligible, optional
// fields are resolved to configured defaults, and each surviving record gets
// its content text and token set. The relative order of records is preserved.
package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gcbaptista/assessment-recommender/config"
	apperrors "github.com/gcbaptista/assessment-recommender/internal/errors"
	"github.com/gcbaptista/assessment-recommender/internal/tokenizer"
	"github.com/gcbaptista/assessment-recommender/model"
)

// LoadReport summarizes a corpus load.
type LoadReport struct {
	Records       int
	Documents     int
	Ineligible    int
	Malformed     int
	DuplicateURLs int
	Skipped       []error      // DataErrors for malformed records
	FieldIssues   []FieldIssue // Optional fields replaced by their defaults
}

// Loader builds documents from catalog records.
type Loader struct {
	defaults  config.RecordDefaults
	tokenizer *tokenizer.Tokenizer
	logger    *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithTokenizer overrides the tokenizer used for document token sets.
func WithTokenizer(t *tokenizer.Tokenizer) Option {
	return func(l *Loader) {
		if t != nil {
			l.tokenizer = t
		}
	}
}

// NewLoader creates a loader applying the given record defaults.
func NewLoader(defaults config.RecordDefaults, opts ...Option) *Loader {
	l := &Loader{
		defaults:  defaults,
		tokenizer: tokenizer.Default(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("component", "corpus-loader")
	return l
}

// Load filters records and builds documents in input order.
func (l *Loader) Load(records []model.CatalogRecord) ([]model.Document, LoadReport) {
	report := LoadReport{Records: len(records)}
	docs := make([]model.Document, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for i, rec := range records {
		if strings.TrimSpace(rec.URL) == "" {
			dataErr := apperrors.NewDataError(i, "", "missing url")
			l.logger.Warn("skipping malformed catalog record", "position", i, "err", dataErr)
			report.Malformed++
			report.Skipped = append(report.Skipped, dataErr)
			continue
		}

		if ok, reason := Eligible(rec); !ok {
			l.logger.Debug("dropping ineligible record", "url", rec.URL, "reason", reason)
			report.Ineligible++
			continue
		}

		if _, dup := seen[rec.URL]; dup {
			l.logger.Warn("duplicate url in corpus", "url", rec.URL)
			report.DuplicateURLs++
		}
		seen[rec.URL] = struct{}{}

		docs = append(docs, l.buildDocument(rec))
	}

	report.Documents = len(docs)
	l.logger.Info("corpus loaded",
		"records", report.Records,
		"documents", report.Documents,
		"ineligible", report.Ineligible,
		"malformed", report.Malformed)
	return docs, report
}

func (l *Loader) buildDocument(rec model.CatalogRecord) model.Document {
	doc := model.Document{
		URL:             rec.URL,
		Name:            valueOr(rec.Name, l.defaults.Name),
		Description:     valueOr(rec.Description, ""),
		Duration:        rec.Duration,
		TestType:        append([]string{}, rec.TestType...),
		AdaptiveSupport: valueOr(rec.AdaptiveSupport, l.defaults.AdaptiveSupport),
		RemoteSupport:   valueOr(rec.RemoteSupport, l.defaults.RemoteSupport),
	}
	doc.ContentText = ContentText(doc.Name, doc.TestType, doc.Description)
	doc.Tokens = l.tokenizer.Tokenize(doc.ContentText)
	return doc
}

// ContentText builds the embedding input of a document.
func ContentText(name string, testType []string, description string) string {
	return fmt.Sprintf("Title: %s | Type: %s | Desc: %s", name, strings.Join(testType, ", "), description)
}

func valueOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

// ReadRecords decodes a JSON array of catalog records. Elements that are not
// records are returned as DataErrors instead of failing the whole read, and
// optional fields with an unusable value are reported as FieldIssues and left
// unset so the loader applies their defaults.
func ReadRecords(r io.Reader) ([]model.CatalogRecord, []FieldIssue, []error, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode catalog records: %w", err)
	}

	records := make([]model.CatalogRecord, 0, len(raw))
	var issues []FieldIssue
	var skipped []error
	for i, item := range raw {
		rec, recIssues, err := decodeRecord(i, item)
		if err != nil {
			skipped = append(skipped, apperrors.NewDataError(i, "", err.Error()))
			continue
		}
		issues = append(issues, recIssues...)
		records = append(records, rec)
	}
	return records, issues, skipped, nil
}

// LoadReader reads records from r and builds documents from them.
func (l *Loader) LoadReader(r io.Reader) ([]model.Document, LoadReport, error) {
	records, issues, skipped, err := ReadRecords(r)
	if err != nil {
		return nil, LoadReport{}, err
	}
	for _, dataErr := range skipped {
		l.logger.Warn("skipping undecodable catalog record", "err", dataErr)
	}
	for _, issue := range issues {
		l.logger.Warn("using default for catalog field", "position", issue.Position, "field", issue.Field, "reason", issue.Reason)
	}

	docs, report := l.Load(records)
	report.Records += len(skipped)
	report.Malformed += len(skipped)
	report.Skipped = append(skipped, report.Skipped...)
	report.FieldIssues = issues
	return docs, report, nil
}

// LoadFile reads the catalog records stored at path and builds documents from them.
func (l *Loader) LoadFile(path string) ([]model.Document, LoadReport, error) {
	file, err := os.Open(path) // #nosec G304 -- path is controlled by application configuration
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("failed to open corpus file %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			l.logger.Warn("failed to close corpus file", "path", path, "err", closeErr)
		}
	}()

	docs, report, err := l.LoadReader(file)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("corpus file %s: %w", path, err)
	}
	return docs, report, nil
}
