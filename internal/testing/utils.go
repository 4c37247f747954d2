// Package testing provides fixtures and helpers for testing the recommender.
package testing

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/assessment-recommender/config"
	"github.com/gcbaptista/assessment-recommender/internal/embedding"
	"github.com/gcbaptista/assessment-recommender/internal/engine"
	"github.com/gcbaptista/assessment-recommender/model"
	"github.com/gcbaptista/assessment-recommender/services"
)

// FixtureDimensions is the vector size of the fixture embedder.
const FixtureDimensions = 256

// Fixture URLs of the eligible records in FixtureRecords.
const (
	JavaURL     = "https://catalog.example.com/java-8-new"
	PythonURL   = "https://catalog.example.com/python-new"
	SQLURL      = "https://catalog.example.com/sql-server"
	CSharpURL   = "https://catalog.example.com/c-sharp"
	VerbalURL   = "https://catalog.example.com/verbal-ability"
	SalesIndURL = "https://catalog.example.com/sales-solution-individual"
)

// FixtureRecords returns a small catalog with eligible records and records the
// filter must drop.
func FixtureRecords() []model.CatalogRecord {
	return []model.CatalogRecord{
		{
			Name:            model.StringPtr("Java 8 (New)"),
			URL:             JavaURL,
			Description:     model.StringPtr("Multi-choice test of core Java, collections and streams."),
			Duration:        model.IntPtr(18),
			TestType:        []string{"Knowledge & Skills"},
			AdaptiveSupport: model.StringPtr("Yes"),
			RemoteSupport:   model.StringPtr("Yes"),
		},
		{
			Name:        model.StringPtr("Python (New)"),
			URL:         PythonURL,
			Description: model.StringPtr("Measures Python programming, data structures and libraries."),
			Duration:    model.IntPtr(11),
			TestType:    []string{"Knowledge & Skills"},
		},
		{
			Name:        model.StringPtr("SQL Server (New)"),
			URL:         SQLURL,
			Description: model.StringPtr("Queries, joins and stored procedures in SQL Server."),
			TestType:    []string{"Knowledge & Skills"},
		},
		{
			Name:        model.StringPtr("C# Programming"),
			URL:         CSharpURL,
			Description: model.StringPtr("Object oriented programming in C# and .NET."),
			TestType:    []string{"Knowledge & Skills"},
		},
		{
			Name:        model.StringPtr("Verbal Ability - Next Generation"),
			URL:         VerbalURL,
			Description: model.StringPtr("Reading comprehension and verbal reasoning."),
			Duration:    model.IntPtr(15),
			TestType:    []string{"Ability & Aptitude"},
		},
		{
			Name:     model.StringPtr("Sales Solution (Individual)"),
			URL:      SalesIndURL,
			TestType: []string{"Individual Test Solutions", "Personality & Behavior"},
		},
		{
			Name:     model.StringPtr("Sales Solution"),
			URL:      "https://catalog.example.com/sales-solution",
			TestType: []string{"Personality & Behavior"},
		},
		{
			Name:     model.StringPtr("Bank Cashier Pack"),
			URL:      "https://catalog.example.com/bank-cashier",
			TestType: []string{"Pre-packaged Job Solutions"},
		},
		{
			Name:        model.StringPtr("Record Without URL"),
			Description: model.StringPtr("Dropped as malformed."),
		},
	}
}

// FixtureEligibleCount is the number of documents built from FixtureRecords.
const FixtureEligibleCount = 6

// NewFixtureEmbedder returns the deterministic embedder used by fixtures.
func NewFixtureEmbedder() *embedding.Hashing {
	return embedding.NewHashing(FixtureDimensions)
}

// FixtureSettings returns default settings using the hashing embedder.
func FixtureSettings() config.Settings {
	s := config.Default()
	s.Embedding.Provider = config.EmbeddingHashing
	s.Embedding.Dimensions = FixtureDimensions
	s.Embedding.BatchSize = 2
	s.Embedding.Workers = 2
	return s
}

// CreateTestEngine builds an engine over records (FixtureRecords when nil).
func CreateTestEngine(t *testing.T, records []model.CatalogRecord, opts ...engine.Option) *engine.Engine {
	t.Helper()
	if records == nil {
		records = FixtureRecords()
	}
	eng, err := engine.NewFromRecords(context.Background(), FixtureSettings(), NewFixtureEmbedder(), records, opts...)
	require.NoError(t, err, "Failed to create test engine")
	return eng
}

// WriteCorpusFile writes records as a JSON catalog in a temporary directory and returns its path.
func WriteCorpusFile(t *testing.T, records []model.CatalogRecord) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	WriteCorpusFileAt(t, path, records)
	return path
}

// WriteCorpusFileAt replaces the catalog at path with records.
func WriteCorpusFileAt(t *testing.T, path string, records []model.CatalogRecord) {
	t.Helper()
	data, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      10 * time.Second,
		PollInterval: 10 * time.Millisecond,
		LogProgress:  true,
	}
}

// WaitForJob polls a job until it finishes or times out and returns its final state
func WaitForJob(t *testing.T, jobManager services.JobManager, jobID string, opts JobPollingOptions) *model.Job {
	t.Helper()
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not finish within %v timeout", jobID, opts.Timeout)
			return nil
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			switch job.Status {
			case model.JobStatusCompleted, model.JobStatusFailed, model.JobStatusCancelled:
				return job
			case model.JobStatusRunning:
				if opts.LogProgress && job.Progress != nil {
					t.Logf("Job %s progress: %d/%d - %s",
						jobID, job.Progress.Current, job.Progress.Total, job.Progress.Message)
				}
			}
		}
	}
}

// AssertJobCompleted verifies that a job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedType model.JobType) {
	t.Helper()
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}

// URLs returns the url of each assessment in order.
func URLs(assessments []model.Assessment) []string {
	urls := make([]string, len(assessments))
	for i, a := range assessments {
		urls[i] = a.URL
	}
	return urls
}
