package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/assessment-recommender/config"
	apperrors "github.com/gcbaptista/assessment-recommender/internal/errors"
	"github.com/gcbaptista/assessment-recommender/internal/tokenizer"
	"github.com/gcbaptista/assessment-recommender/model"
)

func newTestLoader() *Loader {
	return NewLoader(config.Default().Defaults)
}

func record(name, url string, testType ...string) model.CatalogRecord {
	return model.CatalogRecord{Name: model.StringPtr(name), URL: url, TestType: testType}
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name       string
		rec        model.CatalogRecord
		wantOK     bool
		wantReason string
	}{
		{"pre-packaged is excluded", record("Bank Teller", "u1", "Pre-packaged Job Solutions"), false, ReasonPrePackaged},
		{"pre-packaged among other labels", record("Bank Teller", "u1", "K", "Pre-packaged Job Solutions"), false, ReasonPrePackaged},
		{"solution without individual is excluded", record("Sales Solution", "u2", "P"), false, ReasonBundledSolution},
		{"solution with no labels is excluded", record("Sales Solution", "u2"), false, ReasonBundledSolution},
		{"solution with individual is retained", record("Sales Solution (Individual)", "u3", "Individual Test Solutions"), true, ""},
		{"lowercase solution is not the heuristic", record("Problem solution skills", "u4", "A"), true, ""},
		{"plain record is retained", record("Java Pro", "u5", "K"), true, ""},
		{"missing name is retained", model.CatalogRecord{URL: "u6"}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := Eligible(tt.rec)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestLoad_FiltersAndPreservesOrder(t *testing.T) {
	records := []model.CatalogRecord{
		record("Java Pro", "https://x/java", "K"),
		record("Bank Teller", "https://x/teller", "Pre-packaged Job Solutions"),
		record("General Aptitude", "https://x/aptitude", "A"),
		record("Sales Solution", "https://x/sales", "P"),
		record("Sales Solution (Individual)", "https://x/sales-ind", "Individual"),
	}

	docs, report := newTestLoader().Load(records)

	require.Len(t, docs, 3)
	assert.Equal(t, "https://x/java", docs[0].URL)
	assert.Equal(t, "https://x/aptitude", docs[1].URL)
	assert.Equal(t, "https://x/sales-ind", docs[2].URL)
	assert.Equal(t, 5, report.Records)
	assert.Equal(t, 3, report.Documents)
	assert.Equal(t, 2, report.Ineligible)
	assert.Zero(t, report.Malformed)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	docs, _ := newTestLoader().Load([]model.CatalogRecord{{URL: "https://x/bare"}})

	require.Len(t, docs, 1)
	doc := docs[0]
	assert.Equal(t, "Unknown", doc.Name)
	assert.Equal(t, "", doc.Description)
	assert.Equal(t, "No", doc.AdaptiveSupport)
	assert.Equal(t, "Yes", doc.RemoteSupport)
	assert.Nil(t, doc.Duration)
	assert.NotNil(t, doc.TestType)
	assert.Empty(t, doc.TestType)
	assert.Equal(t, "Title: Unknown | Type:  | Desc: ", doc.ContentText)
}

func TestLoad_CopiesDisplayFields(t *testing.T) {
	rec := model.CatalogRecord{
		Name:            model.StringPtr("Java Pro"),
		URL:             "https://x/java",
		Description:     model.StringPtr("Java coding test"),
		Duration:        model.IntPtr(40),
		TestType:        []string{"K", "S"},
		AdaptiveSupport: model.StringPtr("Yes"),
		RemoteSupport:   model.StringPtr("No"),
	}

	docs, _ := newTestLoader().Load([]model.CatalogRecord{rec})

	require.Len(t, docs, 1)
	doc := docs[0]
	assert.Equal(t, "Title: Java Pro | Type: K, S | Desc: Java coding test", doc.ContentText)
	assert.Equal(t, 40, *doc.Duration)
	assert.Equal(t, "Yes", doc.AdaptiveSupport)
	assert.Equal(t, "No", doc.RemoteSupport)
	assert.Equal(t, []string{"coding", "desc", "java", "pro", "title", "type"}, tokenizer.Sorted(doc.Tokens))

	// The document owns its labels
	rec.TestType[0] = "changed"
	assert.Equal(t, "K", doc.TestType[0])
}

func TestLoad_MissingURLIsSkipped(t *testing.T) {
	records := []model.CatalogRecord{
		record("No URL", ""),
		record("Java Pro", "https://x/java", "K"),
	}

	docs, report := newTestLoader().Load(records)

	require.Len(t, docs, 1)
	assert.Equal(t, 1, report.Malformed)
	require.Len(t, report.Skipped, 1)
	assert.True(t, errors.Is(report.Skipped[0], apperrors.ErrDataRecord))
}

func TestLoad_DuplicateURLsAreKept(t *testing.T) {
	records := []model.CatalogRecord{
		record("Java Pro", "https://x/java", "K"),
		record("Java Pro v2", "https://x/java", "K"),
	}

	docs, report := newTestLoader().Load(records)

	assert.Len(t, docs, 2)
	assert.Equal(t, 1, report.DuplicateURLs)
}

func TestLoad_Deterministic(t *testing.T) {
	records := []model.CatalogRecord{record("Python Data Science", "https://x/py", "K", "S")}
	first, _ := newTestLoader().Load(records)
	second, _ := newTestLoader().Load(records)

	assert.Equal(t, first[0].ContentText, second[0].ContentText)
	assert.Equal(t, first[0].Tokens, second[0].Tokens)
}

func TestLoadReader(t *testing.T) {
	input := `[
		{"name": "Java Pro", "url": "https://x/java", "description": "Java coding test", "test_type": ["K"], "duration": 30},
		"not a record",
		{"name": "Broken", "url": 42},
		{"name": "General Aptitude", "url": "https://x/aptitude", "description": "logic and reasoning", "test_type": ["A"]}
	]`

	docs, report, err := newTestLoader().LoadReader(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "Java Pro", docs[0].Name)
	assert.Equal(t, 30, *docs[0].Duration)
	assert.Equal(t, 4, report.Records)
	assert.Equal(t, 2, report.Malformed)
	require.Len(t, report.Skipped, 2)
	for _, err := range report.Skipped {
		assert.True(t, errors.Is(err, apperrors.ErrDataRecord))
	}
	assert.Empty(t, report.FieldIssues)
}

func TestLoadReader_BadlyTypedOptionalFieldsUseDefaults(t *testing.T) {
	input := `[
		{"url": "u1", "duration": 30.0},
		{"url": "u2", "duration": "30"},
		{"url": "u3", "test_type": "K"},
		{"url": "u4", "duration": null},
		{"url": "u5", "duration": "thirty", "name": 7, "remote_support": true},
		{"url": "u6", "duration": 12.5, "test_type": ["K", 3, "P"]},
		{"url": "u7", "test_type": {"k": "v"}, "adaptive_support": ["Yes"]}
	]`

	docs, report, err := newTestLoader().LoadReader(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, docs, 7)
	assert.Equal(t, 0, report.Malformed)
	assert.Empty(t, report.Skipped)

	require.NotNil(t, docs[0].Duration)
	assert.Equal(t, 30, *docs[0].Duration)
	require.NotNil(t, docs[1].Duration)
	assert.Equal(t, 30, *docs[1].Duration)
	assert.Equal(t, []string{"K"}, docs[2].TestType)
	assert.Nil(t, docs[3].Duration)

	assert.Nil(t, docs[4].Duration)
	assert.Equal(t, "Unknown", docs[4].Name)
	assert.Equal(t, "Yes", docs[4].RemoteSupport)

	assert.Nil(t, docs[5].Duration)
	assert.Equal(t, []string{"K", "P"}, docs[5].TestType)

	assert.NotNil(t, docs[6].TestType)
	assert.Empty(t, docs[6].TestType)
	assert.Equal(t, "No", docs[6].AdaptiveSupport)

	fields := make([]string, 0, len(report.FieldIssues))
	for _, issue := range report.FieldIssues {
		fields = append(fields, issue.Field)
	}
	assert.Equal(t, []string{"name", "remote_support", "duration", "duration", "test_type", "adaptive_support", "test_type"}, fields)
}

func TestLoadReader_ScalarTestTypeStillFiltered(t *testing.T) {
	input := `[
		{"name": "Bank Teller", "url": "u1", "test_type": "Pre-packaged Job Solutions"},
		{"name": "Java Pro", "url": "u2", "test_type": "K"}
	]`

	docs, report, err := newTestLoader().LoadReader(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "u2", docs[0].URL)
	assert.Equal(t, 1, report.Ineligible)
	assert.Contains(t, docs[0].ContentText, "Type: K |")
}

func TestLoadReader_InvalidJSON(t *testing.T) {
	_, _, err := newTestLoader().LoadReader(strings.NewReader(`{"not": "an array"}`))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Java Pro","url":"https://x/java","test_type":["K"]}]`), 0600))

	docs, report, err := newTestLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, 1, report.Documents)

	_, _, err = newTestLoader().LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
