package corpus

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gcbaptista/assessment-recommender/model"
)

// PrePackagedLabel is the test type label of bundled job solutions.
const PrePackagedLabel = "Pre-packaged Job Solutions"

// Rejection reasons reported by Eligible.
const (
	ReasonPrePackaged     = "pre-packaged job solution"
	ReasonBundledSolution = "bundled solution without individual test type"
)

// Eligible applies the catalog eligibility rules in order and reports
// whether the record may become a document. The reason is empty when it may.
func Eligible(rec model.CatalogRecord) (bool, string) {
	if slices.Contains(rec.TestType, PrePackagedLabel) {
		return false, ReasonPrePackaged
	}

	name := ""
	if rec.Name != nil {
		name = *rec.Name
	}
	if strings.Contains(name, "Solution") && !strings.Contains(stringifyLabels(rec.TestType), "Individual") {
		return false, ReasonBundledSolution
	}

	return true, ""
}

// stringifyLabels renders the labels as one string so that substring checks
// also match inside a label, e.g. "Individual Test Solutions".
func stringifyLabels(labels []string) string {
	return fmt.Sprint(labels)
}
