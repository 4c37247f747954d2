package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gcbaptista/assessment-recommender/model"
)

// FieldIssue records an optional field that could not be used as supplied and
// was replaced by its default.
type FieldIssue struct {
	Position int
	Field    string
	Reason   string
}

func (i FieldIssue) String() string {
	return fmt.Sprintf("record %d field %s: %s", i.Position, i.Field, i.Reason)
}

// decodeRecord decodes one catalog element field by field. Only a non-object
// element or a url that is not a string fails the record; a badly typed
// optional field is dropped and reported as a FieldIssue.
func decodeRecord(pos int, item json.RawMessage) (model.CatalogRecord, []FieldIssue, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return model.CatalogRecord{}, nil, fmt.Errorf("record is not a JSON object")
	}

	var rec model.CatalogRecord
	var issues []FieldIssue
	issue := func(field, reason string) {
		issues = append(issues, FieldIssue{Position: pos, Field: field, Reason: reason})
	}

	if raw, ok := fields["url"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &rec.URL); err != nil {
			return model.CatalogRecord{}, nil, fmt.Errorf("url is not a string")
		}
	}

	for _, f := range []struct {
		name string
		dst  **string
	}{
		{"name", &rec.Name},
		{"description", &rec.Description},
		{"adaptive_support", &rec.AdaptiveSupport},
		{"remote_support", &rec.RemoteSupport},
	} {
		field, dst := f.name, f.dst
		raw, ok := fields[field]
		if !ok || isNull(raw) {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			issue(field, "expected a string, got "+kindOf(raw))
			continue
		}
		*dst = &s
	}

	if raw, ok := fields["duration"]; ok && !isNull(raw) {
		if minutes, ok := parseDuration(raw); ok {
			rec.Duration = &minutes
		} else {
			issue("duration", "expected whole minutes, got "+string(raw))
		}
	}

	if raw, ok := fields["test_type"]; ok && !isNull(raw) {
		labels, reason := parseLabels(raw)
		if reason != "" {
			issue("test_type", reason)
		}
		rec.TestType = labels
	}

	return rec, issues, nil
}

// parseDuration accepts a JSON number or numeric string holding a whole,
// non-negative number of minutes.
func parseDuration(raw json.RawMessage) (int, bool) {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(raw)
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// parseLabels accepts an array of strings or a single string. Non-string
// array elements are dropped.
func parseLabels(raw json.RawMessage) ([]string, string) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, ""
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, "expected a list of labels, got " + kindOf(raw)
	}

	labels := make([]string, 0, len(items))
	dropped := 0
	for _, item := range items {
		var label string
		if err := json.Unmarshal(item, &label); err != nil {
			dropped++
			continue
		}
		labels = append(labels, label)
	}
	if dropped > 0 {
		return labels, fmt.Sprintf("dropped %d non-string labels", dropped)
	}
	return labels, ""
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func kindOf(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "nothing"
	}
	switch trimmed[0] {
	case '"':
		return "a string"
	case '[':
		return "an array"
	case '{':
		return "an object"
	case 't', 'f':
		return "a boolean"
	default:
		return "a number"
	}
}
