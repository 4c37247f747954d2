package model

// Document is an eligible catalog item prepared for retrieval.
// Documents are built once by the corpus loader and never mutated afterwards;
// they are shared read-only between concurrent requests.
type Document struct {
	URL             string
	Name            string
	Description     string
	Duration        *int
	TestType        []string
	AdaptiveSupport string
	RemoteSupport   string

	// ContentText is the embedding input: name, test type labels and description.
	ContentText string
	// Tokens is the normalized token set extracted from ContentText.
	Tokens map[string]struct{}
}

// Assessment is the external response shape of a recommended document.
// Field names are part of the public contract.
type Assessment struct {
	URL             string   `json:"url"`
	Name            string   `json:"name"`
	AdaptiveSupport string   `json:"adaptive_support"`
	Description     string   `json:"description"`
	Duration        *int     `json:"duration"`
	RemoteSupport   string   `json:"remote_support"`
	TestType        []string `json:"test_type"`
}

// ToAssessment projects a document into the response shape.
func (d *Document) ToAssessment() Assessment {
	testType := d.TestType
	if testType == nil {
		testType = []string{}
	}
	return Assessment{
		URL:             d.URL,
		Name:            d.Name,
		AdaptiveSupport: d.AdaptiveSupport,
		Description:     d.Description,
		Duration:        d.Duration,
		RemoteSupport:   d.RemoteSupport,
		TestType:        testType,
	}
}

// Query is the per-request representation of a free-text query.
type Query struct {
	RawText        string
	NormalizedText string              // Filler phrases removed, used for embedding
	Tokens         map[string]struct{} // Extracted from RawText, not NormalizedText
}

// Candidate is a retrieved document together with its fused ranking score.
type Candidate struct {
	Document         *Document
	Position         int     // Order in which the semantic index returned the document
	SemanticDistance float64 // Non-negative, lower is more similar
	LexicalOverlap   int
	FinalScore       float64 // Higher is better
}
