package model

// CatalogRecord is a raw catalog entry as supplied in the corpus file.
// Optional fields are pointers or nil slices so that absence can be told apart
// from an explicit value; the corpus loader resolves them to defaults.
type CatalogRecord struct {
	Name            *string  `json:"name,omitempty"`
	URL             string   `json:"url"`
	Description     *string  `json:"description,omitempty"`
	Duration        *int     `json:"duration,omitempty"` // Minutes
	TestType        []string `json:"test_type,omitempty"`
	AdaptiveSupport *string  `json:"adaptive_support,omitempty"` // "Yes" or "No"
	RemoteSupport   *string  `json:"remote_support,omitempty"`   // "Yes" or "No"
}

// StringPtr returns a pointer to s. Handy for building records in code.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to i.
func IntPtr(i int) *int {
	return &i
}
