package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidInput is returned when the query is missing or empty
	ErrInvalidInput = errors.New("invalid input")

	// ErrDataRecord is returned for a catalog record that cannot be turned into a document
	ErrDataRecord = errors.New("malformed catalog record")

	// ErrRetrievalFailed is returned when the semantic index lookup fails or times out
	ErrRetrievalFailed = errors.New("retrieval failed")

	// ErrScoringAnomaly is returned for a candidate that cannot be scored
	ErrScoringAnomaly = errors.New("scoring anomaly")

	// ErrEmptyCorpus is returned when no usable documents survive loading
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")
)

// Kind classifies an error for transport mapping and analytics.
type Kind string

const (
	KindInput       Kind = "input"
	KindData        Kind = "data"
	KindRetrieval   Kind = "retrieval"
	KindScoring     Kind = "scoring"
	KindEmptyCorpus Kind = "empty_corpus"
	KindNotFound    Kind = "not_found"
	KindInternal    Kind = "internal"
)

// KindOf reports the taxonomy kind of err. Unknown errors are internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInput
	case errors.Is(err, ErrDataRecord):
		return KindData
	case errors.Is(err, ErrRetrievalFailed):
		return KindRetrieval
	case errors.Is(err, ErrScoringAnomaly):
		return KindScoring
	case errors.Is(err, ErrEmptyCorpus):
		return KindEmptyCorpus
	case errors.Is(err, ErrJobNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

// InputError represents an invalid recommend request with context
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid input for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInputError creates a new InputError
func NewInputError(field, message string) *InputError {
	return &InputError{Field: field, Message: message}
}

// DataError describes a catalog record skipped during corpus load
type DataError struct {
	Position int
	URL      string
	Reason   string
}

func (e *DataError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("record %d (%s) skipped: %s", e.Position, e.URL, e.Reason)
	}
	return fmt.Sprintf("record %d skipped: %s", e.Position, e.Reason)
}

func (e *DataError) Is(target error) bool {
	return target == ErrDataRecord
}

// NewDataError creates a new DataError
func NewDataError(position int, url, reason string) *DataError {
	return &DataError{Position: position, URL: url, Reason: reason}
}

// RetrievalError wraps a failure of the embedding or vector search step
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed during %s: %v", e.Op, e.Err)
}

func (e *RetrievalError) Is(target error) bool {
	return target == ErrRetrievalFailed
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// NewRetrievalError creates a new RetrievalError
func NewRetrievalError(op string, err error) *RetrievalError {
	return &RetrievalError{Op: op, Err: err}
}

// ScoringAnomalyError describes a candidate the scorer had to skip
type ScoringAnomalyError struct {
	Position int
	Reason   string
}

func (e *ScoringAnomalyError) Error() string {
	return fmt.Sprintf("candidate %d skipped: %s", e.Position, e.Reason)
}

func (e *ScoringAnomalyError) Is(target error) bool {
	return target == ErrScoringAnomaly
}

// NewScoringAnomalyError creates a new ScoringAnomalyError
func NewScoringAnomalyError(position int, reason string) *ScoringAnomalyError {
	return &ScoringAnomalyError{Position: position, Reason: reason}
}

// EmptyCorpusError is returned when a corpus load yields zero usable documents
type EmptyCorpusError struct {
	Source  string
	Records int
}

func (e *EmptyCorpusError) Error() string {
	return fmt.Sprintf("corpus '%s' has no usable documents (%d records read)", e.Source, e.Records)
}

func (e *EmptyCorpusError) Is(target error) bool {
	return target == ErrEmptyCorpus
}

// NewEmptyCorpusError creates a new EmptyCorpusError
func NewEmptyCorpusError(source string, records int) *EmptyCorpusError {
	return &EmptyCorpusError{Source: source, Records: records}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}
