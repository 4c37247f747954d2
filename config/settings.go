// Package config provides configuration structures for the recommender.
// It defines corpus defaults, tokenizer and query rules, fusion weights,
// embedding backends and server options.
package config

import (
	"strings"

	"github.com/gcbaptista/assessment-recommender/internal/tokenizer"
)

// Fusion policy names accepted in FusionSettings.Policy.
const (
	FusionBounded  = "bounded"
	FusionAdditive = "additive"
)

// Embedding provider names accepted in EmbeddingSettings.Provider.
const (
	EmbeddingHashing = "hashing"
	EmbeddingOpenAI  = "openai"
)

const (
	DefaultCandidatePool = 30
	DefaultResultLimit   = 10
)

// DefaultStopwords are domain filler words removed by the tokenizer.
var DefaultStopwords = tokenizer.DefaultStopwords

// DefaultFillerPhrases are stripped from a query before it is embedded, in this order.
var DefaultFillerPhrases = []string{
	"i am hiring for",
	"looking to hire",
	"i need a",
	"we are looking for",
}

// RecordDefaults are applied to optional CatalogRecord fields at load time.
type RecordDefaults struct {
	Name            string `json:"name" toml:"name"`
	AdaptiveSupport string `json:"adaptive_support" toml:"adaptive_support"`
	RemoteSupport   string `json:"remote_support" toml:"remote_support"`
}

// TokenizerSettings configures the lexical tokenizer.
type TokenizerSettings struct {
	Stopwords []string `json:"stopwords" toml:"stopwords"`
}

// QuerySettings configures query normalization.
type QuerySettings struct {
	FillerPhrases      []string `json:"filler_phrases" toml:"filler_phrases"`             // Replaces the default list when non-empty
	ExtraFillerPhrases []string `json:"extra_filler_phrases" toml:"extra_filler_phrases"` // Appended after FillerPhrases (e.g. "proficient in")
}

// FusionSettings selects how semantic similarity and lexical overlap are combined.
//
// "bounded":  score = sim*SemanticWeight + min(1, overlap/max(|Q|,1))*LexicalWeight
// "additive": score = sim*SemanticWeight + overlap*LexicalWeight
type FusionSettings struct {
	Policy         string  `json:"policy" toml:"policy"`
	SemanticWeight float64 `json:"semantic_weight" toml:"semantic_weight"`
	LexicalWeight  float64 `json:"lexical_weight" toml:"lexical_weight"`
}

// EmbeddingSettings configures the embedding backend used by the semantic index.
type EmbeddingSettings struct {
	Provider          string  `json:"provider" toml:"provider"` // "hashing" or "openai"
	Host              string  `json:"host" toml:"host"`         // OpenAI-compatible base URL, e.g. http://localhost:11434/v1
	Model             string  `json:"model" toml:"model"`
	Token             string  `json:"token" toml:"token"`
	Dimensions        int     `json:"dimensions" toml:"dimensions"` // Only used by the hashing provider
	BatchSize         int     `json:"batch_size" toml:"batch_size"`
	Workers           int     `json:"workers" toml:"workers"`
	CacheDir          string  `json:"cache_dir" toml:"cache_dir"` // Empty disables the vector cache
	RequestsPerSecond float64 `json:"requests_per_second" toml:"requests_per_second"`
	Burst             int     `json:"burst" toml:"burst"`
}

// ServerSettings configures the HTTP wrapper.
type ServerSettings struct {
	Port              string  `json:"port" toml:"port"`
	MaxBodyBytes      int64   `json:"max_body_bytes" toml:"max_body_bytes"`
	RequestTimeoutSec int     `json:"request_timeout_sec" toml:"request_timeout_sec"`
	RateLimit         float64 `json:"rate_limit" toml:"rate_limit"` // Requests per second, 0 disables
	RateBurst         int     `json:"rate_burst" toml:"rate_burst"`
	ReloadWorkers     int     `json:"reload_workers" toml:"reload_workers"`
}

// Settings contains all configuration options for the recommender.
type Settings struct {
	CorpusPath    string            `json:"corpus_path" toml:"corpus_path"`
	CandidatePool int               `json:"candidate_pool" toml:"candidate_pool"` // Neighbours fetched from the semantic index per query
	ResultLimit   int               `json:"result_limit" toml:"result_limit"`     // Maximum recommendations returned
	Defaults      RecordDefaults    `json:"defaults" toml:"defaults"`
	Tokenizer     TokenizerSettings `json:"tokenizer" toml:"tokenizer"`
	Query         QuerySettings     `json:"query" toml:"query"`
	Fusion        FusionSettings    `json:"fusion" toml:"fusion"`
	Embedding     EmbeddingSettings `json:"embedding" toml:"embedding"`
	Server        ServerSettings    `json:"server" toml:"server"`
}

// Default returns settings with every default applied.
func Default() Settings {
	var s Settings
	s.ApplyDefaults()
	return s
}

// FillerPhrases returns the effective, ordered filler phrase list.
func (s *Settings) FillerPhrases() []string {
	phrases := make([]string, 0, len(s.Query.FillerPhrases)+len(s.Query.ExtraFillerPhrases))
	phrases = append(phrases, s.Query.FillerPhrases...)
	phrases = append(phrases, s.Query.ExtraFillerPhrases...)
	return phrases
}

// ApplyDefaults applies default values to the settings
func (s *Settings) ApplyDefaults() {
	if s.CorpusPath == "" {
		s.CorpusPath = "data/raw_assessments.json"
	}
	if s.CandidatePool <= 0 {
		s.CandidatePool = DefaultCandidatePool
	}
	if s.ResultLimit <= 0 {
		s.ResultLimit = DefaultResultLimit
	}

	if s.Defaults.Name == "" {
		s.Defaults.Name = "Unknown"
	}
	if s.Defaults.AdaptiveSupport == "" {
		s.Defaults.AdaptiveSupport = "No"
	}
	if s.Defaults.RemoteSupport == "" {
		s.Defaults.RemoteSupport = "Yes"
	}

	if len(s.Tokenizer.Stopwords) == 0 {
		s.Tokenizer.Stopwords = append([]string(nil), DefaultStopwords...)
	}
	if len(s.Query.FillerPhrases) == 0 {
		s.Query.FillerPhrases = append([]string(nil), DefaultFillerPhrases...)
	}

	s.Fusion.Policy = strings.ToLower(strings.TrimSpace(s.Fusion.Policy))
	if s.Fusion.Policy == "" {
		s.Fusion.Policy = FusionBounded
	}
	// Each policy has its own reference weights
	if s.Fusion.SemanticWeight == 0 && s.Fusion.LexicalWeight == 0 {
		switch s.Fusion.Policy {
		case FusionAdditive:
			s.Fusion.SemanticWeight = 0.5
			s.Fusion.LexicalWeight = 0.3
		default:
			s.Fusion.SemanticWeight = 0.7
			s.Fusion.LexicalWeight = 0.3
		}
	}

	if s.Embedding.Provider == "" {
		s.Embedding.Provider = EmbeddingHashing
	}
	if s.Embedding.Dimensions <= 0 {
		s.Embedding.Dimensions = 384
	}
	if s.Embedding.BatchSize <= 0 {
		s.Embedding.BatchSize = 32
	}
	if s.Embedding.Workers <= 0 {
		s.Embedding.Workers = 4
	}
	if s.Embedding.Provider == EmbeddingOpenAI {
		if s.Embedding.Host == "" {
			s.Embedding.Host = "http://localhost:11434/v1"
		}
		if s.Embedding.Model == "" {
			s.Embedding.Model = "all-minilm"
		}
		if s.Embedding.Token == "" {
			s.Embedding.Token = "none"
		}
	}
	if s.Embedding.RequestsPerSecond > 0 && s.Embedding.Burst <= 0 {
		s.Embedding.Burst = 1
	}

	if s.Server.Port == "" {
		s.Server.Port = "5000"
	}
	if s.Server.MaxBodyBytes <= 0 {
		s.Server.MaxBodyBytes = 1 << 20
	}
	if s.Server.RequestTimeoutSec <= 0 {
		s.Server.RequestTimeoutSec = 30
	}
	if s.Server.RateLimit > 0 && s.Server.RateBurst <= 0 {
		s.Server.RateBurst = int(s.Server.RateLimit) + 1
	}
	if s.Server.ReloadWorkers <= 0 {
		s.Server.ReloadWorkers = 1
	}
}

// Validate checks the settings and returns a list of problems, empty when valid.
func (s *Settings) Validate() []string {
	var problems []string

	if strings.TrimSpace(s.CorpusPath) == "" {
		problems = append(problems, "corpus_path cannot be empty")
	}
	if s.CandidatePool < 1 {
		problems = append(problems, "candidate_pool must be at least 1")
	}
	if s.ResultLimit < 1 {
		problems = append(problems, "result_limit must be at least 1")
	}
	if s.CandidatePool < s.ResultLimit {
		problems = append(problems, "candidate_pool must not be smaller than result_limit")
	}

	switch s.Fusion.Policy {
	case FusionBounded, FusionAdditive:
	default:
		problems = append(problems, "Invalid fusion policy '"+s.Fusion.Policy+"' (must be 'bounded' or 'additive')")
	}
	if s.Fusion.SemanticWeight < 0 || s.Fusion.LexicalWeight < 0 {
		problems = append(problems, "fusion weights cannot be negative")
	}

	switch s.Embedding.Provider {
	case EmbeddingHashing:
		if s.Embedding.Dimensions < 8 {
			problems = append(problems, "embedding.dimensions must be at least 8 for the hashing provider")
		}
	case EmbeddingOpenAI:
		if s.Embedding.Host == "" {
			problems = append(problems, "embedding.host is required for the openai provider")
		}
		if s.Embedding.Model == "" {
			problems = append(problems, "embedding.model is required for the openai provider")
		}
	default:
		problems = append(problems, "Invalid embedding provider '"+s.Embedding.Provider+"' (must be 'hashing' or 'openai')")
	}

	problems = append(problems, checkBlank("tokenizer.stopwords", s.Tokenizer.Stopwords)...)
	problems = append(problems, checkBlank("query.filler_phrases", s.FillerPhrases())...)
	problems = append(problems, checkDuplicates("tokenizer.stopwords", s.Tokenizer.Stopwords)...)

	return problems
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, values []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, v := range values {
		if seen[v] {
			errors = append(errors, "Duplicate value '"+v+"' found in "+fieldName)
		}
		seen[v] = true
	}

	return errors
}

func checkBlank(fieldName string, values []string) []string {
	var errors []string
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			errors = append(errors, "Empty or whitespace-only value found in "+fieldName)
		}
	}
	return errors
}
