// Package query turns a raw free-text request into its embedding text and
// lexical token set. The two are independent transforms of the same raw input:
// filler phrase removal never affects the token set.
package query

import (
	"strings"

	"github.com/gcbaptista/assessment-recommender/internal/tokenizer"
	"github.com/gcbaptista/assessment-recommender/model"
)

// Normalizer is immutable and safe for concurrent use.
type Normalizer struct {
	fillerPhrases []string
	tokenizer     *tokenizer.Tokenizer
}

// NewNormalizer creates a normalizer removing fillerPhrases in the given order.
// A nil tokenizer selects tokenizer.Default().
func NewNormalizer(fillerPhrases []string, tok *tokenizer.Tokenizer) *Normalizer {
	phrases := make([]string, 0, len(fillerPhrases))
	for _, p := range fillerPhrases {
		p = strings.ToLower(p)
		if strings.TrimSpace(p) != "" {
			phrases = append(phrases, p)
		}
	}
	if tok == nil {
		tok = tokenizer.Default()
	}
	return &Normalizer{fillerPhrases: phrases, tokenizer: tok}
}

// Normalize builds the query representation of raw.
func (n *Normalizer) Normalize(raw string) model.Query {
	return model.Query{
		RawText:        raw,
		NormalizedText: n.Clean(raw),
		Tokens:         n.tokenizer.Tokenize(raw),
	}
}

// Clean lower-cases text, strips every filler phrase and collapses whitespace.
func (n *Normalizer) Clean(text string) string {
	cleaned := strings.ToLower(text)
	for _, phrase := range n.fillerPhrases {
		cleaned = strings.ReplaceAll(cleaned, phrase, "")
	}
	return strings.Join(strings.Fields(cleaned), " ")
}

// EmbeddingText returns the text to embed for q. A query consisting only of
// filler phrases falls back to its lower-cased raw text.
func EmbeddingText(q model.Query) string {
	if q.NormalizedText != "" {
		return q.NormalizedText
	}
	return strings.Join(strings.Fields(strings.ToLower(q.RawText)), " ")
}
