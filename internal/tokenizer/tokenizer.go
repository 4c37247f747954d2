package tokenizer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenRegex matches a word starting with a letter, optionally joined to more
// alphanumeric runs by '.', '+' or '#', with optional trailing '+' or '#'.
// Keeps "node.js", "c++" and "c#" as single tokens. It is anchored; extract
// applies it only at word starts.
var tokenRegex = regexp.MustCompile(`^[a-z][a-z0-9]*(?:[.+#][a-z0-9]+)*[+#]*`)

// DefaultStopwords are role, seniority and process nouns that carry no skill signal.
var DefaultStopwords = []string{
	"hire", "hiring", "role", "junior", "senior",
	"developer", "engineer", "test", "assessment", "looking", "need",
}

// Set is an unordered collection of unique tokens.
type Set = map[string]struct{}

// Tokenizer extracts normalized token sets. It is immutable and safe for concurrent use.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// New creates a tokenizer with the given stopwords. Stopwords are lower-cased.
func New(stopwords []string) *Tokenizer {
	sw := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			sw[w] = struct{}{}
		}
	}
	return &Tokenizer{stopwords: sw}
}

var defaultTokenizer = New(DefaultStopwords)

// Default returns the tokenizer configured with DefaultStopwords.
func Default() *Tokenizer {
	return defaultTokenizer
}

// Tokenize converts text into a set of tokens using the default stopwords.
func Tokenize(text string) Set {
	return defaultTokenizer.Tokenize(text)
}

// Tokenize converts text into a set of tokens.
// It lowercases the text, extracts tokens, and drops stopwords and single-character tokens.
func (t *Tokenizer) Tokenize(text string) Set {
	// 1. Lowercase
	lowerText := strings.ToLower(text)

	// 2. Extract candidate tokens
	matches := extract(lowerText)

	// 3+4. Filter stopwords and short tokens
	tokens := make(Set, len(matches))
	for _, m := range matches {
		if len(m) <= 1 {
			continue
		}
		if _, stop := t.stopwords[m]; stop {
			continue
		}
		tokens[m] = struct{}{}
	}
	return tokens
}

// extract scans text left to right and returns every token that begins at a
// word boundary. A boundary requires the preceding rune to be a non-word rune,
// where word runes are Unicode letters, digits and '_', so "éjava" yields nothing.
func extract(text string) []string {
	var matches []string
	prev := utf8.RuneError
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r >= 'a' && r <= 'z' && !isWordRune(prev) {
			if loc := tokenRegex.FindStringIndex(text[i:]); loc != nil {
				match := text[i : i+loc[1]]
				matches = append(matches, match)
				prev, _ = utf8.DecodeLastRuneInString(match)
				i += loc[1]
				continue
			}
		}
		prev = r
		i += size
	}
	return matches
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// IsStopword reports whether word is in the stopword set.
func (t *Tokenizer) IsStopword(word string) bool {
	_, ok := t.stopwords[strings.ToLower(word)]
	return ok
}

// Intersect returns the number of tokens present in both sets.
func Intersect(a, b Set) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}

// Sorted returns the tokens of a set in lexical order, for logging and tests.
func Sorted(s Set) []string {
	out := make([]string, 0, len(s))
	for tok := range s {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}
