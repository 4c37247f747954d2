package scoring

import (
	"fmt"
	"math"

	"github.com/gcbaptista/assessment-recommender/config"
)

// FusionPolicy combines a semantic similarity in (0,1] with a lexical overlap
// count into a single ranking score. Implementations must be pure.
type FusionPolicy interface {
	Name() string
	Fuse(similarity float64, overlap, queryTokens int) float64
}

// Bounded caps the lexical bonus at 1 by normalizing the overlap by the query
// token count, so scores stay in [0, SemanticWeight+LexicalWeight].
type Bounded struct {
	SemanticWeight float64
	LexicalWeight  float64
}

func (Bounded) Name() string { return config.FusionBounded }

// Fuse implements FusionPolicy.
func (p Bounded) Fuse(similarity float64, overlap, queryTokens int) float64 {
	return similarity*p.SemanticWeight + LexicalBonus(overlap, queryTokens)*p.LexicalWeight
}

// Additive adds LexicalWeight per overlapping token without a cap, so exact
// keyword matches dominate semantic closeness.
type Additive struct {
	SemanticWeight float64
	LexicalWeight  float64
}

func (Additive) Name() string { return config.FusionAdditive }

// Fuse implements FusionPolicy.
func (p Additive) Fuse(similarity float64, overlap, _ int) float64 {
	return similarity*p.SemanticWeight + float64(overlap)*p.LexicalWeight
}

// LexicalBonus returns min(1, overlap/max(queryTokens,1)).
func LexicalBonus(overlap, queryTokens int) float64 {
	denominator := queryTokens
	if denominator < 1 {
		denominator = 1
	}
	return math.Min(1.0, float64(overlap)/float64(denominator))
}

// Similarity maps a non-negative distance to (0,1], with 1 at distance 0.
func Similarity(distance float64) float64 {
	return 1 / (1 + distance)
}

// NewPolicy builds the fusion policy selected in settings.
func NewPolicy(settings config.FusionSettings) (FusionPolicy, error) {
	switch settings.Policy {
	case config.FusionBounded:
		return Bounded{SemanticWeight: settings.SemanticWeight, LexicalWeight: settings.LexicalWeight}, nil
	case config.FusionAdditive:
		return Additive{SemanticWeight: settings.SemanticWeight, LexicalWeight: settings.LexicalWeight}, nil
	default:
		return nil, fmt.Errorf("unknown fusion policy '%s'", settings.Policy)
	}
}
