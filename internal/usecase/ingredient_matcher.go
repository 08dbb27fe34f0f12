package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"

	"github.com/kitchentory/backend/internal/domain"
)

// Confidence levels per matching strategy
const (
	DefaultSimilarityThreshold = 0.7  // Minimum fuzzy similarity accepted as a partial match
	exactConfidence            = 1.0  // Normalized name is an inventory key
	variantConfidence          = 0.95 // Plural/singular or article-stripped form is an inventory key
	substringSimilarity        = 0.8  // Floor when one name contains the other
	substituteConfidence       = 0.7  // Resolved through the substitution table
)

// maxQuantityRatio caps available/required so surplus stock does not dominate
var maxQuantityRatio = decimal.NewFromInt(2)

// MatcherConfig holds configuration for the ingredient matcher
type MatcherConfig struct {
	SimilarityThreshold float64
	Substitutions       SubstitutionTable
}

// matchStrategy resolves a normalized ingredient name against the index, or reports no match
type matchStrategy func(name string, idx *InventoryIndex) (resolution, bool)

// resolution is what a strategy found before quantities are taken into account
type resolution struct {
	key        string
	matchType  domain.IngredientMatchType
	confidence float64
	notes      string
}

// IngredientMatcher resolves recipe ingredients against an inventory index using an
// ordered strategy chain: exact, variant, fuzzy, substitute. The first strategy to
// succeed wins; an ingredient no strategy resolves is reported missing.
type IngredientMatcher struct {
	similarityThreshold float64
	substitutions       *SubstitutionResolver
	strategies          []matchStrategy
}

// NewIngredientMatcher creates a matcher with the given configuration.
// A nil substitution table falls back to DefaultSubstitutions.
func NewIngredientMatcher(config MatcherConfig) *IngredientMatcher {
	threshold := config.SimilarityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}

	table := config.Substitutions
	if table == nil {
		table = DefaultSubstitutions()
	}

	m := &IngredientMatcher{
		similarityThreshold: threshold,
		substitutions:       NewSubstitutionResolver(table),
	}
	m.strategies = []matchStrategy{
		m.matchExact,
		m.matchVariant,
		m.matchFuzzy,
		m.matchSubstitute,
	}
	return m
}

// Match returns the single best IngredientMatch for spec. It never fails: anything
// unresolved comes back as a missing match.
func (m *IngredientMatcher) Match(spec domain.RecipeIngredientSpec, idx *InventoryIndex) domain.IngredientMatch {
	name := normalizeName(spec.Name)

	for _, strategy := range m.strategies {
		res, ok := strategy(name, idx)
		if !ok {
			continue
		}
		item, _ := idx.Lookup(res.key)
		return domain.IngredientMatch{
			Ingredient:    spec,
			Item:          &item,
			MatchType:     res.matchType,
			Confidence:    res.confidence,
			QuantityRatio: quantityRatio(spec.Quantity, item.Quantity),
			Notes:         res.notes,
		}
	}

	return domain.IngredientMatch{
		Ingredient:    spec,
		MatchType:     domain.IngredientMissing,
		Confidence:    0,
		QuantityRatio: 0,
		Notes:         "not in inventory",
	}
}

func (m *IngredientMatcher) matchExact(name string, idx *InventoryIndex) (resolution, bool) {
	if !idx.Contains(name) {
		return resolution{}, false
	}
	return resolution{
		key:        name,
		matchType:  domain.IngredientExact,
		confidence: exactConfidence,
		notes:      "exact match",
	}, true
}

func (m *IngredientMatcher) matchVariant(name string, idx *InventoryIndex) (resolution, bool) {
	key, ok := idx.ResolveVariant(name)
	if !ok {
		return resolution{}, false
	}
	return resolution{
		key:        key,
		matchType:  domain.IngredientExact,
		confidence: variantConfidence,
		notes:      fmt.Sprintf("matched variant %q", key),
	}, true
}

// matchFuzzy scans every inventory key in sorted order and keeps the first one with the
// highest similarity at or above the threshold.
func (m *IngredientMatcher) matchFuzzy(name string, idx *InventoryIndex) (resolution, bool) {
	bestKey := ""
	bestScore := 0.0

	for _, key := range idx.Keys() {
		score := similarity(name, key)
		if score >= m.similarityThreshold && score > bestScore {
			bestKey = key
			bestScore = score
		}
	}

	if bestKey == "" {
		return resolution{}, false
	}
	return resolution{
		key:        bestKey,
		matchType:  domain.IngredientPartial,
		confidence: bestScore,
		notes:      fmt.Sprintf("similar to %q (%.2f)", bestKey, bestScore),
	}, true
}

func (m *IngredientMatcher) matchSubstitute(name string, idx *InventoryIndex) (resolution, bool) {
	key, ok := m.substitutions.Resolve(name, idx)
	if !ok {
		return resolution{}, false
	}
	return resolution{
		key:        key,
		matchType:  domain.IngredientSubstitute,
		confidence: substituteConfidence,
		notes:      fmt.Sprintf("substitute: %s", key),
	}, true
}

// similarity returns a 0.0-1.0 ratio from the Levenshtein distance: 1 - distance/max(len(a), len(b)).
// When either string contains the other the ratio is raised to substringSimilarity.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	maxLen := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > maxLen {
		maxLen = lb
	}
	ratio := 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)

	if (strings.Contains(a, b) || strings.Contains(b, a)) && ratio < substringSimilarity {
		ratio = substringSimilarity
	}
	return ratio
}

// quantityRatio is available/required capped at 2.0. No (or non-positive) requirement
// counts as fully satisfied; a matched item with no positive quantity counts as none.
func quantityRatio(required *decimal.Decimal, available decimal.Decimal) float64 {
	if required == nil || !required.IsPositive() {
		return 1.0
	}
	if !available.IsPositive() {
		return 0.0
	}

	ratio := available.Div(*required)
	if ratio.GreaterThan(maxQuantityRatio) {
		ratio = maxQuantityRatio
	}
	f, _ := ratio.Float64()
	return f
}
