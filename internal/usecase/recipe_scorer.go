package usecase

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kitchentory/backend/internal/domain"
)

// Weighting and classification bounds for recipe scoring
const (
	requiredWeight    = 1.0
	optionalWeight    = 0.5
	maxAlmostMissing  = 2 // Missing ingredients tolerated when all are optional
	maxPartialMissing = 3 // Beyond this a recipe is impossible
)

// DefaultMissingCost is charged for a missing ingredient with no known product price
var DefaultMissingCost = decimal.RequireFromString("3.00")

// RecipeScorer aggregates per-ingredient matches into a RecipeMatch
type RecipeScorer struct {
	matcher     *IngredientMatcher
	missingCost decimal.Decimal
	logger      *zap.Logger
}

// NewRecipeScorer creates a scorer. A negative missingCost falls back to DefaultMissingCost.
func NewRecipeScorer(matcher *IngredientMatcher, missingCost decimal.Decimal, logger *zap.Logger) *RecipeScorer {
	if missingCost.IsNegative() {
		missingCost = DefaultMissingCost
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeScorer{
		matcher:     matcher,
		missingCost: missingCost,
		logger:      logger,
	}
}

// ScoreRecipe matches every ingredient of recipe in order and classifies the result.
// A recipe with no ingredients scores 0.0 and, having nothing missing, is perfect.
func (s *RecipeScorer) ScoreRecipe(recipe domain.Recipe, idx *InventoryIndex) domain.RecipeMatch {
	result := domain.RecipeMatch{
		Recipe:             recipe,
		IngredientMatches:  make([]domain.IngredientMatch, 0, len(recipe.Ingredients)),
		MissingIngredients: []domain.RecipeIngredientSpec{},
		EstimatedCost:      decimal.Zero,
	}

	total, weightTotal := 0.0, 0.0
	allMissingOptional := true

	for _, spec := range recipe.Ingredients {
		match := s.matcher.Match(spec, idx)
		result.IngredientMatches = append(result.IngredientMatches, match)

		switch match.MatchType {
		case domain.IngredientMissing:
			result.MissingIngredients = append(result.MissingIngredients, spec)
			result.MissingCount++
			result.EstimatedCost = result.EstimatedCost.Add(s.replacementCost(spec))
			if !spec.Optional {
				allMissingOptional = false
			}
		case domain.IngredientSubstitute:
			result.SubstitutionCount++
		}

		weight := requiredWeight
		if spec.Optional {
			weight = optionalWeight
		}
		total += match.Confidence * weight
		weightTotal += weight
	}

	if weightTotal > 0 {
		result.OverallScore = total / weightTotal
	}

	result.MatchType, result.Cookable = classify(result.MissingCount, allMissingOptional)

	s.logger.Debug("scored recipe",
		zap.String("recipe", recipe.Name),
		zap.Float64("score", result.OverallScore),
		zap.String("match_type", string(result.MatchType)),
		zap.Int("missing", result.MissingCount),
		zap.Int("substitutions", result.SubstitutionCount),
	)

	return result
}

// replacementCost is the linked product's average price when known, else the default
func (s *RecipeScorer) replacementCost(spec domain.RecipeIngredientSpec) decimal.Decimal {
	if spec.Product != nil && spec.Product.AveragePrice != nil && !spec.Product.AveragePrice.IsNegative() {
		return *spec.Product.AveragePrice
	}
	return s.missingCost
}

// classify buckets a recipe by how many ingredients are missing. Rules apply in order.
func classify(missing int, allMissingOptional bool) (domain.RecipeMatchType, bool) {
	switch {
	case missing == 0:
		return domain.RecipePerfect, true
	case missing <= maxAlmostMissing && allMissingOptional:
		return domain.RecipeAlmost, true
	case missing <= maxPartialMissing:
		return domain.RecipePartial, false
	default:
		return domain.RecipeImpossible, false
	}
}
