package usecase

import (
	"context"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitchentory/backend/internal/domain"
)

// DefaultOverFetchFactor is how many candidates per requested result get scored before
// filtering. Scoring more than limit leaves room for candidates rejected after scoring.
const DefaultOverFetchFactor = 2

// EngineConfig holds configuration for the recommendation engine
type EngineConfig struct {
	SimilarityThreshold float64
	Substitutions       SubstitutionTable
	OverFetchFactor     int
	MissingCost         *decimal.Decimal
	Workers             int
}

// RecommendationEngine ranks candidate recipes against a user's inventory.
// It holds no per-request state: every call builds its own InventoryIndex, so one engine
// can serve concurrent sessions.
type RecommendationEngine struct {
	scorer          *RecipeScorer
	overFetchFactor int
	workers         int
	logger          *zap.Logger
}

// NewRecommendationEngine creates an engine with the given configuration
func NewRecommendationEngine(config EngineConfig, logger *zap.Logger) *RecommendationEngine {
	if logger == nil {
		logger = zap.NewNop()
	}

	factor := config.OverFetchFactor
	if factor < 1 {
		factor = DefaultOverFetchFactor
	}

	workers := config.Workers
	if workers < 1 {
		workers = 1
	}

	missingCost := DefaultMissingCost
	if config.MissingCost != nil {
		missingCost = *config.MissingCost
	}

	matcher := NewIngredientMatcher(MatcherConfig{
		SimilarityThreshold: config.SimilarityThreshold,
		Substitutions:       config.Substitutions,
	})

	return &RecommendationEngine{
		scorer:          NewRecipeScorer(matcher, missingCost, logger),
		overFetchFactor: factor,
		workers:         workers,
		logger:          logger,
	}
}

// FindMatchingRecipes filters candidates by diet, scores the first OverFetchFactor×limit of
// them, keeps those within the missing budget that are cookable (or any, when almost
// matches are included), and returns the best limit results by score. Equal scores keep
// their candidate order. The only error is context cancellation.
func (e *RecommendationEngine) FindMatchingRecipes(
	ctx context.Context,
	items []domain.AvailableItem,
	candidates []domain.Recipe,
	query domain.RecommendationQuery,
) ([]domain.RecipeMatch, error) {
	if query.Limit <= 0 || len(candidates) == 0 {
		return []domain.RecipeMatch{}, nil
	}

	filtered := filterByDiet(candidates, query.DietaryFilters)
	// a limit too large to multiply already covers every candidate
	if query.Limit <= math.MaxInt/e.overFetchFactor {
		if window := query.Limit * e.overFetchFactor; len(filtered) > window {
			filtered = filtered[:window]
		}
	}

	idx := BuildInventoryIndex(items)
	scored, err := e.scoreAll(ctx, filtered, idx)
	if err != nil {
		return nil, err
	}

	kept := make([]domain.RecipeMatch, 0, len(scored))
	for _, match := range scored {
		if match.MissingCount <= query.MaxMissing && (match.Cookable || query.IncludeAlmostMatches) {
			kept = append(kept, match)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].OverallScore > kept[j].OverallScore
	})

	if len(kept) > query.Limit {
		kept = kept[:query.Limit]
	}

	e.logger.Debug("ranked recipes",
		zap.Int("candidates", len(candidates)),
		zap.Int("scored", len(scored)),
		zap.Int("returned", len(kept)),
		zap.Int("inventory", idx.Len()),
	)

	return kept, nil
}

// ExactMatches returns only recipes with nothing missing
func (e *RecommendationEngine) ExactMatches(
	ctx context.Context,
	items []domain.AvailableItem,
	candidates []domain.Recipe,
	limit int,
) ([]domain.RecipeMatch, error) {
	matches, err := e.FindMatchingRecipes(ctx, items, candidates, domain.RecommendationQuery{
		Limit:                limit,
		MaxMissing:           0,
		IncludeAlmostMatches: false,
	})
	if err != nil {
		return nil, err
	}
	return filterByMatchType(matches, domain.RecipePerfect), nil
}

// AlmostMatches returns recipes that are close but not perfect: almost or partial
func (e *RecommendationEngine) AlmostMatches(
	ctx context.Context,
	items []domain.AvailableItem,
	candidates []domain.Recipe,
	limit int,
	maxMissing int,
) ([]domain.RecipeMatch, error) {
	matches, err := e.FindMatchingRecipes(ctx, items, candidates, domain.RecommendationQuery{
		Limit:                limit,
		MaxMissing:           maxMissing,
		IncludeAlmostMatches: true,
	})
	if err != nil {
		return nil, err
	}
	return filterByMatchType(matches, domain.RecipeAlmost, domain.RecipePartial), nil
}

// CheckCookability scores one recipe directly, bypassing filtering, over-fetch and limits
func (e *RecommendationEngine) CheckCookability(items []domain.AvailableItem, recipe domain.Recipe) domain.RecipeMatch {
	return e.scorer.ScoreRecipe(recipe, BuildInventoryIndex(items))
}

// scoreAll scores recipes in input order. With more than one worker the recipes are
// fanned out; each result is written to its own slot so order is unaffected.
func (e *RecommendationEngine) scoreAll(ctx context.Context, recipes []domain.Recipe, idx *InventoryIndex) ([]domain.RecipeMatch, error) {
	results := make([]domain.RecipeMatch, len(recipes))

	if e.workers == 1 || len(recipes) < 2 {
		for i, recipe := range recipes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = e.scorer.ScoreRecipe(recipe, idx)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range recipes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.scorer.ScoreRecipe(recipes[i], idx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// filterByDiet keeps recipes carrying every requested dietary flag, preserving order
func filterByDiet(recipes []domain.Recipe, filter domain.DietaryFilter) []domain.Recipe {
	if len(filter) == 0 {
		return recipes
	}
	filtered := make([]domain.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if recipe.Dietary.Satisfies(filter) {
			filtered = append(filtered, recipe)
		}
	}
	return filtered
}

func filterByMatchType(matches []domain.RecipeMatch, types ...domain.RecipeMatchType) []domain.RecipeMatch {
	filtered := make([]domain.RecipeMatch, 0, len(matches))
	for _, match := range matches {
		for _, t := range types {
			if match.MatchType == t {
				filtered = append(filtered, match)
				break
			}
		}
	}
	return filtered
}
