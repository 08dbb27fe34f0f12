package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kitchentory/backend/internal/domain"
)

// Operation names reported to the metrics recorder
const (
	OperationRecommend   = "recommend"
	OperationExact       = "exact"
	OperationAlmost      = "almost"
	OperationCookability = "cookability"
)

// Fallbacks for request knobs left unset
const (
	DefaultLimit      = 20
	DefaultMaxMissing = 3
)

// MetricsRecorder receives the outcome of every recommendation call
type MetricsRecorder interface {
	ObserveRecommendation(operation string, matches []domain.RecipeMatch, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ObserveRecommendation(string, []domain.RecipeMatch, time.Duration) {}

// RecommendationServiceConfig holds configuration for the recommendation service
type RecommendationServiceConfig struct {
	DefaultLimit      int
	DefaultMaxMissing int
}

// RecommendRequest is a recommendation call after boundary validation.
// Zero Limit and nil MaxMissing take the configured defaults.
type RecommendRequest struct {
	Inventory            []domain.AvailableItem
	DietaryFilters       domain.DietaryFilter
	Limit                int
	MaxMissing           *int
	IncludeAlmostMatches bool
}

// RecommendationService fetches candidate recipes, prices their products and hands
// everything to the RecommendationEngine.
// Flow: catalog -> price enrichment -> engine -> metrics
type RecommendationService struct {
	recipes           domain.RecipeSource
	pricing           *PricingService
	engine            *RecommendationEngine
	metrics           MetricsRecorder
	logger            *zap.Logger
	defaultLimit      int
	defaultMaxMissing int
}

// NewRecommendationService creates a new recommendation service with dependencies.
// pricing and metrics may be nil.
func NewRecommendationService(
	recipes domain.RecipeSource,
	pricing *PricingService,
	engine *RecommendationEngine,
	metrics MetricsRecorder,
	config RecommendationServiceConfig,
	logger *zap.Logger,
) *RecommendationService {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := config.DefaultLimit
	if limit <= 0 {
		limit = DefaultLimit
	}
	maxMissing := config.DefaultMaxMissing
	if maxMissing < 0 {
		maxMissing = DefaultMaxMissing
	}

	return &RecommendationService{
		recipes:           recipes,
		pricing:           pricing,
		engine:            engine,
		metrics:           metrics,
		logger:            logger,
		defaultLimit:      limit,
		defaultMaxMissing: maxMissing,
	}
}

// Recommend returns the ranked recipe matches for an inventory
func (s *RecommendationService) Recommend(ctx context.Context, req RecommendRequest) ([]domain.RecipeMatch, error) {
	start := time.Now()

	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}

	matches, err := s.engine.FindMatchingRecipes(ctx, req.Inventory, candidates, domain.RecommendationQuery{
		Limit:                s.limit(req.Limit),
		DietaryFilters:       req.DietaryFilters,
		MaxMissing:           s.maxMissing(req.MaxMissing),
		IncludeAlmostMatches: req.IncludeAlmostMatches,
	})
	if err != nil {
		return nil, err
	}

	s.observe(OperationRecommend, matches, start)
	return matches, nil
}

// Exact returns recipes the inventory covers completely
func (s *RecommendationService) Exact(ctx context.Context, req RecommendRequest) ([]domain.RecipeMatch, error) {
	start := time.Now()

	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}

	matches, err := s.engine.ExactMatches(ctx, req.Inventory, candidates, s.limit(req.Limit))
	if err != nil {
		return nil, err
	}

	s.observe(OperationExact, matches, start)
	return matches, nil
}

// Almost returns recipes that are close to cookable: almost or partial matches
func (s *RecommendationService) Almost(ctx context.Context, req RecommendRequest) ([]domain.RecipeMatch, error) {
	start := time.Now()

	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}

	matches, err := s.engine.AlmostMatches(ctx, req.Inventory, candidates, s.limit(req.Limit), s.maxMissing(req.MaxMissing))
	if err != nil {
		return nil, err
	}

	s.observe(OperationAlmost, matches, start)
	return matches, nil
}

// Cookability scores a single catalog recipe against an inventory
func (s *RecommendationService) Cookability(ctx context.Context, recipeID string, inventory []domain.AvailableItem) (*domain.RecipeMatch, error) {
	if recipeID == "" {
		return nil, domain.ErrInvalidRequest
	}
	start := time.Now()

	recipe, err := s.recipes.GetRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	priced := s.pricing.EnrichRecipes(ctx, []domain.Recipe{*recipe})
	match := s.engine.CheckCookability(inventory, priced[0])

	s.observe(OperationCookability, []domain.RecipeMatch{match}, start)
	return &match, nil
}

func (s *RecommendationService) candidates(ctx context.Context) ([]domain.Recipe, error) {
	recipes, err := s.recipes.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return s.pricing.EnrichRecipes(ctx, recipes), nil
}

func (s *RecommendationService) limit(requested int) int {
	if requested <= 0 {
		return s.defaultLimit
	}
	return requested
}

func (s *RecommendationService) maxMissing(requested *int) int {
	if requested == nil || *requested < 0 {
		return s.defaultMaxMissing
	}
	return *requested
}

func (s *RecommendationService) observe(operation string, matches []domain.RecipeMatch, start time.Time) {
	elapsed := time.Since(start)
	s.metrics.ObserveRecommendation(operation, matches, elapsed)
	s.logger.Info("recommendation served",
		zap.String("operation", operation),
		zap.Int("results", len(matches)),
		zap.Duration("elapsed", elapsed),
	)
}
