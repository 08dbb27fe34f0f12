package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kitchentory/backend/internal/domain"
)

// MockRecipeSource is a mock implementation of domain.RecipeSource
type MockRecipeSource struct {
	recipes []domain.Recipe
	err     error
}

func (m *MockRecipeSource) ListRecipes(ctx context.Context) ([]domain.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.recipes, nil
}

func (m *MockRecipeSource) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.recipes {
		if m.recipes[i].ID == id {
			return &m.recipes[i], nil
		}
	}
	return nil, domain.ErrRecipeNotFound
}

// recordingMetrics captures what the service reports
type recordingMetrics struct {
	operations []string
	results    []int
}

func (r *recordingMetrics) ObserveRecommendation(operation string, matches []domain.RecipeMatch, elapsed time.Duration) {
	r.operations = append(r.operations, operation)
	r.results = append(r.results, len(matches))
}

func serviceCatalog() []domain.Recipe {
	none := domain.DietaryFlags{}
	return []domain.Recipe{
		recipeOf("pancakes", domain.DietaryFlags{Vegetarian: true}, "flour", "eggs", "milk"),
		recipeOf("cake", none, "flour", "eggs", "sugar"),
		{
			ID:   "risotto",
			Name: "risotto",
			Ingredients: []domain.RecipeIngredientSpec{
				{Name: "butter"},
				{Name: "arborio rice", Product: &domain.ProductRef{ID: "rice-1kg"}},
			},
		},
	}
}

func newTestService(source domain.RecipeSource, feed domain.PriceFeed, metrics MetricsRecorder, cfg RecommendationServiceConfig) *RecommendationService {
	var pricing *PricingService
	if feed != nil {
		pricing = NewPricingService(NewMockCacheRepository(), feed, PricingServiceConfig{}, nil)
	}
	engine := NewRecommendationEngine(EngineConfig{}, nil)
	return NewRecommendationService(source, pricing, engine, metrics, cfg, nil)
}

func TestNewRecommendationService_Defaults(t *testing.T) {
	tests := []struct {
		name           string
		cfg            RecommendationServiceConfig
		wantLimit      int
		wantMaxMissing int
	}{
		{"zero config keeps max missing zero", RecommendationServiceConfig{}, DefaultLimit, 0},
		{"negative values fall back", RecommendationServiceConfig{DefaultLimit: -1, DefaultMaxMissing: -1}, DefaultLimit, DefaultMaxMissing},
		{"custom values kept", RecommendationServiceConfig{DefaultLimit: 5, DefaultMaxMissing: 1}, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&MockRecipeSource{}, nil, nil, tt.cfg)
			if svc.defaultLimit != tt.wantLimit {
				t.Errorf("defaultLimit = %d, want %d", svc.defaultLimit, tt.wantLimit)
			}
			if svc.defaultMaxMissing != tt.wantMaxMissing {
				t.Errorf("defaultMaxMissing = %d, want %d", svc.defaultMaxMissing, tt.wantMaxMissing)
			}
		})
	}
}

func TestRecommendationService_Recommend(t *testing.T) {
	ctx := context.Background()
	cfg := RecommendationServiceConfig{DefaultLimit: 20, DefaultMaxMissing: 3}

	t.Run("returns ranked matches and records metrics", func(t *testing.T) {
		metrics := &recordingMetrics{}
		svc := newTestService(&MockRecipeSource{recipes: serviceCatalog()}, nil, metrics, cfg)

		got, err := svc.Recommend(ctx, RecommendRequest{Inventory: pantry(), IncludeAlmostMatches: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !equalIDs(got, "pancakes", "cake", "risotto") {
			t.Errorf("got %v, want [pancakes cake risotto]", ids(got))
		}
		if len(metrics.operations) != 1 || metrics.operations[0] != OperationRecommend || metrics.results[0] != 3 {
			t.Errorf("metrics = %v %v, want one recommend call with 3 results", metrics.operations, metrics.results)
		}
	})

	t.Run("explicit zero max missing is honored", func(t *testing.T) {
		svc := newTestService(&MockRecipeSource{recipes: serviceCatalog()}, nil, nil, cfg)
		zero := 0

		got, err := svc.Recommend(ctx, RecommendRequest{Inventory: pantry(), MaxMissing: &zero, IncludeAlmostMatches: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !equalIDs(got, "pancakes") {
			t.Errorf("got %v, want [pancakes]", ids(got))
		}
	})

	t.Run("dietary filter and limit pass through", func(t *testing.T) {
		svc := newTestService(&MockRecipeSource{recipes: serviceCatalog()}, nil, nil, cfg)

		got, err := svc.Recommend(ctx, RecommendRequest{
			Inventory:            pantry(),
			DietaryFilters:       domain.DietaryFilter{domain.DietaryVegetarian: true},
			Limit:                1,
			IncludeAlmostMatches: true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !equalIDs(got, "pancakes") {
			t.Errorf("got %v, want [pancakes]", ids(got))
		}
	})

	t.Run("catalog failure is wrapped", func(t *testing.T) {
		svc := newTestService(&MockRecipeSource{err: errors.New("disk gone")}, nil, nil, cfg)

		_, err := svc.Recommend(ctx, RecommendRequest{Inventory: pantry()})
		if !errors.Is(err, domain.ErrCatalogUnavailable) {
			t.Errorf("err = %v, want ErrCatalogUnavailable", err)
		}
	})

	t.Run("feed prices flow into estimated cost", func(t *testing.T) {
		feed := NewMockPriceFeed(map[string]string{"rice-1kg": "4.99"})
		svc := newTestService(&MockRecipeSource{recipes: serviceCatalog()}, feed, nil, cfg)

		got, err := svc.Recommend(ctx, RecommendRequest{Inventory: pantry(), IncludeAlmostMatches: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, m := range got {
			if m.Recipe.ID != "risotto" {
				continue
			}
			if !m.EstimatedCost.Equal(decimal.RequireFromString("4.99")) {
				t.Errorf("risotto EstimatedCost = %s, want 4.99", m.EstimatedCost)
			}
			return
		}
		t.Error("risotto missing from results")
	})
}

func TestRecommendationService_ExactAndAlmost(t *testing.T) {
	ctx := context.Background()
	metrics := &recordingMetrics{}
	svc := newTestService(&MockRecipeSource{recipes: serviceCatalog()}, nil, metrics, RecommendationServiceConfig{DefaultLimit: 20, DefaultMaxMissing: 3})

	exact, err := svc.Exact(ctx, RecommendRequest{Inventory: pantry()})
	if err != nil {
		t.Fatalf("Exact: %v", err)
	}
	if !equalIDs(exact, "pancakes") {
		t.Errorf("Exact = %v, want [pancakes]", ids(exact))
	}

	almost, err := svc.Almost(ctx, RecommendRequest{Inventory: pantry()})
	if err != nil {
		t.Fatalf("Almost: %v", err)
	}
	if !equalIDs(almost, "cake", "risotto") {
		t.Errorf("Almost = %v, want [cake risotto]", ids(almost))
	}

	if len(metrics.operations) != 2 || metrics.operations[0] != OperationExact || metrics.operations[1] != OperationAlmost {
		t.Errorf("metrics operations = %v, want [exact almost]", metrics.operations)
	}
}

func TestRecommendationService_Cookability(t *testing.T) {
	ctx := context.Background()
	cfg := RecommendationServiceConfig{DefaultLimit: 20, DefaultMaxMissing: 3}

	t.Run("scores a catalog recipe", func(t *testing.T) {
		metrics := &recordingMetrics{}
		svc := newTestService(&MockRecipeSource{recipes: serviceCatalog()}, nil, metrics, cfg)

		got, err := svc.Cookability(ctx, "cake", pantry())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.MatchType != domain.RecipePartial || got.MissingCount != 1 {
			t.Errorf("got %s with %d missing, want partial with 1", got.MatchType, got.MissingCount)
		}
		if len(metrics.operations) != 1 || metrics.operations[0] != OperationCookability {
			t.Errorf("metrics operations = %v, want [cookability]", metrics.operations)
		}
	})

	t.Run("unknown recipe", func(t *testing.T) {
		svc := newTestService(&MockRecipeSource{recipes: serviceCatalog()}, nil, nil, cfg)

		_, err := svc.Cookability(ctx, "lasagna", pantry())
		if !errors.Is(err, domain.ErrRecipeNotFound) {
			t.Errorf("err = %v, want ErrRecipeNotFound", err)
		}
	})

	t.Run("empty id", func(t *testing.T) {
		svc := newTestService(&MockRecipeSource{recipes: serviceCatalog()}, nil, nil, cfg)

		_, err := svc.Cookability(ctx, "", pantry())
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("err = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("catalog failure is wrapped", func(t *testing.T) {
		svc := newTestService(&MockRecipeSource{err: errors.New("timeout")}, nil, nil, cfg)

		_, err := svc.Cookability(ctx, "cake", pantry())
		if !errors.Is(err, domain.ErrCatalogUnavailable) {
			t.Errorf("err = %v, want ErrCatalogUnavailable", err)
		}
	})
}
