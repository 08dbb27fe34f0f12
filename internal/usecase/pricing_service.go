package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kitchentory/backend/internal/domain"
)

var cacheKeyUnsafeRegex = regexp.MustCompile(`[^a-z0-9_\-]`)

// PricingServiceConfig holds configuration for the pricing service
type PricingServiceConfig struct {
	CacheTTL time.Duration
}

// PricingService fills in average product prices on recipe lines before scoring.
// Lookups go cache first, then the price feed. Any failure leaves the price unknown,
// which the scorer turns into the default replacement cost.
type PricingService struct {
	cache    domain.CacheRepository
	feed     domain.PriceFeed
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewPricingService creates a new pricing service with dependencies.
// A nil feed disables enrichment.
func NewPricingService(
	cache domain.CacheRepository,
	feed domain.PriceFeed,
	config PricingServiceConfig,
	logger *zap.Logger,
) *PricingService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PricingService{
		cache:    cache,
		feed:     feed,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// EnrichRecipes returns copies of recipes whose linked products carry an average price
// where one could be found. The input slice and its recipes are left untouched.
func (s *PricingService) EnrichRecipes(ctx context.Context, recipes []domain.Recipe) []domain.Recipe {
	if s == nil || s.feed == nil {
		return recipes
	}

	prices := make(map[string]*decimal.Decimal)
	enriched := make([]domain.Recipe, len(recipes))

	for i, recipe := range recipes {
		enriched[i] = recipe
		enriched[i].Ingredients = make([]domain.RecipeIngredientSpec, len(recipe.Ingredients))

		for j, spec := range recipe.Ingredients {
			enriched[i].Ingredients[j] = spec
			if spec.Product == nil || spec.Product.AveragePrice != nil || spec.Product.ID == "" {
				continue
			}

			price, seen := prices[spec.Product.ID]
			if !seen {
				price = s.lookup(ctx, spec.Product.ID)
				prices[spec.Product.ID] = price
			}
			if price == nil {
				continue
			}

			product := *spec.Product
			product.AveragePrice = price
			enriched[i].Ingredients[j].Product = &product
		}
	}

	return enriched
}

// AveragePrice returns the average price of a product, consulting the cache before the feed
func (s *PricingService) AveragePrice(ctx context.Context, productID string) (*decimal.Decimal, error) {
	if productID == "" {
		return nil, domain.ErrInvalidRequest
	}

	key := priceCacheKey(productID)
	if cached, err := s.getFromCache(ctx, key); err == nil {
		return &cached.AveragePrice, nil
	}

	if s.feed == nil {
		return nil, domain.ErrPriceNotFound
	}

	quote, err := s.feed.GetAveragePrice(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := s.setInCache(ctx, key, quote); err != nil {
		s.logger.Warn("failed to cache product price", zap.String("product_id", productID), zap.Error(err))
	}

	return &quote.AveragePrice, nil
}

// lookup swallows errors so a bad price never fails a recommendation
func (s *PricingService) lookup(ctx context.Context, productID string) *decimal.Decimal {
	price, err := s.AveragePrice(ctx, productID)
	if err != nil {
		if !errors.Is(err, domain.ErrPriceNotFound) {
			s.logger.Warn("price lookup failed", zap.String("product_id", productID), zap.Error(err))
		}
		return nil
	}
	return price
}

func (s *PricingService) getFromCache(ctx context.Context, key string) (*domain.ProductPrice, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheUnavailable
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var quote domain.ProductPrice
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}
	return &quote, nil
}

func (s *PricingService) setInCache(ctx context.Context, key string, quote *domain.ProductPrice) error {
	if s.cache == nil {
		return nil
	}
	data, err := json.Marshal(quote)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}

// priceCacheKey creates a normalized cache key. Format: "price:{product_id}"
func priceCacheKey(productID string) string {
	normalized := cacheKeyUnsafeRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(productID)), "")
	return "price:" + normalized
}
