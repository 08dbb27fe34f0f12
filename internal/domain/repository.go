package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RecipeSource supplies candidate recipes to the recommendation flow.
// Implementations own persistence; the matching core only sees the returned values.
type RecipeSource interface {
	ListRecipes(ctx context.Context) ([]Recipe, error)
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
}

// PriceFeed looks up the average shelf price of a canonical product
type PriceFeed interface {
	GetAveragePrice(ctx context.Context, productID string) (*ProductPrice, error)
}

// ProductPrice is a single price quote from the price feed
type ProductPrice struct {
	ProductID    string          `json:"productId"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
	Currency     string          `json:"currency"`
}
