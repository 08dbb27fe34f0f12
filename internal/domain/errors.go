package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRecipeNotFound is returned when a recipe id is not in the catalog
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrCatalogUnavailable is returned when the recipe source cannot be read
	ErrCatalogUnavailable = errors.New("recipe catalog unavailable")

	// ErrPriceNotFound is returned when the price feed has no price for a product
	ErrPriceNotFound = errors.New("product price not found")

	// ErrPriceFeedFailure is returned when the price feed request fails
	ErrPriceFeedFailure = errors.New("price feed request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
