package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kitchentory/backend/internal/domain"
)

// Compile-time interface check.
var _ domain.PriceFeed = (*Client)(nil)

const maxAttempts = 3

// Config holds price feed client settings
type Config struct {
	BaseURL           string
	APIKey            string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

// Client handles communication with the product price feed API
type Client struct {
	http        *resty.Client
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// NewClient creates a new price feed client
func NewClient(config Config, logger *zap.Logger) *Client {
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 10
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "Kitchentory/1.0").
		SetHeader("Accept", "application/json")
	if config.APIKey != "" {
		httpClient.SetHeader("X-API-Key", config.APIKey)
	}

	return &Client{
		http:        httpClient,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		backoff:     exponentialBackoff,
		logger:      logger,
	}
}

// GetAveragePrice fetches the average price of a product, retrying transient failures
func (c *Client) GetAveragePrice(ctx context.Context, productID string) (*domain.ProductPrice, error) {
	if productID == "" {
		return nil, domain.ErrInvalidRequest
	}

	path := fmt.Sprintf("/v1/products/%s/price", url.PathEscape(productID))

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		var body priceResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&body).
			Get(path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("price feed request error", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = fmt.Errorf("%w: %v", domain.ErrPriceFeedFailure, err)
			if err := c.wait(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		switch status := resp.StatusCode(); {
		case status == http.StatusOK:
			return MapToProductPrice(productID, &body)
		case status == http.StatusNotFound:
			return nil, domain.ErrPriceNotFound
		case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
			c.logger.Warn("price feed unavailable",
				zap.Int("attempt", attempt),
				zap.Int("status", status),
				zap.String("product_id", productID),
			)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrPriceFeedFailure, status)
			if status == http.StatusTooManyRequests {
				lastErr = fmt.Errorf("%w: %w", domain.ErrPriceFeedFailure, domain.ErrRateLimited)
			}
			if err := c.wait(ctx, attempt); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: status %d", domain.ErrPriceFeedFailure, status)
		}
	}

	c.logger.Error("price feed retries exhausted", zap.String("product_id", productID), zap.Error(lastErr))
	return nil, lastErr
}

// exponentialBackoff returns the delay before the next attempt: 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// wait sleeps before the next attempt; there is nothing to wait for after the last one
func (c *Client) wait(ctx context.Context, attempt int) error {
	if attempt >= maxAttempts {
		return nil
	}
	timer := time.NewTimer(c.backoff(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// errNegativePrice is returned when the feed reports a price below zero
var errNegativePrice = errors.New("negative average price")
