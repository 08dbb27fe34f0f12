package pricefeed

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kitchentory/backend/internal/domain"
)

const defaultCurrency = "USD"

// priceResponse is the wire shape of GET /v1/products/{id}/price.
// average_price is accepted both as a JSON number and as a quoted decimal.
type priceResponse struct {
	ProductID    string          `json:"product_id"`
	AveragePrice decimal.Decimal `json:"average_price"`
	Currency     string          `json:"currency"`
}

// MapToProductPrice converts a feed response to our domain ProductPrice
func MapToProductPrice(requestedID string, resp *priceResponse) (*domain.ProductPrice, error) {
	if resp == nil {
		return nil, domain.ErrPriceNotFound
	}
	if resp.AveragePrice.IsNegative() {
		return nil, fmt.Errorf("%w: %w for %s", domain.ErrPriceFeedFailure, errNegativePrice, requestedID)
	}

	productID := resp.ProductID
	if productID == "" {
		productID = requestedID
	}

	currency := strings.ToUpper(strings.TrimSpace(resp.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	return &domain.ProductPrice{
		ProductID:    productID,
		AveragePrice: resp.AveragePrice.Round(2),
		Currency:     currency,
	}, nil
}
