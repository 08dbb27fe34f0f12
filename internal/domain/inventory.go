package domain

import "github.com/shopspring/decimal"

// AvailableItem is one entry of a user's on-hand stock.
// Unit is informational only; quantities are never converted between units.
type AvailableItem struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit,omitempty"`
}
