package domain

import "github.com/shopspring/decimal"

// IngredientMatchType tells how a recipe ingredient was resolved against the inventory
type IngredientMatchType string

const (
	IngredientExact      IngredientMatchType = "exact"
	IngredientPartial    IngredientMatchType = "partial"
	IngredientSubstitute IngredientMatchType = "substitute"
	IngredientMissing    IngredientMatchType = "missing"
)

// RecipeMatchType is the cookability bucket of a scored recipe
type RecipeMatchType string

const (
	RecipePerfect    RecipeMatchType = "perfect"
	RecipeAlmost     RecipeMatchType = "almost"
	RecipePartial    RecipeMatchType = "partial"
	RecipeImpossible RecipeMatchType = "impossible"
)

// IngredientMatch is the single best resolution of one recipe ingredient
type IngredientMatch struct {
	Ingredient    RecipeIngredientSpec `json:"ingredient"`
	Item          *AvailableItem       `json:"item,omitempty"`
	MatchType     IngredientMatchType  `json:"matchType"`
	Confidence    float64              `json:"confidence"`
	QuantityRatio float64              `json:"quantityRatio"`
	Notes         string               `json:"notes,omitempty"`
}

// RecipeMatch is the scored result for one recipe
type RecipeMatch struct {
	Recipe             Recipe                 `json:"recipe"`
	OverallScore       float64                `json:"overallScore"`
	IngredientMatches  []IngredientMatch      `json:"ingredientMatches"`
	MissingIngredients []RecipeIngredientSpec `json:"missingIngredients"`
	MatchType          RecipeMatchType        `json:"matchType"`
	Cookable           bool                   `json:"cookable"`
	MissingCount       int                    `json:"missingCount"`
	SubstitutionCount  int                    `json:"substitutionCount"`
	EstimatedCost      decimal.Decimal        `json:"estimatedCost"`
}

// RecommendationQuery carries the knobs of a ranked recommendation call
type RecommendationQuery struct {
	Limit                int
	DietaryFilters       DietaryFilter
	MaxMissing           int
	IncludeAlmostMatches bool
}
