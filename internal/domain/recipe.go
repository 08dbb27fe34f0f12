package domain

import "github.com/shopspring/decimal"

// DietaryFlag names a dietary property a recipe can be filtered on
type DietaryFlag string

const (
	DietaryVegetarian DietaryFlag = "vegetarian"
	DietaryVegan      DietaryFlag = "vegan"
	DietaryGlutenFree DietaryFlag = "gluten_free"
	DietaryDairyFree  DietaryFlag = "dairy_free"
	DietaryNutFree    DietaryFlag = "nut_free"
)

// KnownDietaryFlags lists every flag a DietaryFilter may name
var KnownDietaryFlags = []DietaryFlag{
	DietaryVegetarian,
	DietaryVegan,
	DietaryGlutenFree,
	DietaryDairyFree,
	DietaryNutFree,
}

// IsKnown reports whether f is one of KnownDietaryFlags
func (f DietaryFlag) IsKnown() bool {
	for _, known := range KnownDietaryFlags {
		if f == known {
			return true
		}
	}
	return false
}

// DietaryFilter maps a flag to whether it is required. Only true entries constrain results;
// flags not present mean "no constraint".
type DietaryFilter map[DietaryFlag]bool

// DietaryFlags holds the dietary properties of one recipe
type DietaryFlags struct {
	Vegetarian bool `json:"vegetarian" yaml:"vegetarian"`
	Vegan      bool `json:"vegan" yaml:"vegan"`
	GlutenFree bool `json:"glutenFree" yaml:"gluten_free"`
	DairyFree  bool `json:"dairyFree" yaml:"dairy_free"`
	NutFree    bool `json:"nutFree" yaml:"nut_free"`
}

// Has reports whether the recipe carries flag f. Unknown flags are never satisfied.
func (d DietaryFlags) Has(f DietaryFlag) bool {
	switch f {
	case DietaryVegetarian:
		return d.Vegetarian
	case DietaryVegan:
		return d.Vegan
	case DietaryGlutenFree:
		return d.GlutenFree
	case DietaryDairyFree:
		return d.DairyFree
	case DietaryNutFree:
		return d.NutFree
	default:
		return false
	}
}

// Satisfies reports whether every active flag in filter is carried by the recipe
func (d DietaryFlags) Satisfies(filter DietaryFilter) bool {
	for flag, required := range filter {
		if required && !d.Has(flag) {
			return false
		}
	}
	return true
}

// ProductRef links a recipe line to a canonical product, used for cost estimation only
type ProductRef struct {
	ID           string           `json:"id"`
	Name         string           `json:"name,omitempty"`
	AveragePrice *decimal.Decimal `json:"averagePrice,omitempty"`
}

// RecipeIngredientSpec is one line item of a recipe
type RecipeIngredientSpec struct {
	Name     string           `json:"name"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Unit     string           `json:"unit,omitempty"`
	Optional bool             `json:"optional"`
	Product  *ProductRef      `json:"product,omitempty"`
}

// Recipe is a candidate recipe with its ordered ingredient list
type Recipe struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Ingredients []RecipeIngredientSpec `json:"ingredients"`
	Dietary     DietaryFlags           `json:"dietary"`
}
