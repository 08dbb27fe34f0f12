// Package catalog provides recipe sources for the recommendation flow.
package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kitchentory/backend/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.RecipeSource = (*FileSource)(nil)
	_ domain.RecipeSource = (*StaticSource)(nil)
)

// recipeNamespace seeds deterministic ids for recipes the catalog file leaves unnamed
var recipeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://kitchentory.app/recipes"))

// catalogFile is the on-disk YAML layout
type catalogFile struct {
	Recipes []recipeEntry `yaml:"recipes"`
}

type recipeEntry struct {
	ID          string              `yaml:"id"`
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	Dietary     domain.DietaryFlags `yaml:"dietary"`
	Ingredients []ingredientEntry   `yaml:"ingredients"`
}

type ingredientEntry struct {
	Name     string        `yaml:"name"`
	Quantity *float64      `yaml:"quantity"`
	Unit     string        `yaml:"unit"`
	Optional bool          `yaml:"optional"`
	Product  *productEntry `yaml:"product"`
}

type productEntry struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	AveragePrice *float64 `yaml:"average_price"`
}

// StaticSource serves a fixed, in-memory list of recipes
type StaticSource struct {
	recipes []domain.Recipe
	byID    map[string]int
}

// NewStaticSource creates a source over recipes, in the given order
func NewStaticSource(recipes []domain.Recipe) *StaticSource {
	byID := make(map[string]int, len(recipes))
	for i, recipe := range recipes {
		byID[recipe.ID] = i
	}
	return &StaticSource{recipes: recipes, byID: byID}
}

// ListRecipes returns every recipe in catalog order
func (s *StaticSource) ListRecipes(ctx context.Context) ([]domain.Recipe, error) {
	out := make([]domain.Recipe, len(s.recipes))
	copy(out, s.recipes)
	return out, nil
}

// GetRecipe returns the recipe with the given id
func (s *StaticSource) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	recipe := s.recipes[i]
	return &recipe, nil
}

// FileSource is a recipe catalog loaded from a YAML file. Reload swaps the whole
// catalog atomically; readers never observe a partially loaded file.
type FileSource struct {
	path   string
	logger *zap.Logger

	mu     sync.RWMutex
	static *StaticSource
}

// NewFileSource loads the catalog at path
func NewFileSource(path string, logger *zap.Logger) (*FileSource, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &FileSource{path: path, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the catalog file
func (s *FileSource) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	recipes, err := Parse(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrCatalogUnavailable, s.path, err)
	}

	s.mu.Lock()
	s.static = NewStaticSource(recipes)
	s.mu.Unlock()

	s.logger.Info("recipe catalog loaded", zap.String("path", s.path), zap.Int("recipes", len(recipes)))
	return nil
}

// ListRecipes returns every recipe in file order
func (s *FileSource) ListRecipes(ctx context.Context) ([]domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.static.ListRecipes(ctx)
}

// GetRecipe returns the recipe with the given id
func (s *FileSource) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.static.GetRecipe(ctx, id)
}

// Parse decodes and validates a YAML catalog. Recipes without an id get a deterministic
// one derived from their name.
func Parse(data []byte) ([]domain.Recipe, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	recipes := make([]domain.Recipe, 0, len(file.Recipes))
	seen := make(map[string]bool, len(file.Recipes))

	for i, entry := range file.Recipes {
		recipe, err := entry.toDomain()
		if err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i, err)
		}
		if seen[recipe.ID] {
			return nil, fmt.Errorf("recipe %d: duplicate id %q", i, recipe.ID)
		}
		seen[recipe.ID] = true
		recipes = append(recipes, recipe)
	}

	return recipes, nil
}

func (e recipeEntry) toDomain() (domain.Recipe, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return domain.Recipe{}, fmt.Errorf("name is required")
	}

	id := strings.TrimSpace(e.ID)
	if id == "" {
		id = uuid.NewSHA1(recipeNamespace, []byte(strings.ToLower(name))).String()
	}

	ingredients := make([]domain.RecipeIngredientSpec, 0, len(e.Ingredients))
	for j, ing := range e.Ingredients {
		spec, err := ing.toDomain()
		if err != nil {
			return domain.Recipe{}, fmt.Errorf("%s ingredient %d: %w", name, j, err)
		}
		ingredients = append(ingredients, spec)
	}

	return domain.Recipe{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(e.Description),
		Ingredients: ingredients,
		Dietary:     e.Dietary,
	}, nil
}

func (e ingredientEntry) toDomain() (domain.RecipeIngredientSpec, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return domain.RecipeIngredientSpec{}, fmt.Errorf("name is required")
	}

	spec := domain.RecipeIngredientSpec{
		Name:     name,
		Unit:     strings.TrimSpace(e.Unit),
		Optional: e.Optional,
	}

	if e.Quantity != nil {
		if *e.Quantity < 0 {
			return domain.RecipeIngredientSpec{}, fmt.Errorf("quantity must not be negative")
		}
		q := decimal.NewFromFloat(*e.Quantity)
		spec.Quantity = &q
	}

	if e.Product != nil && strings.TrimSpace(e.Product.ID) != "" {
		product := &domain.ProductRef{
			ID:   strings.TrimSpace(e.Product.ID),
			Name: strings.TrimSpace(e.Product.Name),
		}
		if e.Product.AveragePrice != nil {
			if *e.Product.AveragePrice < 0 {
				return domain.RecipeIngredientSpec{}, fmt.Errorf("average_price must not be negative")
			}
			price := decimal.NewFromFloat(*e.Product.AveragePrice)
			product.AveragePrice = &price
		}
		spec.Product = product
	}

	return spec, nil
}
