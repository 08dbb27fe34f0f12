package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kitchentory/backend/internal/domain"
	"github.com/kitchentory/backend/internal/usecase"
)

// maxLimit caps how many results one request may ask for
const maxLimit = 100

// Error codes returned in the error envelope
const (
	codeInvalidRequest     = "INVALID_REQUEST"
	codeRecipeNotFound     = "RECIPE_NOT_FOUND"
	codeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	codeServiceUnavailable = "SERVICE_UNAVAILABLE"
	codeTimeout            = "TIMEOUT"
	codeRateLimited        = "RATE_LIMITED"
	codeInternal           = "INTERNAL_ERROR"
)

// RecommendationProvider is the use case the handlers delegate to
type RecommendationProvider interface {
	Recommend(ctx context.Context, req usecase.RecommendRequest) ([]domain.RecipeMatch, error)
	Exact(ctx context.Context, req usecase.RecommendRequest) ([]domain.RecipeMatch, error)
	Almost(ctx context.Context, req usecase.RecommendRequest) ([]domain.RecipeMatch, error)
	Cookability(ctx context.Context, recipeID string, inventory []domain.AvailableItem) (*domain.RecipeMatch, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommendations RecommendationProvider
	labels          *usecase.LabelCleaner
	logger          *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(recommendations RecommendationProvider, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		recommendations: recommendations,
		labels:          usecase.NewLabelCleaner(logger),
		logger:          logger,
	}
}

// InventoryItemRequest is one on-hand item in a request body
type InventoryItemRequest struct {
	Name     string           `json:"name" binding:"required"`
	Quantity *decimal.Decimal `json:"quantity" binding:"required"`
	Unit     string           `json:"unit,omitempty"`
}

// RecommendationRequest is the body of the recommendation endpoints
type RecommendationRequest struct {
	Inventory            []InventoryItemRequest `json:"inventory" binding:"required,dive"`
	DietaryFilters       map[string]bool        `json:"dietaryFilters,omitempty"`
	Limit                *int                   `json:"limit,omitempty"`
	MaxMissing           *int                   `json:"maxMissing,omitempty"`
	IncludeAlmostMatches bool                   `json:"includeAlmostMatches,omitempty"`
	CleanLabels          bool                   `json:"cleanLabels,omitempty"`
}

// CookabilityRequest is the body of the cookability endpoint
type CookabilityRequest struct {
	Inventory   []InventoryItemRequest `json:"inventory" binding:"required,dive"`
	CleanLabels bool                   `json:"cleanLabels,omitempty"`
}

// RecommendationResponse wraps a ranked result list
type RecommendationResponse struct {
	Matches []domain.RecipeMatch `json:"matches"`
	Count   int                  `json:"count"`
}

// ErrorResponse is the error envelope of every failed request
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "kitchentory-backend",
		"version": "1.0.0",
	})
}

// Recommend handles POST /api/v1/recommendations
func (h *Handler) Recommend(c *gin.Context) {
	h.serveRecommendations(c, func(ctx context.Context, req usecase.RecommendRequest) ([]domain.RecipeMatch, error) {
		return h.recommendations.Recommend(ctx, req)
	})
}

// ExactMatches handles POST /api/v1/recommendations/exact
func (h *Handler) ExactMatches(c *gin.Context) {
	h.serveRecommendations(c, func(ctx context.Context, req usecase.RecommendRequest) ([]domain.RecipeMatch, error) {
		return h.recommendations.Exact(ctx, req)
	})
}

// AlmostMatches handles POST /api/v1/recommendations/almost
func (h *Handler) AlmostMatches(c *gin.Context) {
	h.serveRecommendations(c, func(ctx context.Context, req usecase.RecommendRequest) ([]domain.RecipeMatch, error) {
		return h.recommendations.Almost(ctx, req)
	})
}

// Cookability handles POST /api/v1/recipes/:id/cookability
func (h *Handler) Cookability(c *gin.Context) {
	if h.recommendations == nil {
		respondError(c, http.StatusServiceUnavailable, codeServiceUnavailable, "recommendations are not configured")
		return
	}

	recipeID := strings.TrimSpace(c.Param("id"))
	if recipeID == "" {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, "recipe id is required")
		return
	}

	var body CookabilityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	inventory, err := toInventory(body.Inventory, h.cleanerFor(body.CleanLabels))
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	match, err := h.recommendations.Cookability(c.Request.Context(), recipeID, inventory)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, match)
}

type recommendFunc func(ctx context.Context, req usecase.RecommendRequest) ([]domain.RecipeMatch, error)

func (h *Handler) serveRecommendations(c *gin.Context, recommend recommendFunc) {
	if h.recommendations == nil {
		respondError(c, http.StatusServiceUnavailable, codeServiceUnavailable, "recommendations are not configured")
		return
	}

	var body RecommendationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	req, err := body.toUsecase(h.cleanerFor(body.CleanLabels))
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	matches, err := recommend(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecommendationResponse{Matches: matches, Count: len(matches)})
}

// toUsecase validates the body and converts it to a use case request
func (r RecommendationRequest) toUsecase(clean labelFunc) (usecase.RecommendRequest, error) {
	inventory, err := toInventory(r.Inventory, clean)
	if err != nil {
		return usecase.RecommendRequest{}, err
	}

	filters, err := toDietaryFilter(r.DietaryFilters)
	if err != nil {
		return usecase.RecommendRequest{}, err
	}

	req := usecase.RecommendRequest{
		Inventory:            inventory,
		DietaryFilters:       filters,
		MaxMissing:           r.MaxMissing,
		IncludeAlmostMatches: r.IncludeAlmostMatches,
	}

	if r.Limit != nil {
		if *r.Limit < 1 || *r.Limit > maxLimit {
			return usecase.RecommendRequest{}, fmt.Errorf("limit must be between 1 and %d", maxLimit)
		}
		req.Limit = *r.Limit
	}

	if r.MaxMissing != nil && *r.MaxMissing < 0 {
		return usecase.RecommendRequest{}, fmt.Errorf("maxMissing must not be negative")
	}

	return req, nil
}

// labelFunc rewrites an inventory name before it reaches the matcher
type labelFunc func(string) string

// cleanerFor returns the label cleaner when the client asked for it
func (h *Handler) cleanerFor(enabled bool) labelFunc {
	if !enabled {
		return nil
	}
	return h.labels.Clean
}

// toInventory trims names, rejects blanks and negative quantities, and drops items
// with nothing left on hand. A non-nil clean rewrites each name.
func toInventory(items []InventoryItemRequest, clean labelFunc) ([]domain.AvailableItem, error) {
	inventory := make([]domain.AvailableItem, 0, len(items))
	for i, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, fmt.Errorf("inventory[%d].name is required", i)
		}
		if clean != nil {
			name = clean(name)
		}
		if it.Quantity == nil {
			return nil, fmt.Errorf("inventory[%d].quantity is required", i)
		}
		if it.Quantity.IsNegative() {
			return nil, fmt.Errorf("inventory[%d].quantity must not be negative", i)
		}
		if it.Quantity.IsZero() {
			continue
		}
		inventory = append(inventory, domain.AvailableItem{
			Name:     name,
			Quantity: *it.Quantity,
			Unit:     strings.TrimSpace(it.Unit),
		})
	}
	return inventory, nil
}

func toDietaryFilter(raw map[string]bool) (domain.DietaryFilter, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	filter := make(domain.DietaryFilter, len(raw))
	for key, required := range raw {
		flag := domain.DietaryFlag(key)
		if !flag.IsKnown() {
			return nil, fmt.Errorf("unknown dietary filter %q", key)
		}
		filter[flag] = required
	}
	return filter, nil
}

// handleError maps use case errors to status codes
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
	case errors.Is(err, domain.ErrRecipeNotFound):
		respondError(c, http.StatusNotFound, codeRecipeNotFound, err.Error())
	case errors.Is(err, domain.ErrCatalogUnavailable):
		h.logger.Error("recipe catalog unavailable", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, codeCatalogUnavailable, "recipe catalog unavailable")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		respondError(c, http.StatusGatewayTimeout, codeTimeout, "request timed out")
	default:
		h.logger.Error("unhandled request error", zap.Error(err), zap.String("path", c.FullPath()))
		respondError(c, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message})
}
