// Package metrics exposes recommendation outcomes as prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kitchentory/backend/internal/domain"
)

const namespace = "kitchentory"

// Recorder counts recipe and ingredient match outcomes and times each recommendation call
type Recorder struct {
	registry          *prometheus.Registry
	recipeMatches     *prometheus.CounterVec
	ingredientMatches *prometheus.CounterVec
	duration          *prometheus.HistogramVec
}

// NewRecorder creates a recorder with its own registry, including Go runtime collectors
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		recipeMatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recipe_matches_total",
				Help:      "Recipes returned by recommendation calls, by match type",
			},
			[]string{"match_type"},
		),
		ingredientMatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingredient_matches_total",
				Help:      "Ingredient match outcomes inside returned recipes, by match type",
			},
			[]string{"match_type"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "recommendation_duration_seconds",
				Help:      "Time spent serving a recommendation call",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		r.recipeMatches,
		r.ingredientMatches,
		r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// ObserveRecommendation records the matches returned by one call
func (r *Recorder) ObserveRecommendation(operation string, matches []domain.RecipeMatch, elapsed time.Duration) {
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())

	for _, match := range matches {
		r.recipeMatches.WithLabelValues(string(match.MatchType)).Inc()
		for _, im := range match.IngredientMatches {
			r.ingredientMatches.WithLabelValues(string(im.MatchType)).Inc()
		}
	}
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
