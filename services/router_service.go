package services

import (
	"strings"

	"github.com/docuchat/agent/models"
)

// DefaultWeatherKeywords is the routing vocabulary. Any query containing
// one of these (case-insensitive substring match) is sent down the
// weather path; everything else goes to document QA.
var DefaultWeatherKeywords = []string{
	"weather", "temperature", "forecast", "humidity",
	"wind", "rain", "snow", "climate", "temperature in",
	"weather in", "how's the weather", "what's the weather",
}

// IntentRouter classifies a query as weather or document QA. It is a
// deliberately brittle keyword classifier, not an ML model: the first
// substring match short-circuits, negation is not handled, and the
// vocabulary is injected so it can be tested and extended on its own.
type IntentRouter struct {
	keywords []string
}

// NewIntentRouter builds a router over the given vocabulary. A nil or
// empty slice falls back to DefaultWeatherKeywords.
func NewIntentRouter(keywords []string) *IntentRouter {
	if len(keywords) == 0 {
		keywords = DefaultWeatherKeywords
	}
	return &IntentRouter{keywords: keywords}
}

// Classify is total over any string and has no side effects; it is safe
// to share one router across concurrent queries.
func (r *IntentRouter) Classify(query string) models.Route {
	lowered := strings.ToLower(query)
	for _, kw := range r.keywords {
		if strings.Contains(lowered, kw) {
			return models.RouteWeather
		}
	}
	return models.RouteRAG
}
