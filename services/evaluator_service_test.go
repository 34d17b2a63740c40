package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docuchat/agent/models"
)

func TestScoreResultGoodWeatherResponse(t *testing.T) {
	eval := scoreResult(models.AgentResult{
		Query:    "What's the weather in London?",
		Response: "Weather in London is clear, temperature 15.5°C with light wind.",
		Route:    models.RouteWeather,
	})

	assert.InDelta(t, 1.0, eval.Score, 1e-9)
	assert.Equal(t, "Good response", eval.Comment)
	assert.NotEmpty(t, eval.RunID)
}

func TestScoreResultShortResponse(t *testing.T) {
	eval := scoreResult(models.AgentResult{
		Query:    "What is the deadline?",
		Response: "err",
		Route:    models.RouteRAG,
	})

	assert.InDelta(t, 0.2, eval.Score, 1e-9)
	assert.Contains(t, eval.Comment, "Response too short")
	assert.Contains(t, eval.Comment, "Response may not address query")
}

func TestScoreResultApologyStillScoresPolite(t *testing.T) {
	eval := scoreResult(models.AgentResult{
		Query:    "weather in Tokyo",
		Response: "Sorry, I encountered an error fetching weather data: timeout",
		Route:    models.RouteWeather,
	})

	// "sorry" keeps the politeness credit even though error indicators
	// are present.
	assert.InDelta(t, 1.0, eval.Score, 1e-9)
}

func TestScoreResultIsCapped(t *testing.T) {
	eval := scoreResult(models.AgentResult{
		Query:    "weather temperature humidity wind",
		Response: "weather temperature humidity wind weather temperature humidity wind weather",
		Route:    models.RouteWeather,
	})
	assert.LessOrEqual(t, eval.Score, 1.0)
}

func TestEvaluatorSubmitNeverBlocks(t *testing.T) {
	e := &Evaluator{
		queue: make(chan models.AgentResult, 1),
		done:  make(chan struct{}),
	}
	// No worker draining: the second submit must drop, not block.
	e.Submit(models.AgentResult{Query: "a"})
	e.Submit(models.AgentResult{Query: "b"})
	assert.Len(t, e.queue, 1)
}
