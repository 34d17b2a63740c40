package services

import (
	"context"
	"fmt"
	"log"

	"github.com/docuchat/agent/models"
)

// AgentService is the per-request orchestrator: classify the query, run
// exactly one of the two answer strategies, and return a result that
// always carries a response string and a route. Business failures from
// either strategy are folded into the response text and never surface
// as errors to the caller.
type AgentService struct {
	router    *IntentRouter
	weather   *WeatherAnswerBuilder
	rag       *RAGService
	evaluator *Evaluator
}

// NewAgentService wires the orchestrator. The evaluator may be nil, in
// which case results are simply not reported anywhere.
func NewAgentService(router *IntentRouter, weather *WeatherAnswerBuilder, rag *RAGService, evaluator *Evaluator) *AgentService {
	return &AgentService{
		router:    router,
		weather:   weather,
		rag:       rag,
		evaluator: evaluator,
	}
}

// ProcessQuery routes a query and produces its answer.
func (a *AgentService) ProcessQuery(ctx context.Context, query string) models.AgentResult {
	route := a.router.Classify(query)
	log.Printf("SERVICE: Query %q routed to %s", query, route)

	var response string
	switch route {
	case models.RouteWeather:
		response = a.weather.Build(ctx, query)
	default:
		response = a.handleRAG(ctx, query)
	}

	result := models.AgentResult{Query: query, Response: response, Route: route}
	if a.evaluator != nil {
		a.evaluator.Submit(result)
	}
	return result
}

func (a *AgentService) handleRAG(ctx context.Context, query string) string {
	answer, err := a.rag.Answer(ctx, query, 0)
	if err != nil {
		log.Printf("SERVICE: RAG pipeline failed for %q: %v", query, err)
		return fmt.Sprintf("Sorry, I encountered an error processing your query: %v", err)
	}
	return answer.Answer
}
