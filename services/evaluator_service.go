package services

import (
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/docuchat/agent/models"
)

// Evaluation is a scored assessment of one agent result.
type Evaluation struct {
	RunID   string
	Score   float64
	Comment string
}

// Evaluator is a fire-and-forget quality sink: results are submitted
// without blocking the request path, scored on a background worker with
// simple heuristics, and logged. Nothing the evaluator does can affect
// the result returned to the caller; a full queue drops the submission.
type Evaluator struct {
	queue chan models.AgentResult
	done  chan struct{}
}

func NewEvaluator(queueSize int) *Evaluator {
	if queueSize <= 0 {
		queueSize = 64
	}
	e := &Evaluator{
		queue: make(chan models.AgentResult, queueSize),
		done:  make(chan struct{}),
	}
	go e.run()
	return e
}

// Submit hands a result to the evaluator. It never blocks: if the queue
// is full the result is silently dropped.
func (e *Evaluator) Submit(result models.AgentResult) {
	select {
	case e.queue <- result:
	default:
		log.Printf("EVAL: queue full, dropping evaluation for %q", result.Query)
	}
}

// Close stops accepting submissions and waits for the worker to drain.
func (e *Evaluator) Close() {
	close(e.queue)
	<-e.done
}

func (e *Evaluator) run() {
	defer close(e.done)
	for result := range e.queue {
		eval := scoreResult(result)
		log.Printf("EVAL: run=%s route=%s score=%.2f comment=%q", eval.RunID, result.Route, eval.Score, eval.Comment)
	}
}

// scoreResult applies the response-quality heuristics: length, lexical
// overlap with the query, error indicators, and a route-specific check.
// The score is capped at 1.0.
func scoreResult(result models.AgentResult) Evaluation {
	score := 0.0
	var comments []string

	response := strings.ToLower(result.Response)

	if len(result.Response) > 10 {
		score += 0.3
	} else {
		comments = append(comments, "Response too short")
	}

	queryWords := toWordSet(result.Query)
	responseWords := toWordSet(result.Response)
	overlap := 0
	for w := range queryWords {
		if responseWords[w] {
			overlap++
		}
	}
	if overlap > 0 {
		score += 0.3
	} else {
		comments = append(comments, "Response may not address query")
	}

	errorIndicators := []string{"error", "failed", "sorry", "couldn't", "unable"}
	hasError := false
	for _, ind := range errorIndicators {
		if strings.Contains(response, ind) {
			hasError = true
			break
		}
	}
	if !hasError || strings.Contains(response, "sorry") {
		score += 0.2
	} else {
		comments = append(comments, "Response contains error indicators")
	}

	switch result.Route {
	case models.RouteWeather:
		for _, ind := range []string{"temperature", "humidity", "wind", "weather"} {
			if strings.Contains(response, ind) {
				score += 0.2
				break
			}
		}
	case models.RouteRAG:
		if len(result.Response) > 50 {
			score += 0.2
		}
	}

	if score > 1.0 {
		score = 1.0
	}

	comment := "Good response"
	if len(comments) > 0 {
		comment = strings.Join(comments, "; ")
	}
	return Evaluation{RunID: uuid.New().String(), Score: score, Comment: comment}
}

func toWordSet(s string) map[string]bool {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
