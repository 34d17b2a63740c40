package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/docuchat/agent/models"
)

// NoRelevantInfoMessage is the fixed answer used when retrieval comes
// back empty; no model call is made in that case.
const NoRelevantInfoMessage = "I couldn't find any relevant information in the documents to answer your question."

// contextSeparator joins retrieved chunk texts into one context block.
const contextSeparator = "\n\n---\n\n"

// groundingPrompt instructs the model to answer strictly from the
// supplied context.
const groundingPrompt = `You are a helpful assistant that answers questions based on the provided context.
Use only the information from the context to answer the question. If the context doesn't contain
enough information to answer the question, say so clearly.

Context:
%s

Question: %s

Provide a clear and concise answer based on the context above.`

// RAGService answers questions from the ingested documents: retrieve
// top-k chunks, build a grounding prompt, and hand it to the completion
// provider. The model's output is returned verbatim; no post-hoc
// factuality check is performed.
type RAGService struct {
	index     VectorIndex
	completer Completer
	topK      int
}

func NewRAGService(index VectorIndex, completer Completer, topK int) *RAGService {
	if topK <= 0 {
		topK = 3
	}
	return &RAGService{index: index, completer: completer, topK: topK}
}

// Answer runs the retrieval-augmented pipeline for one question. k <= 0
// falls back to the configured default.
func (r *RAGService) Answer(ctx context.Context, question string, k int) (*models.RAGAnswer, error) {
	if k <= 0 {
		k = r.topK
	}

	retrieved, err := r.index.Search(ctx, question, k)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve documents: %w", err)
	}

	if len(retrieved) == 0 {
		log.Printf("SERVICE: No chunks retrieved for question %q", question)
		return &models.RAGAnswer{
			Answer:          NoRelevantInfoMessage,
			Sources:         []map[string]interface{}{},
			RetrievedChunks: []models.RetrievedChunk{},
		}, nil
	}

	contextParts := make([]string, len(retrieved))
	sources := make([]map[string]interface{}, len(retrieved))
	for i, chunk := range retrieved {
		contextParts[i] = chunk.Text
		sources[i] = chunk.Metadata
	}
	contextBlock := strings.Join(contextParts, contextSeparator)

	systemPrompt := fmt.Sprintf(groundingPrompt, contextBlock, question)
	answer, err := r.completer.Complete(ctx, systemPrompt, question)
	if err != nil {
		return nil, fmt.Errorf("could not generate answer: %w", err)
	}

	return &models.RAGAnswer{
		Answer:          answer,
		Sources:         sources,
		RetrievedChunks: retrieved,
	}, nil
}
