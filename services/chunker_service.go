package services

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/docuchat/agent/models"
)

// DocumentChunker splits extracted text into overlapping windows using a
// recursive character strategy: paragraph boundaries are preferred, then
// sentences and words, with raw character cuts as the last resort, so
// every character of the input lands in at least one chunk.
type DocumentChunker struct {
	splitter textsplitter.RecursiveCharacter
}

func NewDocumentChunker(chunkSize, chunkOverlap int) *DocumentChunker {
	return &DocumentChunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

// Chunk splits text and stamps each piece with the shared metadata plus
// its ordinal and the total count for this call. Empty input yields an
// empty slice, not an error.
func (c *DocumentChunker) Chunk(text string, metadata map[string]interface{}) ([]models.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	pieces, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split text: %w", err)
	}

	chunks := make([]models.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		meta := make(map[string]interface{}, len(metadata)+2)
		for k, v := range metadata {
			meta[k] = v
		}
		meta[models.MetaChunkIndex] = i
		meta[models.MetaTotalChunks] = len(pieces)
		chunks = append(chunks, models.Chunk{Text: piece, Metadata: meta})
	}
	return chunks, nil
}
