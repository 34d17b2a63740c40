package models

// Metadata keys injected by the chunker into every produced chunk.
const (
	MetaChunkIndex  = "chunk_index"
	MetaTotalChunks = "total_chunks"
	MetaSource      = "source"
	MetaFilePath    = "file_path"
	MetaFileHash    = "file_hash"
)

// Chunk is one overlapping segment of a source document, immutable once
// created. Its position within the document lives in Metadata under
// MetaChunkIndex / MetaTotalChunks.
type Chunk struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// RetrievedChunk is a chunk returned by a similarity search together with
// its cosine similarity score. It is produced per search call and never
// persisted.
type RetrievedChunk struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Score    float32                `json:"score"`
}
