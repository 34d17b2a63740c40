package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"github.com/docuchat/agent/models"
)

// VectorIndex is the persistence boundary for chunk embeddings: upsert,
// nearest-neighbour search, source-scoped delete, and a full clear.
type VectorIndex interface {
	Upsert(ctx context.Context, chunks []models.Chunk) error
	Search(ctx context.Context, query string, k int) ([]models.RetrievedChunk, error)
	SourceHashes(ctx context.Context) (map[string]string, error)
	DeleteBySource(ctx context.Context, filePath string) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// ChromaIndex stores chunk embeddings in a Chroma collection. Reads are
// safely concurrent; Clear swaps the collection handle under a lock.
type ChromaIndex struct {
	client         chromago.Client
	collectionName string
	embedder       Embedder

	mu         sync.RWMutex
	collection chromago.Collection
}

func NewChromaIndex(client chromago.Client, collection chromago.Collection, collectionName string, embedder Embedder) *ChromaIndex {
	return &ChromaIndex{
		client:         client,
		collection:     collection,
		collectionName: collectionName,
		embedder:       embedder,
	}
}

// pointID derives a stable integer id for a chunk: the first 8 hex
// digits of the md5 of its text, plus the chunk's batch-local index so
// duplicate texts within one call stay distinct. Re-ingesting the same
// document reproduces the same ids and overwrites in place; identical
// text arriving at a different batch position gets a different id, so
// cross-batch duplicates may not dedupe.
func pointID(text string, batchIndex int) uint64 {
	sum := md5.Sum([]byte(text))
	prefix := hex.EncodeToString(sum[:])[:8]
	n, _ := strconv.ParseUint(prefix, 16, 64)
	return n + uint64(batchIndex)
}

// Upsert embeds every chunk text in one batch and writes the records,
// overwriting any record that already carries the same id.
func (s *ChromaIndex) Upsert(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("could not generate embeddings: %w", err)
	}

	ids := make([]chromago.DocumentID, len(chunks))
	embs := make([]embeddings.Embedding, len(chunks))
	metas := make([]chromago.DocumentMetadata, len(chunks))
	for i, ch := range chunks {
		ids[i] = chromago.DocumentID(strconv.FormatUint(pointID(ch.Text, i), 10))
		embs[i] = embeddings.NewEmbeddingFromFloat32(vectors[i])
		metas[i] = metadataFromMap(ch.Metadata)
	}

	err = s.coll().Upsert(ctx,
		chromago.WithIDs(ids...),
		chromago.WithTexts(texts...),
		chromago.WithEmbeddings(embs...),
		chromago.WithMetadatas(metas...),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert records into chromadb: %w", err)
	}
	log.Printf("SERVICE: Upserted %d chunks into collection %q", len(chunks), s.collectionName)
	return nil
}

// Search embeds the query once and returns the k nearest chunks ranked
// by descending cosine similarity. An empty collection yields an empty
// slice, not an error.
func (s *ChromaIndex) Search(ctx context.Context, query string, k int) ([]models.RetrievedChunk, error) {
	if k <= 0 {
		k = 5
	}
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query text: %w", err)
	}

	results, err := s.coll().Query(ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(queryVec)),
		chromago.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()
	distanceGroups := results.GetDistancesGroups()
	if len(documentGroups) == 0 {
		return nil, nil
	}

	var retrieved []models.RetrievedChunk
	for i, doc := range documentGroups[0] {
		if doc.ContentString() == "" {
			continue
		}
		var meta map[string]interface{}
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
			meta = metadataToMap(metadataGroups[0][i])
		}
		// Chroma reports cosine distance; flip it so callers see
		// similarity with higher-is-better ordering.
		var score float32
		if len(distanceGroups) > 0 && i < len(distanceGroups[0]) {
			score = 1 - float32(distanceGroups[0][i])
		}
		retrieved = append(retrieved, models.RetrievedChunk{
			Text:     doc.ContentString(),
			Metadata: meta,
			Score:    score,
		})
	}
	return retrieved, nil
}

// SourceHashes returns the file hash currently indexed for each source
// path, read back from the chunk metadata. The scan uses it to skip
// unchanged files and to prune files deleted while the service was down.
func (s *ChromaIndex) SourceHashes(ctx context.Context) (map[string]string, error) {
	results, err := s.coll().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read index state from chromadb: %w", err)
	}

	state := make(map[string]string)
	for _, meta := range results.GetMetadatas() {
		if meta == nil {
			continue
		}
		m := metadataToMap(meta)
		path, ok := m[models.MetaFilePath].(string)
		if !ok {
			continue
		}
		hash, ok := m[models.MetaFileHash].(string)
		if !ok {
			continue
		}
		if _, exists := state[path]; !exists {
			state[path] = hash
		}
	}
	return state, nil
}

// DeleteBySource removes every record whose file_path metadata matches.
func (s *ChromaIndex) DeleteBySource(ctx context.Context, filePath string) error {
	where := chromago.EqString(models.MetaFilePath, filePath)
	return s.coll().Delete(ctx, chromago.WithWhereDelete(where))
}

// Clear drops the collection and recreates it empty.
func (s *ChromaIndex) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.DeleteCollection(ctx, s.collectionName); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	collection, err := s.client.GetOrCreateCollection(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("failed to recreate collection: %w", err)
	}
	s.collection = collection
	return nil
}

// Count returns the number of live records in the collection.
func (s *ChromaIndex) Count(ctx context.Context) (int, error) {
	count, err := s.coll().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items in collection: %w", err)
	}
	return int(count), nil
}

func (s *ChromaIndex) coll() chromago.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection
}

// metadataFromMap converts a chunk metadata map into Chroma attributes.
// Only scalar values occur in chunk metadata.
func metadataFromMap(meta map[string]interface{}) chromago.DocumentMetadata {
	attrs := make([]*chromago.MetaAttribute, 0, len(meta))
	for k, v := range meta {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, chromago.NewStringAttribute(k, val))
		case int:
			attrs = append(attrs, chromago.NewIntAttribute(k, int64(val)))
		case int64:
			attrs = append(attrs, chromago.NewIntAttribute(k, val))
		case float64:
			attrs = append(attrs, chromago.NewFloatAttribute(k, val))
		case bool:
			attrs = append(attrs, chromago.NewBoolAttribute(k, val))
		default:
			attrs = append(attrs, chromago.NewStringAttribute(k, fmt.Sprintf("%v", val)))
		}
	}
	return chromago.NewDocumentMetadata(attrs...)
}

// metadataToMap converts Chroma document metadata back into a plain map.
// DocumentMetadata exposes no direct accessor for all values, so it goes
// through a JSON round-trip.
func metadataToMap(meta chromago.DocumentMetadata) map[string]interface{} {
	if meta == nil {
		return map[string]interface{}{}
	}
	jsonBytes, err := json.Marshal(meta)
	if err != nil {
		log.Printf("WARN: could not marshal document metadata: %v", err)
		return map[string]interface{}{}
	}
	var m map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &m); err != nil {
		log.Printf("WARN: could not unmarshal document metadata: %v", err)
		return map[string]interface{}{}
	}
	return m
}
