package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/docuchat/agent/models"
)

// IngestionService composes extraction, chunking, and indexing: the
// write side of the RAG pipeline. It also keeps the uploads directory
// and the index in sync, both with a startup scan and a live watcher.
type IngestionService struct {
	chunker *DocumentChunker
	index   VectorIndex
}

func NewIngestionService(chunker *DocumentChunker, index VectorIndex) *IngestionService {
	return &IngestionService{chunker: chunker, index: index}
}

// IngestFile extracts a file's text, chunks it, and upserts the chunks.
// Returns the number of chunks written. Re-ingesting an unchanged file
// overwrites its records in place.
func (s *IngestionService) IngestFile(ctx context.Context, path string) (int, error) {
	hash, err := fileHash(path)
	if err != nil {
		return 0, fmt.Errorf("could not hash file %s: %w", path, err)
	}
	return s.ingestFile(ctx, path, hash)
}

func (s *IngestionService) ingestFile(ctx context.Context, path, hash string) (int, error) {
	text, err := ExtractTextFromFile(path)
	if err != nil {
		return 0, fmt.Errorf("could not extract text from %s: %w", path, err)
	}

	metadata := map[string]interface{}{
		models.MetaSource:   filepath.Base(path),
		models.MetaFilePath: path,
		models.MetaFileHash: hash,
	}
	chunks, err := s.chunker.Chunk(text, metadata)
	if err != nil {
		return 0, fmt.Errorf("could not chunk %s: %w", path, err)
	}
	if len(chunks) == 0 {
		log.Printf("INDEXER: %s produced no chunks, skipping", path)
		return 0, nil
	}

	if err := s.index.Upsert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("could not index %s: %w", path, err)
	}
	log.Printf("INDEXER: Ingested %s as %d chunks", path, len(chunks))
	return len(chunks), nil
}

// IngestText chunks and indexes raw text that never touched disk, such
// as a note posted straight to the API. Returns the number of chunks
// written.
func (s *IngestionService) IngestText(ctx context.Context, text, source string) (int, error) {
	if source == "" {
		source = "user_input"
	}

	metadata := map[string]interface{}{
		models.MetaSource: source,
	}
	chunks, err := s.chunker.Chunk(text, metadata)
	if err != nil {
		return 0, fmt.Errorf("could not chunk text from %s: %w", source, err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	if err := s.index.Upsert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("could not index text from %s: %w", source, err)
	}
	log.Printf("INDEXER: Ingested text from %s as %d chunks", source, len(chunks))
	return len(chunks), nil
}

// ScanDirectory reconciles the directory with the index once, at
// startup: unchanged files (same sha256 as their indexed records) are
// skipped, changed files have their old records deleted before
// re-ingestion, and records of files removed while the service was down
// are pruned.
func (s *IngestionService) ScanDirectory(ctx context.Context, dirPath string) {
	log.Printf("INDEXER: Starting directory scan for: %s", dirPath)

	indexed, err := s.index.SourceHashes(ctx)
	if err != nil {
		log.Printf("INDEXER ERROR: Could not get current index state: %v", err)
		return
	}
	log.Printf("INDEXER: Found %d files currently in the index.", len(indexed))

	localFiles := make(map[string]bool)
	err = filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isSupportedFile(path) {
			return nil
		}
		localFiles[path] = true

		hash, err := fileHash(path)
		if err != nil {
			log.Printf("INDEXER WARN: Could not hash file %s: %v", path, err)
			return nil
		}

		if indexedHash, ok := indexed[path]; ok {
			if indexedHash == hash {
				return nil // File is unchanged, skip.
			}
			log.Printf("INDEXER: File has changed: %s. Re-indexing...", path)
			if err := s.index.DeleteBySource(ctx, path); err != nil {
				log.Printf("INDEXER ERROR: Failed to delete old version of %s: %v", path, err)
				return nil
			}
		}

		if _, err := s.ingestFile(ctx, path, hash); err != nil {
			log.Printf("INDEXER ERROR: Failed to process file %s: %v", path, err)
		}
		return nil
	})
	if err != nil {
		log.Printf("INDEXER ERROR: Error walking the path %s: %v", dirPath, err)
	}

	// Prune records of files deleted while the service was down.
	for path := range indexed {
		if !localFiles[path] {
			log.Printf("INDEXER: File deleted: %s. Removing from index...", path)
			if err := s.index.DeleteBySource(ctx, path); err != nil {
				log.Printf("INDEXER ERROR: Failed to delete records for %s: %v", path, err)
			}
		}
	}
	log.Println("INDEXER: Directory scan finished.")
}

// WatchDirectory blocks until ctx is cancelled, re-ingesting files as
// they are created or written and dropping their records when they are
// removed or renamed away.
func (s *IngestionService) WatchDirectory(ctx context.Context, dirPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("WATCHER ERROR: Failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isSupportedFile(event.Name) {
					continue
				}

				// Editors often write via create-temp-and-rename, which
				// fires multiple events; Create and Write are handled
				// identically and the upsert keeps it idempotent.
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					log.Printf("WATCHER: File modified/created: %s. Re-indexing...", event.Name)
					if err := s.index.DeleteBySource(ctx, event.Name); err != nil {
						log.Printf("WATCHER WARN: Failed to delete old records for %s: %v", event.Name, err)
					}
					if _, err := s.IngestFile(ctx, event.Name); err != nil {
						log.Printf("WATCHER ERROR: Failed to process file %s: %v", event.Name, err)
					}
				} else if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					log.Printf("WATCHER: File removed/renamed: %s. Removing from index...", event.Name)
					if err := s.index.DeleteBySource(ctx, event.Name); err != nil {
						log.Printf("WATCHER ERROR: Failed to delete records for %s: %v", event.Name, err)
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("WATCHER ERROR: %v", err)
			case <-ctx.Done():
				log.Println("WATCHER: Context cancelled, shutting down watcher.")
				return
			}
		}
	}()

	log.Printf("WATCHER: Watching directory: %s", dirPath)
	if err := watcher.Add(dirPath); err != nil {
		log.Printf("WATCHER ERROR: Failed to add path to watcher: %v", err)
	}

	<-ctx.Done()
}

func isSupportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".pdf":
		return true
	default:
		return false
	}
}

func fileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
