package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries every tunable the services need. It is loaded once at
// startup and passed to constructors explicitly; nothing below main
// reads the environment.
type Config struct {
	// Credentials. Both are required; Load fails without them.
	GeminiAPIKey  string
	WeatherAPIKey string

	// Optional unidoc license key. PDF extraction fails at request time
	// without it, which is preferable to refusing to boot.
	UnidocLicenseKey string

	ChromaURL      string
	CollectionName string

	OllamaURL      string
	EmbeddingModel string
	LLMModel       string

	WeatherBaseURL string
	WeatherUnits   string

	ChunkSize    int
	ChunkOverlap int
	TopK         int

	UploadDir string
	Port      string
}

// Load reads .env (if present) and the process environment into a Config.
// A missing required credential is a fatal configuration failure and is
// returned as an error so main can abort before serving anything.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg := &Config{
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		WeatherAPIKey:    os.Getenv("OPENWEATHERMAP_API_KEY"),
		UnidocLicenseKey: os.Getenv("UNIDOC_LICENSE_KEY"),
		ChromaURL:        envOr("CHROMA_URL", "http://localhost:8000"),
		CollectionName:   envOr("CHROMA_COLLECTION", "pdf_documents"),
		OllamaURL:        envOr("OLLAMA_URL", "http://localhost:11434"),
		EmbeddingModel:   envOr("EMBEDDING_MODEL", "nomic-embed-text:v1.5"),
		LLMModel:         envOr("LLM_MODEL", "gemini-2.5-flash"),
		WeatherBaseURL:   envOr("OPENWEATHERMAP_URL", "https://api.openweathermap.org/data/2.5/weather"),
		WeatherUnits:     envOr("WEATHER_UNITS", "metric"),
		ChunkSize:        envIntOr("CHUNK_SIZE", 1000),
		ChunkOverlap:     envIntOr("CHUNK_OVERLAP", 200),
		TopK:             envIntOr("RAG_TOP_K", 3),
		UploadDir:        envOr("UPLOAD_DIR", "uploads"),
		Port:             envOr("PORT", "8080"),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if cfg.WeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHERMAP_API_KEY is not set")
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("CONFIG WARN: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}
