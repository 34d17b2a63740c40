package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/gin-gonic/gin"
	"google.golang.org/genai"

	"github.com/docuchat/agent/config"
	"github.com/docuchat/agent/controller"
	"github.com/docuchat/agent/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}

	if err := services.SetupPDFLicense(cfg.UnidocLicenseKey); err != nil {
		log.Printf("WARN: Unidoc license not configured: %v. PDF ingestion will fail.", err)
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("FATAL: Failed to create upload directory %s: %v", cfg.UploadDir, err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	chromaClient, err := chromago.NewHTTPClient(chromago.WithBaseURL(cfg.ChromaURL))
	if err != nil {
		log.Fatalf("FATAL: Failed to create chroma client: %v", err)
	}
	defer func() {
		if cerr := chromaClient.Close(); cerr != nil {
			log.Printf("Warning: Failed to close chroma client: %v", cerr)
		}
	}()

	collection, err := getOrCreateCollection(chromaClient, cfg.CollectionName)
	if err != nil {
		log.Fatalf("FATAL: Failed to get or create collection: %v", err)
	}

	geminiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to create Gemini client: %v", err)
	}
	log.Println("Successfully connected to Google Gemini.")

	embedder := services.NewOllamaEmbedder(httpClient, cfg.OllamaURL, cfg.EmbeddingModel)
	index := services.NewChromaIndex(chromaClient, collection, cfg.CollectionName, embedder)
	chunker := services.NewDocumentChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	ingestion := services.NewIngestionService(chunker, index)

	weatherClient := services.NewOpenWeatherClient(
		&http.Client{Timeout: 10 * time.Second},
		cfg.WeatherBaseURL,
		cfg.WeatherAPIKey,
	)
	weatherBuilder := services.NewWeatherAnswerBuilder(weatherClient, cfg.WeatherUnits)

	completer := services.NewGeminiCompleter(geminiClient, cfg.LLMModel)
	ragService := services.NewRAGService(index, completer, cfg.TopK)

	evaluator := services.NewEvaluator(64)
	defer evaluator.Close()

	router := services.NewIntentRouter(nil)
	agent := services.NewAgentService(router, weatherBuilder, ragService, evaluator)

	agentController := controller.NewAgentController(agent, ingestion, index, cfg.UploadDir)

	// Keep the uploads directory and the index in sync in the background.
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	go func() {
		ingestion.ScanDirectory(watchCtx, cfg.UploadDir)
		ingestion.WatchDirectory(watchCtx, cfg.UploadDir)
	}()

	engine := gin.Default()

	engine.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Agent API",
			"version": "1.0.0",
		})
	})

	apiV1 := engine.Group("/api/v1")
	{
		apiV1.POST("/query", agentController.Query)
		apiV1.POST("/documents", agentController.UploadDocument)
		apiV1.POST("/notes", agentController.IngestText)
		apiV1.GET("/documents/stats", agentController.Stats)
		apiV1.DELETE("/documents", agentController.ClearDocuments)
	}

	log.Printf("Agent backend server starting on http://localhost:%s", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("FATAL: Failed to start server: %v", err)
	}
}

// getOrCreateCollection ensures the vector collection exists before the
// first query is served.
func getOrCreateCollection(client chromago.Client, collectionName string) (chromago.Collection, error) {
	ctx := context.Background()

	log.Printf("Getting or creating collection '%s'...", collectionName)

	collection, err := client.GetOrCreateCollection(
		ctx,
		collectionName,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "document QA collection"),
				chromago.NewStringAttribute("created_by", "agent_service"),
			),
		),
	)
	if err != nil {
		return nil, err
	}

	log.Printf("Successfully got/created collection '%s'", collectionName)
	return collection, nil
}
