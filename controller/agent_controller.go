package controller

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/docuchat/agent/models"
	"github.com/docuchat/agent/services"
)

// AgentController handles the HTTP surface of the agent: the query
// entry point and the document ingestion endpoints. All business logic
// lives in the service layer.
type AgentController struct {
	agent     *services.AgentService
	ingestion *services.IngestionService
	index     services.VectorIndex
	uploadDir string
}

func NewAgentController(agent *services.AgentService, ingestion *services.IngestionService, index services.VectorIndex, uploadDir string) *AgentController {
	return &AgentController{
		agent:     agent,
		ingestion: ingestion,
		index:     index,
		uploadDir: uploadDir,
	}
}

// Query is the handler for POST /api/v1/query. The agent never fails
// for business reasons, so a bound request always yields a 200 with an
// AgentResult; failures ride along inside its response text.
func (c *AgentController) Query(ctx *gin.Context) {
	var req models.QueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	result := c.agent.ProcessQuery(ctx.Request.Context(), req.Query)
	ctx.JSON(http.StatusOK, result)
}

// UploadDocument is the handler for POST /api/v1/documents. It accepts
// a multipart upload, stores it under the upload directory, and runs
// the ingestion pipeline.
func (c *AgentController) UploadDocument(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing file in request: " + err.Error()})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".txt", ".md", ".pdf":
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type: " + ext})
		return
	}

	// Prefix with a short unique id so concurrent uploads of the same
	// filename cannot clobber each other.
	name := uuid.New().String()[:8] + "-" + filepath.Base(fileHeader.Filename)
	dest := filepath.Join(c.uploadDir, name)
	if err := ctx.SaveUploadedFile(fileHeader, dest); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
		return
	}

	count, err := c.ingestion.IngestFile(ctx.Request.Context(), dest)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest document"})
		return
	}

	ctx.JSON(http.StatusCreated, models.IngestResponse{
		Source:     fileHeader.Filename,
		ChunkCount: count,
	})
}

// IngestText is the handler for POST /api/v1/notes. It indexes raw
// text from the request body without writing anything to disk.
func (c *AgentController) IngestText(ctx *gin.Context) {
	var req models.IngestTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	count, err := c.ingestion.IngestText(ctx.Request.Context(), req.Text, req.Source)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest text"})
		return
	}

	source := req.Source
	if source == "" {
		source = "user_input"
	}
	ctx.JSON(http.StatusCreated, models.IngestResponse{
		Source:     source,
		ChunkCount: count,
	})
}

// Stats is the handler for GET /api/v1/documents/stats.
func (c *AgentController) Stats(ctx *gin.Context) {
	count, err := c.index.Count(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count indexed chunks"})
		return
	}
	ctx.JSON(http.StatusOK, models.StatsResponse{ChunkCount: count})
}

// ClearDocuments is the handler for DELETE /api/v1/documents.
func (c *AgentController) ClearDocuments(ctx *gin.Context) {
	if err := c.index.Clear(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear collection"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Collection cleared"})
}
