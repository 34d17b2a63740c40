package models

type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

type IngestTextRequest struct {
	Text   string `json:"text" binding:"required"`
	Source string `json:"source,omitempty"`
}
