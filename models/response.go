package models

type IngestResponse struct {
	Source     string `json:"source"`
	ChunkCount int    `json:"chunk_count"`
}

type StatsResponse struct {
	ChunkCount int `json:"chunk_count"`
}
