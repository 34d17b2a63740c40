package models

// AgentResult is the terminal artifact returned to the caller for every
// processed query. Failures are carried in-band in Response, never as an
// error the caller has to handle.
type AgentResult struct {
	Query    string `json:"query"`
	Response string `json:"response"`
	Route    Route  `json:"route"`
}

// RAGAnswer is the output of the answer synthesizer: the model's text,
// the metadata of each grounding chunk, and the raw retrieval results.
type RAGAnswer struct {
	Answer          string                   `json:"answer"`
	Sources         []map[string]interface{} `json:"sources"`
	RetrievedChunks []RetrievedChunk         `json:"retrieved_chunks,omitempty"`
}
