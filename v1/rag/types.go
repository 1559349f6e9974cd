package rag

// ProjectInput describes a retrieval namespace to provision. Zero search
// parameters fall back to the platform defaults.
type ProjectInput struct {
	Name               string
	Description        string
	EmbeddingProvider  string
	EmbeddingModel     string
	EmbeddingDim       int
	HybridWeightVector float64
	HybridWeightText   float64
	TopKDefault        int
	VectorSearchK      int
	IngestKeyHash      string
}

// DocumentInput is one text document to ingest.
type DocumentInput struct {
	Title    string
	Text     string
	Metadata string // JSON object, "{}" when empty
}

// ImageInput is one image to ingest.
type ImageInput struct {
	Data        []byte
	ContentType string
	Filename    string
	Metadata    string // JSON object, "{}" when empty
}

// QueryInput parameterizes a search. Zero TopK/VectorK fall back to the
// project defaults.
type QueryInput struct {
	Query   string
	TopK    int
	VectorK int
}

// QueryResult is one search hit as returned to callers.
type QueryResult struct {
	Score  float64
	Fields map[string]interface{}
}

// ImageQueryResult is one image hit with its resolved object URL.
type ImageQueryResult struct {
	Score       float64
	StorageKey  string
	ContentType string
	Metadata    string
	URL         string
}
