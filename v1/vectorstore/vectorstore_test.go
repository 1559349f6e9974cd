package vectorstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragstack/core/v1/models"
	"github.com/ragstack/core/v1/vespa"
)

type noopLogger struct{}

func (noopLogger) Info(string, error, ...map[string]interface{})  {}
func (noopLogger) Debug(string, error, ...map[string]interface{}) {}
func (noopLogger) Warn(string, error, ...map[string]interface{})  {}
func (noopLogger) Error(string, error, ...map[string]interface{}) {}
func (noopLogger) Fatal(string, error, ...map[string]interface{}) {}

type capturedRequest struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

func testRegistry(t *testing.T, cfg Config, captured *[]capturedRequest) *Registry {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &body))
		}
		*captured = append(*captured, capturedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"root":{"children":[]}}`))
	}))
	t.Cleanup(server.Close)

	newClient := func(documentType, rankProfile string) *vespa.Client {
		client, err := vespa.NewClient(vespa.Config{
			Endpoint:     server.URL,
			Namespace:    "rag",
			DocumentType: documentType,
			RankProfile:  rankProfile,
			HTTPTimeoutS: 5,
		}, noopLogger{})
		require.NoError(t, err)
		return client
	}

	registry, err := NewRegistry(cfg,
		newClient("rag_document", "rag-hybrid"),
		newClient("rag_image", "rag-image"),
		noopLogger{})
	require.NoError(t, err)
	return registry
}

func TestNewRegistryRejectsUnpackableImageDim(t *testing.T) {
	_, err := NewRegistry(Config{DocumentDim: 256, ImageDim: 100}, nil, nil, noopLogger{})
	assert.Error(t, err)
}

func TestDocumentUpsertPayload(t *testing.T) {
	var captured []capturedRequest
	registry := testRegistry(t, Config{DocumentDim: 4, ImageDim: 8}, &captured)

	store := registry.DocumentStore(&models.Project{ID: "proj-1"})
	err := store.Upsert(context.Background(), &models.ProjectDocument{
		ID:                 7,
		ExternalDocumentID: "ext-7",
		Title:              "Budget 2026",
		Content:            "full text",
		Metadata:           `{"source":"upload"}`,
		Active:             true,
	}, []float64{0.1, 0.2})
	require.NoError(t, err)

	require.Len(t, captured, 1)
	assert.Equal(t, "/document/v1/rag/rag_document/docid/ext-7", captured[0].Path)

	fields, ok := captured[0].Body["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "proj-1", fields["project_id"])
	assert.Equal(t, "Budget 2026", fields["title"])
	assert.Equal(t, true, fields["active"])

	embedding, ok := fields["embedding"].(map[string]interface{})
	require.True(t, ok)
	// Short input is zero-padded to the transport dimension.
	assert.Equal(t, []interface{}{0.1, 0.2, 0.0, 0.0}, embedding["values"])
}

func TestDocumentHybridSearchEmbeddingTruncated(t *testing.T) {
	var captured []capturedRequest
	registry := testRegistry(t, Config{DocumentDim: 2, ImageDim: 8}, &captured)

	store := registry.DocumentStore(&models.Project{ID: "proj-1"})
	_, err := store.HybridSearch(context.Background(), []float64{0.1, 0.2, 0.3, 0.4}, 50, 10, 0.7, 0.3, "query text")
	require.NoError(t, err)

	require.Len(t, captured, 1)
	assert.Equal(t, "/search/", captured[0].Path)
	assert.Equal(t, []interface{}{0.1, 0.2}, captured[0].Body["input.query(query_embedding)"])
	assert.Equal(t, "query text", captured[0].Body["query"])
}

func TestImageUpsertPacksEmbedding(t *testing.T) {
	var captured []capturedRequest
	registry := testRegistry(t, Config{DocumentDim: 4, ImageDim: 8}, &captured)

	store := registry.ImageStore(&models.Project{ID: "proj-1"})
	err := store.Upsert(context.Background(), &models.ProjectImage{
		ID:                 3,
		ExternalDocumentID: "img-3",
		StorageKey:         "projects/proj-1/images/3/ab12.png",
		ContentType:        "image/png",
		Metadata:           "{}",
		Active:             true,
	}, []float64{0.5, -0.1, 0, 9.2, 3.4, -2.0, 8.1, -7.0})
	require.NoError(t, err)

	require.Len(t, captured, 1)
	assert.Equal(t, "/document/v1/rag/rag_image/docid/img-3", captured[0].Path)

	fields, ok := captured[0].Body["fields"].(map[string]interface{})
	require.True(t, ok)
	embedding, ok := fields["embedding"].(map[string]interface{})
	require.True(t, ok)
	// 8 dims quantize into one signed byte.
	assert.Equal(t, []interface{}{-102.0}, embedding["values"])
}

func TestImageSearchUsesVectorOnlyQuery(t *testing.T) {
	var captured []capturedRequest
	registry := testRegistry(t, Config{DocumentDim: 4, ImageDim: 8}, &captured)

	store := registry.ImageStore(&models.Project{ID: "proj-1"})
	_, err := store.Search(context.Background(), []float64{1, 1, 1, 1, 1, 1, 1, 1}, 30, 5)
	require.NoError(t, err)

	require.Len(t, captured, 1)
	body := captured[0].Body
	assert.Equal(t, []interface{}{-1.0}, body["input.query(query_embedding)"])
	_, hasText := body["query"]
	assert.False(t, hasText)
	_, hasWeight := body["input.query(weight_vector)"]
	assert.False(t, hasWeight)
}

func TestRegistryCachesStoresPerProject(t *testing.T) {
	var captured []capturedRequest
	registry := testRegistry(t, Config{DocumentDim: 4, ImageDim: 8}, &captured)

	projectA := &models.Project{ID: "proj-a"}
	projectB := &models.Project{ID: "proj-b"}

	assert.Same(t, registry.DocumentStore(projectA), registry.DocumentStore(projectA))
	assert.NotSame(t, registry.DocumentStore(projectA), registry.DocumentStore(projectB))
	assert.Same(t, registry.ImageStore(projectA), registry.ImageStore(projectA))

	before := registry.DocumentStore(projectA)
	registry.Forget("proj-a")
	assert.NotSame(t, before, registry.DocumentStore(projectA))
}
