package vespa

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(string, error, ...map[string]interface{})  {}
func (noopLogger) Debug(string, error, ...map[string]interface{}) {}
func (noopLogger) Warn(string, error, ...map[string]interface{})  {}
func (noopLogger) Error(string, error, ...map[string]interface{}) {}
func (noopLogger) Fatal(string, error, ...map[string]interface{}) {}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		Endpoint:     server.URL,
		Namespace:    "rag",
		DocumentType: "rag_document",
		RankProfile:  "rag-hybrid",
		HTTPTimeoutS: 5,
	}, noopLogger{})
	require.NoError(t, err)
	return client
}

func TestUpsertDocument(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusOK)
	})

	err := client.UpsertDocument(context.Background(), "doc-1", map[string]interface{}{
		"project_id": "proj-1",
		"active":     true,
	})
	require.NoError(t, err)

	assert.Equal(t, "/document/v1/rag/rag_document/docid/doc-1", gotPath)
	fields, ok := gotBody["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "proj-1", fields["project_id"])
	assert.Equal(t, true, fields["active"])
}

func TestUpsertDocumentEngineError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid field"}`))
	})

	err := client.UpsertDocument(context.Background(), "doc-1", map[string]interface{}{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreRequest))
	assert.Contains(t, err.Error(), "invalid field")
}

func TestUpsertDocumentErrorDetailTruncated(t *testing.T) {
	long := strings.Repeat("x", 2000)
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(long))
	})

	err := client.UpsertDocument(context.Background(), "doc-1", map[string]interface{}{})
	require.Error(t, err)
	assert.Less(t, len(err.Error()), 500)
	assert.Contains(t, err.Error(), "...")
}

func TestDeleteDocument(t *testing.T) {
	var gotMethod, gotPath string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	deleted, err := client.DeleteDocument(context.Background(), "doc-9")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/document/v1/rag/rag_document/docid/doc-9", gotPath)
}

func TestDeleteDocumentMissingIsNotAnError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	deleted, err := client.DeleteDocument(context.Background(), "doc-gone")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSearch(t *testing.T) {
	var gotBody map[string]interface{}
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"root":{"children":[
			{"relevance": 0.4, "fields": {"external_document_id": "low"}},
			{"relevance": 0.9, "fields": {"external_document_id": "high"}}
		]}}`))
	})

	results, err := client.Search(context.Background(), HybridQuery{
		ProjectID:    "proj-1",
		Embedding:    []float64{0.1},
		VectorK:      50,
		TopK:         10,
		Text:         "hello",
		WeightVector: 0.7,
		WeightText:   0.3,
	})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "high", results[0].Fields["external_document_id"])
	assert.Equal(t, "low", results[1].Fields["external_document_id"])

	// The configured rank profile is injected by the client.
	ranking, ok := gotBody["ranking"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "rag-hybrid", ranking["profile"])
}

func TestSearchTransportFailure(t *testing.T) {
	client, err := NewClient(Config{
		Endpoint:     "http://127.0.0.1:1",
		Namespace:    "rag",
		DocumentType: "rag_document",
		RankProfile:  "rag-hybrid",
		HTTPTimeoutS: 1,
	}, noopLogger{})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), VectorOnlyQuery{
		ProjectID: "p",
		Embedding: []float64{0.1},
		VectorK:   10,
		TopK:      5,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreRequest))
}

func TestDocumentURLEscapesID(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	assert.Contains(t, client.documentURL("a/b c"), "/docid/a%2Fb%20c")
}
