package vespa

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResultsMixedRelevanceTypes(t *testing.T) {
	body := []byte(`{"root":{"children":[
		{"relevance": 0.15, "fields": {"external_document_id": "a"}},
		{"relevance": 0.95, "fields": {"external_document_id": "b"}},
		{"relevance": "0.60", "fields": {"external_document_id": "c"}}
	]}}`)

	results, err := ParseResults(body)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 0.95, results[0].Relevance)
	assert.Equal(t, "b", results[0].Fields["external_document_id"])
	assert.Equal(t, 0.60, results[1].Relevance)
	assert.Equal(t, 0.15, results[2].Relevance)
}

func TestParseResultsMissingRelevanceRanksLast(t *testing.T) {
	body := []byte(`{"root":{"children":[
		{"fields": {"external_document_id": "no-score"}},
		{"relevance": "not-a-number", "fields": {"external_document_id": "bad-score"}},
		{"relevance": 0.1, "fields": {"external_document_id": "scored"}}
	]}}`)

	results, err := ParseResults(body)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "scored", results[0].Fields["external_document_id"])
	assert.True(t, math.IsInf(results[1].Relevance, -1))
	assert.True(t, math.IsInf(results[2].Relevance, -1))
	// Ties keep the engine's ordering.
	assert.Equal(t, "no-score", results[1].Fields["external_document_id"])
	assert.Equal(t, "bad-score", results[2].Fields["external_document_id"])
}

func TestParseResultsDropsPayloadlessHits(t *testing.T) {
	body := []byte(`{"root":{"children":[
		{"relevance": 0.9},
		{"relevance": 0.8, "fields": {}},
		{"relevance": 0.7, "fields": {"external_document_id": "kept"}}
	]}}`)

	results, err := ParseResults(body)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "kept", results[0].Fields["external_document_id"])
}

func TestParseResultsStableTies(t *testing.T) {
	body := []byte(`{"root":{"children":[
		{"relevance": 0.5, "fields": {"external_document_id": "first"}},
		{"relevance": 0.5, "fields": {"external_document_id": "second"}},
		{"relevance": 0.5, "fields": {"external_document_id": "third"}}
	]}}`)

	results, err := ParseResults(body)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Fields["external_document_id"])
	assert.Equal(t, "second", results[1].Fields["external_document_id"])
	assert.Equal(t, "third", results[2].Fields["external_document_id"])
}

func TestParseResultsEmptyResponse(t *testing.T) {
	results, err := ParseResults([]byte(`{"root":{}}`))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestParseResultsMalformedBody(t *testing.T) {
	_, err := ParseResults([]byte(`<html>gateway timeout</html>`))
	assert.Error(t, err)
}
