package vespa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildYQLHybrid(t *testing.T) {
	yql := buildYQL("0d7fa376-46e5-4c9a-91d9-5d2234b50ea3", 50, true)

	assert.Equal(t,
		`select * from sources * where project_id contains "0d7fa376-46e5-4c9a-91d9-5d2234b50ea3" AND active = true AND ({targetHits:50}nearestNeighbor(embedding, query_embedding) OR userQuery())`,
		yql)
}

func TestBuildYQLVectorOnly(t *testing.T) {
	yql := buildYQL("proj-1", 20, false)

	assert.Equal(t,
		`select * from sources * where project_id contains "proj-1" AND active = true AND {targetHits:20}nearestNeighbor(embedding, query_embedding)`,
		yql)
	assert.NotContains(t, yql, "userQuery")
}

func TestBuildYQLClampsVectorK(t *testing.T) {
	assert.Contains(t, buildYQL("p", 0, false), "{targetHits:1}")
	assert.Contains(t, buildYQL("p", -3, false), "{targetHits:1}")
}

func TestYQLStringLiteralEscaping(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "abc", `"abc"`},
		{"embedded quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"backslash then quote", `a\"b`, `"a\\\"b"`},
		{"breakout attempt", `" OR true OR project_id contains "`, `"\" OR true OR project_id contains \""`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, yqlStringLiteral(tc.input))
		})
	}
}

func TestHybridQueryRequestBody(t *testing.T) {
	query := HybridQuery{
		ProjectID:    "proj-1",
		Embedding:    []float64{0.1, 0.2},
		VectorK:      50,
		TopK:         10,
		Text:         "government budget",
		WeightVector: 0.7,
		WeightText:   0.3,
	}

	body := query.requestBody("rag-hybrid")

	assert.Equal(t, 10, body["hits"])
	assert.Equal(t, map[string]interface{}{"profile": "rag-hybrid"}, body["ranking"])
	assert.Equal(t, []float64{0.1, 0.2}, body["input.query(query_embedding)"])
	assert.Equal(t, 0.7, body["input.query(weight_vector)"])
	assert.Equal(t, 0.3, body["input.query(weight_text)"])
	assert.Equal(t, "government budget", body["query"])

	yql, ok := body["yql"].(string)
	require.True(t, ok)
	assert.Contains(t, yql, "userQuery()")
}

func TestHybridQueryWithoutTextOmitsLexicalClause(t *testing.T) {
	query := HybridQuery{
		ProjectID:    "proj-1",
		Embedding:    []float64{0.1},
		VectorK:      50,
		TopK:         10,
		Text:         "   ",
		WeightVector: 0.7,
		WeightText:   0.3,
	}

	body := query.requestBody("rag-hybrid")

	_, hasText := body["query"]
	assert.False(t, hasText)

	yql, ok := body["yql"].(string)
	require.True(t, ok)
	assert.False(t, strings.Contains(yql, "userQuery"))

	// Weights are always ranking inputs in the hybrid variant, even when
	// the lexical side contributes nothing.
	assert.Equal(t, 0.7, body["input.query(weight_vector)"])
	assert.Equal(t, 0.3, body["input.query(weight_text)"])
}

func TestVectorOnlyQueryRequestBody(t *testing.T) {
	query := VectorOnlyQuery{
		ProjectID: "proj-2",
		Embedding: []float64{0.5, 0.6},
		VectorK:   30,
		TopK:      5,
	}

	body := query.requestBody("rag-image")

	assert.Equal(t, 5, body["hits"])
	assert.Equal(t, []float64{0.5, 0.6}, body["input.query(query_embedding)"])

	_, hasText := body["query"]
	assert.False(t, hasText)
	_, hasVectorWeight := body["input.query(weight_vector)"]
	assert.False(t, hasVectorWeight)
	_, hasTextWeight := body["input.query(weight_text)"]
	assert.False(t, hasTextWeight)

	yql, ok := body["yql"].(string)
	require.True(t, ok)
	assert.NotContains(t, yql, "userQuery")
}
