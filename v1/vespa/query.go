package vespa

import (
	"fmt"
	"strings"
)

// SearchQuery is the closed set of query variants the client can execute.
type SearchQuery interface {
	// requestBody renders the variant into the engine's search request.
	requestBody(rankProfile string) map[string]interface{}
}

// HybridQuery blends vector and lexical retrieval over one project
// namespace. The weights are ranking inputs consumed by the rank profile;
// they do not filter.
type HybridQuery struct {
	ProjectID    string
	Embedding    []float64
	VectorK      int
	TopK         int
	Text         string
	WeightVector float64
	WeightText   float64
}

func (q HybridQuery) requestBody(rankProfile string) map[string]interface{} {
	includeText := strings.TrimSpace(q.Text) != ""

	body := map[string]interface{}{
		"yql":                          buildYQL(q.ProjectID, q.VectorK, includeText),
		"hits":                         q.TopK,
		"ranking":                      map[string]interface{}{"profile": rankProfile},
		"presentation":                 map[string]interface{}{"summary": "default"},
		"input.query(query_embedding)": q.Embedding,
		"input.query(weight_vector)":   q.WeightVector,
		"input.query(weight_text)":     q.WeightText,
	}

	// userQuery() in the YQL reads the lexical text from this parameter.
	if includeText {
		body["query"] = q.Text
	}
	return body
}

// VectorOnlyQuery carries just the nearest-neighbor clause. Used by the
// image modality, where there is no lexical field to blend against.
type VectorOnlyQuery struct {
	ProjectID string
	Embedding []float64
	VectorK   int
	TopK      int
}

func (q VectorOnlyQuery) requestBody(rankProfile string) map[string]interface{} {
	return map[string]interface{}{
		"yql":                          buildYQL(q.ProjectID, q.VectorK, false),
		"hits":                         q.TopK,
		"ranking":                      map[string]interface{}{"profile": rankProfile},
		"presentation":                 map[string]interface{}{"summary": "default"},
		"input.query(query_embedding)": q.Embedding,
	}
}

// buildYQL assembles the engine query: a project namespace filter, an
// active-document filter and the retrieval predicate. vectorK is clamped
// to at least 1 candidate.
func buildYQL(projectID string, vectorK int, includeText bool) string {
	if vectorK < 1 {
		vectorK = 1
	}

	baseFilter := fmt.Sprintf("project_id contains %s AND active = true", yqlStringLiteral(projectID))
	vectorClause := fmt.Sprintf("{targetHits:%d}nearestNeighbor(embedding, query_embedding)", vectorK)

	predicate := vectorClause
	if includeText {
		predicate = fmt.Sprintf("(%s OR userQuery())", vectorClause)
	}

	return fmt.Sprintf("select * from sources * where %s AND %s", baseFilter, predicate)
}

// yqlStringLiteral quotes a string for embedding into YQL. Backslashes and
// double quotes are escaped so tenant-supplied ids cannot break out of the
// literal.
func yqlStringLiteral(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
