package rag

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ragstack/core/v1/models"
	"github.com/ragstack/core/v1/vespa"
)

// resolveSearchParams applies the project defaults: TopK falls back to the
// project's default page size, VectorK to the larger of the project's
// candidate pool and TopK so the ranker never sees fewer candidates than
// the page it must fill.
func resolveSearchParams(project *models.Project, input QueryInput) (topK, vectorK int) {
	topK = input.TopK
	if topK <= 0 {
		topK = project.TopKDefault
	}

	vectorK = input.VectorK
	if vectorK <= 0 {
		vectorK = project.VectorSearchK
		if topK > vectorK {
			vectorK = topK
		}
	}
	return topK, vectorK
}

// newExternalID builds the engine-side document id for one project-scoped
// record.
func newExternalID(projectID, kind string) string {
	return fmt.Sprintf("%s-%s-%s", projectID, kind, uuid.NewString())
}

// normalizeMetadata defaults empty metadata to an empty JSON object so the
// jsonb column never sees an empty string.
func normalizeMetadata(metadata string) string {
	if metadata == "" {
		return "{}"
	}
	return metadata
}

// mapResults converts engine hits to the caller-facing shape.
func mapResults(hits []vespa.Result) []QueryResult {
	results := make([]QueryResult, len(hits))
	for i, hit := range hits {
		results[i] = QueryResult{Score: hit.Relevance, Fields: hit.Fields}
	}
	return results
}

func stringField(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
