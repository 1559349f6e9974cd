package vespa

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Result is one normalized search hit.
type Result struct {
	// Relevance as reported by the engine, coerced to a float. Hits whose
	// relevance was missing or unparseable carry -Inf and sort last.
	Relevance float64

	// Fields is the document payload. Never empty; payload-less hits are
	// dropped during parsing.
	Fields map[string]interface{}
}

type searchResponse struct {
	Root struct {
		Children []rawHit `json:"children"`
	} `json:"root"`
}

type rawHit struct {
	Relevance json.RawMessage        `json:"relevance"`
	Fields    map[string]interface{} `json:"fields"`
}

// ParseResults normalizes a raw search response body.
//
// The engine reports relevance as either a JSON number or a numeric
// string; both coerce to float64. A hit with fields but a missing or
// malformed relevance is kept and ranked last (-Inf) rather than dropped:
// the payload is still useful even when the score is not. Hits without any
// field payload are dropped entirely.
//
// Results are ordered by descending relevance with a stable sort, so ties
// keep the engine's original ordering.
func ParseResults(body []byte) ([]Result, error) {
	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Root.Children))
	for _, hit := range parsed.Root.Children {
		if len(hit.Fields) == 0 {
			continue
		}
		results = append(results, Result{
			Relevance: coerceRelevance(hit.Relevance),
			Fields:    hit.Fields,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	return results, nil
}

// coerceRelevance turns the engine's relevance value into a float64.
// Missing and malformed values map to -Inf.
func coerceRelevance(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return math.Inf(-1)
	}

	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return number
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if number, err := strconv.ParseFloat(text, 64); err == nil {
			return number
		}
	}

	return math.Inf(-1)
}
