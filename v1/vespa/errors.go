package vespa

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStoreRequest marks any failed HTTP exchange with the search engine.
// Callers that performed earlier external side effects must compensate
// before propagating it.
var ErrStoreRequest = errors.New("document store request failed")

// maxErrorDetail bounds how much of an engine error body is kept for
// diagnostics.
const maxErrorDetail = 300

// storeError builds an ErrStoreRequest with the HTTP status and a
// truncated response body.
func storeError(operation string, status int, body []byte) error {
	detail := strings.TrimSpace(string(body))
	if len(detail) > maxErrorDetail {
		detail = detail[:maxErrorDetail] + "..."
	}

	if detail == "" {
		return fmt.Errorf("vespa: %s: status %d: %w", operation, status, ErrStoreRequest)
	}
	return fmt.Errorf("vespa: %s: status %d: %s: %w", operation, status, detail, ErrStoreRequest)
}
