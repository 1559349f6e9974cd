package vespa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Logger defines the interface for logging operations within the vespa package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Client talks to one document type of the search engine. It is safe for
// concurrent use; construct one per document type and share it across
// projects.
type Client struct {
	baseURL      string
	namespace    string
	documentType string
	rankProfile  string
	httpClient   *http.Client
	logger       Logger
}

// NewClient constructs a Client from Config.
func NewClient(cfg Config, logger Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.Endpoint, "/"),
		namespace:    cfg.Namespace,
		documentType: cfg.DocumentType,
		rankProfile:  cfg.RankProfile,
		httpClient:   &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutS) * time.Second},
		logger:       logger,
	}, nil
}

// UpsertDocument writes the fields of one document, creating or replacing
// it under the given id.
func (c *Client) UpsertDocument(ctx context.Context, documentID string, fields map[string]interface{}) error {
	status, body, err := c.do(ctx, http.MethodPost, c.documentURL(documentID), map[string]interface{}{
		"fields": fields,
	})
	if err != nil {
		return fmt.Errorf("vespa: upsert document %s: %w", documentID, err)
	}
	if status >= 400 {
		err := storeError("upsert document", status, body)
		c.logger.Error("document upsert failed", err, map[string]interface{}{
			"document_id": documentID,
			"status":      status,
		})
		return err
	}
	return nil
}

// DeleteDocument removes one document. A missing remote document is not an
// error: it returns (false, nil) so that an already-deleted race does not
// abort the caller's transaction.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) (bool, error) {
	status, body, err := c.do(ctx, http.MethodDelete, c.documentURL(documentID), nil)
	if err != nil {
		return false, fmt.Errorf("vespa: delete document %s: %w", documentID, err)
	}
	if status == http.StatusNotFound {
		return false, nil
	}
	if status >= 400 {
		err := storeError("delete document", status, body)
		c.logger.Error("document delete failed", err, map[string]interface{}{
			"document_id": documentID,
			"status":      status,
		})
		return false, err
	}
	return true, nil
}

// Search executes one query and returns its hits ordered by descending
// relevance. The returned slice is a finite, one-shot result set; run the
// query again for fresh results.
func (c *Client) Search(ctx context.Context, query SearchQuery) ([]Result, error) {
	status, body, err := c.do(ctx, http.MethodPost, c.baseURL+"/search/", query.requestBody(c.rankProfile))
	if err != nil {
		return nil, fmt.Errorf("vespa: search: %w", err)
	}
	if status >= 400 {
		err := storeError("search", status, body)
		c.logger.Error("search failed", err, map[string]interface{}{"status": status})
		return nil, err
	}

	results, err := ParseResults(body)
	if err != nil {
		return nil, fmt.Errorf("vespa: search: %w", err)
	}
	return results, nil
}

func (c *Client) documentURL(documentID string) string {
	return fmt.Sprintf("%s/document/v1/%s/%s/docid/%s",
		c.baseURL, c.namespace, c.documentType, url.PathEscape(documentID))
}

// do executes one HTTP exchange and returns the status code and body.
// Transport-level failures come back as ErrStoreRequest.
func (c *Client) do(ctx context.Context, method, rawURL string, payload interface{}) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrStoreRequest, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body", cerr, nil)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response body: %w", err)
	}
	return resp.StatusCode, body, nil
}
