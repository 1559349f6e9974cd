package vespa

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Endpoint is the base URL of the search engine, e.g. "http://localhost:8080".
	Endpoint string

	// Namespace is the document API namespace all tenants share.
	Namespace string

	// DocumentType selects the schema within the namespace.
	DocumentType string

	// RankProfile is the ranking profile applied to every search.
	RankProfile string

	// HTTPTimeoutS is the request timeout in seconds (default 10).
	HTTPTimeoutS int
}

// NewConfig reads the text-document client configuration from environment
// variables.
func NewConfig() Config {
	return Config{
		Endpoint:     envOr("VESPA_ENDPOINT", "http://localhost:8080"),
		Namespace:    envOr("VESPA_NAMESPACE", "rag"),
		DocumentType: envOr("VESPA_DOCUMENT_TYPE", "rag_document"),
		RankProfile:  envOr("VESPA_RANK_PROFILE", "rag-hybrid"),
		HTTPTimeoutS: envIntOr("VESPA_TIMEOUT_SECONDS", 10),
	}
}

// NewImageConfig reads the image client configuration. It shares the
// endpoint and namespace with the document client but targets the image
// schema and its vector-only ranking profile.
func NewImageConfig() Config {
	return Config{
		Endpoint:     envOr("VESPA_ENDPOINT", "http://localhost:8080"),
		Namespace:    envOr("VESPA_NAMESPACE", "rag"),
		DocumentType: envOr("VESPA_IMAGE_DOCUMENT_TYPE", "rag_image"),
		RankProfile:  envOr("VESPA_IMAGE_RANK_PROFILE", "rag-image"),
		HTTPTimeoutS: envIntOr("VESPA_TIMEOUT_SECONDS", 10),
	}
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("vespa: missing VESPA_ENDPOINT")
	}
	if c.Namespace == "" {
		return fmt.Errorf("vespa: missing VESPA_NAMESPACE")
	}
	if c.DocumentType == "" {
		return fmt.Errorf("vespa: missing VESPA_DOCUMENT_TYPE")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
