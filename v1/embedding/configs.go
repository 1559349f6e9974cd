package embedding

import (
	"fmt"
	"os"
	"strconv"
)

// EMBEDDING_ENDPOINT must point to the root of the OpenAI-compatible
// inference service (no /embeddings appended). The provider appends paths
// automatically, so callers only need to supply the host base URL.

type Config struct {
	Endpoint     string // Base URL of the inference API
	ServiceToken string // Bearer token, optional for unauthenticated deployments
	Model        string // Embedding model identifier sent with every request
	HTTPTimeoutS int    // HTTP timeout seconds (default 30)
}

// NewConfig reads the text embedding configuration from environment variables.
func NewConfig() *Config {
	return &Config{
		Endpoint:     os.Getenv("EMBEDDING_ENDPOINT"),
		ServiceToken: os.Getenv("EMBEDDING_SERVICE_TOKEN"),
		Model:        envOr("EMBEDDING_MODEL", "nomic-embed-text-v1.5"),
		HTTPTimeoutS: envTimeout("EMBEDDING_HTTP_TIMEOUT_SECONDS"),
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_ENDPOINT")
	}
	if c.Model == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_MODEL")
	}
	return nil
}

// ImageConfig configures the image modality client. It is a distinct type
// so dependency injection can tell the two apart.
type ImageConfig struct {
	Endpoint     string
	ServiceToken string
	Model        string
	HTTPTimeoutS int
}

// NewImageConfig reads the image embedding configuration from environment
// variables.
func NewImageConfig() *ImageConfig {
	return &ImageConfig{
		Endpoint:     os.Getenv("IMAGE_EMBEDDING_ENDPOINT"),
		ServiceToken: os.Getenv("IMAGE_EMBEDDING_SERVICE_TOKEN"),
		Model:        envOr("IMAGE_EMBEDDING_MODEL", "siglip2-base-patch16-naflex"),
		HTTPTimeoutS: envTimeout("IMAGE_EMBEDDING_HTTP_TIMEOUT_SECONDS"),
	}
}

// Validate ensures required fields are present.
func (c *ImageConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("embedding: missing IMAGE_EMBEDDING_ENDPOINT")
	}
	if c.Model == "" {
		return fmt.Errorf("embedding: missing IMAGE_EMBEDDING_MODEL")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envTimeout(key string) int {
	timeout := 30
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = n
		}
	}
	return timeout
}
