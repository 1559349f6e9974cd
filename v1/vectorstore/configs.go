package vectorstore

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the transport embedding dimensions shared by every project.
type Config struct {
	// DocumentDim is the float embedding dimension of the document schema.
	DocumentDim int
	// ImageDim is the source embedding dimension of the image schema. It is
	// binary-quantized before transport, so it must be a multiple of 8.
	ImageDim int
}

// NewConfig reads from environment variables.
func NewConfig() Config {
	return Config{
		DocumentDim: envIntOr("VESPA_EMBED_DIM", 256),
		ImageDim:    envIntOr("VESPA_IMAGE_EMBED_DIM", 768),
	}
}

// Validate ensures the dimensions are usable.
func (c Config) Validate() error {
	if c.DocumentDim <= 0 {
		return fmt.Errorf("vectorstore: VESPA_EMBED_DIM must be greater than zero")
	}
	if c.ImageDim <= 0 {
		return fmt.Errorf("vectorstore: VESPA_IMAGE_EMBED_DIM must be greater than zero")
	}
	if c.ImageDim%8 != 0 {
		return fmt.Errorf("vectorstore: VESPA_IMAGE_EMBED_DIM must be a multiple of 8, got %d", c.ImageDim)
	}
	return nil
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
