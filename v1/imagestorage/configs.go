package imagestorage

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// minPresignTTL is the floor for presigned link lifetimes. Anything shorter
// expires before a client can realistically fetch the object.
const minPresignTTL = 60 * time.Second

// Config defines the connection and URL-resolution settings for the image
// bucket.
type Config struct {
	Endpoint        string // MinIO/S3 endpoint, e.g. "localhost:9000"
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string

	// PublicBaseURL serves objects directly (CDN). When empty, URLs are
	// presigned instead.
	PublicBaseURL string
	// PresignTTL is the lifetime of presigned GET links.
	PresignTTL time.Duration
}

// NewConfig reads from environment variables.
func NewConfig() Config {
	ttl := minPresignTTL
	if v := os.Getenv("IMAGE_STORAGE_PRESIGN_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			ttl = time.Duration(n) * time.Second
		}
	}
	if ttl < minPresignTTL {
		ttl = minPresignTTL
	}

	return Config{
		Endpoint:        os.Getenv("IMAGE_STORAGE_ENDPOINT"),
		AccessKeyID:     os.Getenv("IMAGE_STORAGE_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("IMAGE_STORAGE_SECRET_ACCESS_KEY"),
		UseSSL:          os.Getenv("IMAGE_STORAGE_USE_SSL") == "true",
		BucketName:      os.Getenv("IMAGE_STORAGE_BUCKET"),
		Region:          os.Getenv("IMAGE_STORAGE_REGION"),
		PublicBaseURL:   os.Getenv("IMAGE_STORAGE_PUBLIC_BASE_URL"),
		PresignTTL:      ttl,
	}
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("imagestorage: missing IMAGE_STORAGE_ENDPOINT")
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return fmt.Errorf("imagestorage: missing access credentials")
	}
	if c.BucketName == "" {
		return fmt.Errorf("imagestorage: missing IMAGE_STORAGE_BUCKET")
	}
	return nil
}
