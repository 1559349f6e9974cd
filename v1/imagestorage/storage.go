package imagestorage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Logger defines the interface for logging operations within the imagestorage package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// StoredImage is the result of a successful upload.
type StoredImage struct {
	Key string
	URL string
}

// Storage wraps a MinIO client scoped to the image bucket.
type Storage struct {
	client *minio.Client
	cfg    Config
	logger Logger
}

// NewStorage creates a Storage and verifies the bucket exists, creating it
// when missing.
func NewStorage(cfg Config, logger Logger) (*Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("imagestorage: creating client: %w", err)
	}

	storage := &Storage{client: client, cfg: cfg, logger: logger}
	if err := storage.ensureBucket(context.Background()); err != nil {
		return nil, err
	}
	return storage, nil
}

func (s *Storage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.BucketName)
	if err != nil {
		return fmt.Errorf("imagestorage: checking bucket %s: %w", s.cfg.BucketName, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.cfg.BucketName, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
		return fmt.Errorf("imagestorage: creating bucket %s: %w", s.cfg.BucketName, err)
	}
	s.logger.Info("created image bucket", nil, map[string]interface{}{"bucket": s.cfg.BucketName})
	return nil
}

// Upload stores one image and returns its key and resolved URL.
func (s *Storage) Upload(ctx context.Context, projectID string, imageID uint, data []byte, contentType, filename string) (StoredImage, error) {
	suffix, err := randomSuffix()
	if err != nil {
		return StoredImage{}, fmt.Errorf("imagestorage: generating key suffix: %w", err)
	}

	key := fmt.Sprintf("projects/%s/images/%d/%s%s",
		projectID, imageID, suffix, resolveExtension(filename, contentType))

	_, err = s.client.PutObject(ctx, s.cfg.BucketName, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return StoredImage{}, fmt.Errorf("imagestorage: uploading %s: %w", key, err)
	}

	resolved, err := s.ResolveURL(ctx, key)
	if err != nil {
		return StoredImage{}, err
	}
	return StoredImage{Key: key, URL: resolved}, nil
}

// Delete removes one object. A key already absent returns (false, nil).
func (s *Storage) Delete(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.cfg.BucketName, key, minio.StatObjectOptions{})
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("imagestorage: checking %s: %w", key, err)
	}

	if err := s.client.RemoveObject(ctx, s.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("imagestorage: deleting %s: %w", key, err)
	}
	return true, nil
}

// ResolveURL returns a fetchable URL for the given key: the public base URL
// when configured, otherwise a presigned GET link.
func (s *Storage) ResolveURL(ctx context.Context, key string) (string, error) {
	if base := strings.TrimRight(s.cfg.PublicBaseURL, "/"); base != "" {
		return base + "/" + escapeKey(key), nil
	}

	presigned, err := s.client.PresignedGetObject(ctx, s.cfg.BucketName, key, s.cfg.PresignTTL, nil)
	if err != nil {
		return "", fmt.Errorf("imagestorage: presigning %s: %w", key, err)
	}
	return presigned.String(), nil
}

// escapeKey escapes each path segment while keeping the separators.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func randomSuffix() (string, error) {
	raw := make([]byte, 8)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// resolveExtension picks the object extension: the original filename's
// extension when present, otherwise one guessed from the content type,
// otherwise ".bin".
func resolveExtension(filename, contentType string) string {
	if ext := strings.ToLower(path.Ext(filename)); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
