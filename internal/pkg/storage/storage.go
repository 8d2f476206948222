package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"guilde-api/internal/core/domain"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MaxLogoSize is the maximum accepted logo size (5MB)
const MaxLogoSize = 5 * 1024 * 1024

// allowedLogoTypes maps accepted MIME types to their file extension
var allowedLogoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// LogoStore uploads member logos to object storage and returns public URLs
type LogoStore interface {
	Upload(ctx context.Context, profileID, contentType string, size int64, r io.Reader) (string, error)
}

// Config holds object storage configuration
type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseTLS          bool
}

// minioLogoStore implements LogoStore backed by a MinIO/S3 bucket
type minioLogoStore struct {
	client *minio.Client
	cfg    Config
}

// NewLogoStore creates a logo store against the configured bucket
func NewLogoStore(cfg Config) (LogoStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &minioLogoStore{client: client, cfg: cfg}, nil
}

// ValidateLogo checks size and MIME type before any upload is attempted.
// Rejections here never reach the network.
func ValidateLogo(contentType string, size int64) error {
	if size > MaxLogoSize {
		return domain.ErrLogoTooLarge
	}
	if _, ok := allowedLogoTypes[normalizeContentType(contentType)]; !ok {
		return domain.ErrLogoUnsupportedType
	}
	return nil
}

// ObjectKey derives the storage key for a profile's logo.
// One key per profile, so a re-upload overwrites the previous logo.
func ObjectKey(profileID, contentType string) string {
	ext := allowedLogoTypes[normalizeContentType(contentType)]
	return profileID + ext
}

// Upload validates and stores a logo, overwriting any existing object for
// the profile, and returns the public URL of the stored object.
func (s *minioLogoStore) Upload(ctx context.Context, profileID, contentType string, size int64, r io.Reader) (string, error) {
	if err := ValidateLogo(contentType, size); err != nil {
		return "", err
	}

	key := ObjectKey(profileID, contentType)
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: normalizeContentType(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}

	return s.PublicURL(key), nil
}

// PublicURL builds the public URL for an object in the logos bucket
func (s *minioLogoStore) PublicURL(key string) string {
	scheme := "http"
	if s.cfg.UseTLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, path.Clean(key))
}

func normalizeContentType(ct string) string {
	// Strip parameters like "; charset=..." and lowercase the media type
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
