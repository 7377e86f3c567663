package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the base URL clients use to fetch objects. Defaults to the endpoint.
	PublicURL string
}

// MinioStore is a Store on any S3 compatible object storage.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore connects to the object store and creates the bucket when it
// does not exist yet.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		logrus.Infof("Created media bucket %s", cfg.Bucket)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}

	return &MinioStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *MinioStore) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (Object, error) {
	kind := KindFromMIME(contentType)
	key := ObjectKey(kind, contentType)

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Object{}, fmt.Errorf("put object %s: %w", key, err)
	}

	return Object{
		Key:  key,
		URL:  s.publicURL + "/" + s.bucket + "/" + key,
		Kind: kind,
	}, nil
}

func (s *MinioStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

// ObjectKey names a new object: <kind folder>/<uuid><extension>.
func ObjectKey(kind Kind, contentType string) string {
	ext := ""
	if m := mimetype.Lookup(contentType); m != nil {
		ext = m.Extension()
	}
	return kind.Folder() + "/" + uuid.NewString() + ext
}
