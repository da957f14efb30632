package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/erazemk/milaap/internal/model"
)

// MinIOConfig configures the MinIO backend.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIO stores uploads as objects keyed "<kind>/<uuid>.jpg".
type MinIO struct {
	client *minio.Client
	bucket string
}

// NewMinIO connects to MinIO and creates the bucket when missing.
func NewMinIO(ctx context.Context, cfg MinIOConfig) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %s: %w", cfg.Bucket, err)
		}
		slog.Info("created upload bucket", "bucket", cfg.Bucket)
	}

	slog.Info("minio upload storage initialized", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	return &MinIO{client: client, bucket: cfg.Bucket}, nil
}

func objectKey(ref string) (string, error) {
	if _, _, err := splitRef(ref); err != nil {
		return "", err
	}
	return strings.TrimPrefix(ref, Prefix), nil
}

// Save implements Store.
func (m *MinIO) Save(ctx context.Context, kind model.ItemKind, data []byte) (string, error) {
	ref := newRef(kind)
	key, err := objectKey(ref)
	if err != nil {
		return "", err
	}
	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/jpeg"})
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	return ref, nil
}

// Open implements Store.
func (m *MinIO) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	key, err := objectKey(ref)
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	if _, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("checking image: %w", err)
	}
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	return obj, nil
}

// Delete implements Store.
func (m *MinIO) Delete(ctx context.Context, ref string) error {
	key, err := objectKey(ref)
	if err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}
	return nil
}
