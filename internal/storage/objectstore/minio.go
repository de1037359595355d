package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/magabrotheeeer/invoicer/internal/config"
)

// MinIO хранит объекты в бакете S3-совместимого хранилища.
type MinIO struct {
	mc      *minio.Client
	bucket  string
	baseURL string
}

// NewMinIO создаёт клиент. Бакет не проверяется, см. EnsureBucket.
func NewMinIO(cfg config.MinIO) (*MinIO, error) {
	const op = "objectstore.NewMinIO"
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%s: minio endpoint is required", op)
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("%s: minio access_key and secret_key are required", op)
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "invoicer-logos"
	}
	return &MinIO{mc: mc, bucket: bucket, baseURL: publicBase(cfg, bucket)}, nil
}

func publicBase(cfg config.MinIO, bucket string) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/") + "/"
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.Endpoint + "/" + bucket + "/"
}

// EnsureBucket создаёт бакет, если его нет.
func (m *MinIO) EnsureBucket(ctx context.Context) error {
	const op = "objectstore.EnsureBucket"
	exists, err := m.mc.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("%s: check bucket: %w", op, err)
	}
	if !exists {
		if err = m.mc.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%s: create bucket: %w", op, err)
		}
	}
	return nil
}

// Put загружает объект и возвращает его публичный URL.
func (m *MinIO) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	const op = "objectstore.MinIO.Put"
	if !validKey(key) {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidKey)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.mc.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return m.baseURL + key, nil
}

// Delete удаляет объект по публичному URL.
func (m *MinIO) Delete(ctx context.Context, publicPath string) error {
	const op = "objectstore.MinIO.Delete"
	key, err := keyFromPath(m.baseURL, publicPath)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	err = m.mc.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Exists проверяет наличие объекта.
func (m *MinIO) Exists(ctx context.Context, publicPath string) (bool, error) {
	const op = "objectstore.MinIO.Exists"
	key, err := keyFromPath(m.baseURL, publicPath)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	_, err = m.mc.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}
