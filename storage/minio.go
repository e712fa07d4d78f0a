package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"learnhub/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIO stores uploads as objects in one bucket, keyed by filename.
type MinIO struct {
	mc     *minio.Client
	bucket string
	log    *logger.Logger
}

func NewMinIO(ctx context.Context, cfg MinIOConfig, log *logger.Logger) (*MinIO, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio access key and secret key are required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	m := &MinIO{mc: mc, bucket: cfg.Bucket, log: log}
	if err := m.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MinIO) ensureBucket(ctx context.Context) error {
	exists, err := m.mc.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := m.mc.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		m.log.Info("[minio] created bucket", "bucket", m.bucket)
	}
	return nil
}

func (m *MinIO) Save(ctx context.Context, file *multipart.FileHeader) (Content, error) {
	src, err := file.Open()
	if err != nil {
		return Content{}, err
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	name := newFilename(file.Filename)
	if _, err := m.mc.PutObject(ctx, m.bucket, name, src, file.Size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return Content{}, fmt.Errorf("upload %s: %w", name, err)
	}
	return contentRef(name), nil
}

// Open streams an object; the caller closes it.
func (m *MinIO) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	name, err := cleanName(filename)
	if err != nil {
		return nil, err
	}
	obj, err := m.mc.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", name, err)
	}
	// GetObject is lazy; Stat surfaces a missing key.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	return obj, nil
}

func (m *MinIO) Delete(ctx context.Context, filename string) error {
	name, err := cleanName(filename)
	if err != nil {
		return err
	}
	return m.mc.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{})
}
