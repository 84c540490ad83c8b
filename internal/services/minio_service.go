package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"movie-catalog/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// AssetStore holds uploaded posters and screenshots.
type AssetStore interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, url string) error
	Owns(url string) bool
}

type MinIOService struct {
	client     *minio.Client
	bucket     string
	region     string
	publicBase string
	logger     *logrus.Logger
}

func NewMinIOService(cfg *config.MinIOConfig, logger *logrus.Logger) (*MinIOService, error) {
	endpoint := cfg.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"bucket":   cfg.BucketName,
		"useSSL":   cfg.UseSSL,
	}).Info("MinIO client initialized successfully")

	service := &MinIOService{
		client:     minioClient,
		bucket:     cfg.BucketName,
		region:     cfg.Region,
		publicBase: publicBaseURL(cfg),
		logger:     logger,
	}

	if err := service.ensureBucket(context.Background()); err != nil {
		logger.WithError(err).Warn("Failed to configure bucket, but continuing...")
	}

	return service, nil
}

// publicBaseURL is the URL prefix under which uploaded objects are readable,
// without a trailing slash.
func publicBaseURL(cfg *config.MinIOConfig) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}

	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	protocol := "http://"
	if cfg.UseSSL {
		protocol = "https://"
	}
	return fmt.Sprintf("%s%s/%s", protocol, strings.TrimRight(endpoint, "/"), cfg.BucketName)
}

func uniqueObjectName(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	nameWithoutExt := strings.TrimSuffix(base, ext)
	nameWithoutExt = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, nameWithoutExt)
	if nameWithoutExt == "" || nameWithoutExt == "." {
		nameWithoutExt = "asset"
	}
	return fmt.Sprintf("%s_%s%s", nameWithoutExt, uuid.New().String()[:8], strings.ToLower(ext))
}

func (s *MinIOService) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.WithField("bucket", s.bucket).Info("Bucket created successfully")
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, s.bucket)

	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	s.logger.WithField("bucket", s.bucket).Info("Bucket policy set to public read")
	return nil
}

// Upload stores the object under a unique name and returns its public URL.
func (s *MinIOService) Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	objectName := uniqueObjectName(filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.WithError(err).WithField("filename", filename).Error("Failed to upload file")
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	s.logger.WithFields(logrus.Fields{
		"filename":   filename,
		"objectName": objectName,
		"size":       size,
	}).Info("File uploaded to MinIO")

	return s.publicBase + "/" + objectName, nil
}

func (s *MinIOService) Owns(url string) bool {
	_, ok := s.objectName(url)
	return ok
}

func (s *MinIOService) objectName(url string) (string, bool) {
	if !strings.HasPrefix(url, s.publicBase+"/") {
		return "", false
	}
	name := strings.TrimPrefix(url, s.publicBase+"/")
	if idx := strings.IndexAny(name, "?#"); idx != -1 {
		name = name[:idx]
	}
	if name == "" {
		return "", false
	}
	return name, true
}

// Delete removes an object previously returned by Upload. URLs hosted
// elsewhere are ignored.
func (s *MinIOService) Delete(ctx context.Context, url string) error {
	objectPath, ok := s.objectName(url)
	if !ok {
		return nil
	}

	err := s.client.RemoveObject(ctx, s.bucket, objectPath, minio.RemoveObjectOptions{})
	if err != nil {
		s.logger.WithError(err).WithField("objectPath", objectPath).Error("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.logger.WithField("objectPath", objectPath).Info("File deleted successfully from MinIO")
	return nil
}
