package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

const s3Scheme = "s3://"

type MinioService struct {
	Client        *minio.Client
	BucketName    string
	presignExpiry time.Duration
	logger        zerolog.Logger
}

type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PresignExpiry time.Duration
}

// NewMinioService connects and creates the bucket if it doesn't exist.
func NewMinioService(ctx context.Context, cfg MinioConfig, logger zerolog.Logger) (*MinioService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	logger = logger.With().Str("component", "minio").Logger()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info().Str("bucket", cfg.Bucket).Msg("created bucket")
	}

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	logger.Info().Str("endpoint", cfg.Endpoint).Msg("connected to MinIO")
	return &MinioService{
		Client:        client,
		BucketName:    cfg.Bucket,
		presignExpiry: expiry,
		logger:        logger,
	}, nil
}

// CheckConnection is used by the health endpoint.
func (s *MinioService) CheckConnection(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return fmt.Errorf("minio service not initialized")
	}
	_, err := s.Client.BucketExists(ctx, s.BucketName)
	return err
}

// Store uploads in a single PutObject, so the object either exists in full
// afterwards or the call fails and no reference is returned.
func (s *MinioService) Store(ctx context.Context, r io.Reader, size int64, mimeType string) (models.BlobReference, error) {
	objectName := uuid.NewString() + extensionFor(mimeType)

	info, err := s.Client.PutObject(ctx, s.BucketName, objectName, r, size, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("object", objectName).Msg("upload failed")
		return models.BlobReference{}, fmt.Errorf("%w: put object: %v", models.ErrBlobUnavailable, err)
	}

	return models.BlobReference{
		Locator:   s3Scheme + s.BucketName + "/" + objectName,
		SizeBytes: info.Size,
		MimeType:  mimeType,
	}, nil
}

// objectName parses an s3:// locator. Only objects in the service's own
// bucket are served; a locator naming any other bucket is rejected before
// MinIO is asked to sign or read it.
func (s *MinioService) objectName(locator string) (string, error) {
	rest, ok := strings.CutPrefix(locator, s3Scheme)
	if !ok {
		return "", fmt.Errorf("%w: unsupported locator %q", models.ErrInvalidArgument, locator)
	}
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", fmt.Errorf("%w: malformed locator %q", models.ErrInvalidArgument, locator)
	}
	if bucket != s.BucketName {
		return "", fmt.Errorf("%w: locator %q is outside bucket %s", models.ErrInvalidArgument, locator, s.BucketName)
	}
	return object, nil
}

// Resolve turns an s3:// locator into a presigned GET URL. Web URLs placed by
// the caller are already viewable and come back unchanged.
func (s *MinioService) Resolve(ctx context.Context, ref models.BlobReference) (string, error) {
	if isWebLocator(ref.Locator) {
		return ref.Locator, nil
	}
	object, err := s.objectName(ref.Locator)
	if err != nil {
		return "", err
	}

	u, err := s.Client.PresignedGetObject(ctx, s.BucketName, object, s.presignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("%w: presign %s: %v", models.ErrBlobUnavailable, object, err)
	}
	return u.String(), nil
}

// Open streams the object; used by the upload scanner.
func (s *MinioService) Open(ctx context.Context, ref models.BlobReference) (io.ReadCloser, error) {
	object, err := s.objectName(ref.Locator)
	if err != nil {
		return nil, err
	}

	obj, err := s.Client.GetObject(ctx, s.BucketName, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get object: %v", models.ErrBlobUnavailable, err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("object %s: %w", object, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: stat object: %v", models.ErrBlobUnavailable, err)
	}
	return obj, nil
}
