package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/rixeldev/studio-api/config"
)

// S3Storage stores photo binaries in an S3-compatible bucket. A custom
// endpoint supports providers like Supabase Storage or Cloudflare R2.
type S3Storage struct {
	client   *s3.S3
	uploader *s3manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3Storage creates an S3 storage backend from configuration.
func NewS3Storage(cfg config.AppConfig) (*S3Storage, error) {
	awsConfig := &aws.Config{
		Region: aws.String(nonEmpty(cfg.StorageRegion, "auto")),
	}
	if cfg.StorageEndpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.StorageEndpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.StorageAccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.StorageAccessKey, cfg.StorageSecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage session: %w", err)
	}

	baseURL := cfg.StorageBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.StorageBucket)
	}

	return &S3Storage{
		client:   s3.New(sess),
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.StorageBucket,
		baseURL:  baseURL,
	}, nil
}

// Save uploads an object, overwriting any existing content at the path.
func (s *S3Storage) Save(ctx context.Context, path string, reader io.Reader, contentType string) error {
	input := &s3manager.UploadInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(path),
		Body:         reader,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=3600"),
	}

	if _, err := s.uploader.UploadWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return nil
}

// Delete removes an object from the bucket.
func (s *S3Storage) Delete(ctx context.Context, path string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	}

	if _, err := s.client.DeleteObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// Exists checks if an object is present in the bucket.
func (s *S3Storage) Exists(ctx context.Context, path string) (bool, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	}

	if _, err := s.client.HeadObjectWithContext(ctx, input); err != nil {
		return false, nil
	}
	return true, nil
}

// PublicURL returns the public URL for an object.
func (s *S3Storage) PublicURL(path string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, path)
}

func nonEmpty(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
