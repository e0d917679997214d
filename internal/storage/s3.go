package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/fitai/fitai/internal/config"
)

// ErrObjectExists is returned when a save would overwrite an existing object.
// Keys are content-addressed per user, so a collision means the same file was
// already uploaded.
var ErrObjectExists = errors.New("object already exists")

// Storage defines the interface for blob storage operations
type Storage interface {
	// Save stores an object at the given key, refusing to overwrite
	Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Delete removes the object at the given key
	Delete(ctx context.Context, key string) error

	// PublicURL returns the public URL for accessing the object
	PublicURL(key string) string
}

// S3Storage implements Storage for S3-compatible storage
// Works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2, etc.
type S3Storage struct {
	client    *s3.Client
	bucket    string
	region    string
	endpoint  string // Optional: for custom endpoints (MinIO, DO Spaces, etc.)
	publicURL string // Base URL for generating URLs
}

// S3Config holds configuration for S3 storage
type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // Optional: for S3-compatible services
}

// New creates an S3-compatible storage instance from app config
// For development: Use MinIO (see docker-compose.yml)
// For production: Use any S3-compatible cloud provider
func New(c *cfg.Config) (Storage, error) {
	slog.Info("initializing S3 storage",
		"bucket", c.S3Bucket,
		"region", c.S3Region,
		"endpoint", c.S3Endpoint,
	)
	return NewS3Storage(S3Config{
		Region:    c.S3Region,
		Bucket:    c.S3Bucket,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Endpoint:  c.S3Endpoint,
	})
}

// NewS3Storage creates a new S3 storage instance
func NewS3Storage(sc S3Config) (*S3Storage, error) {
	ctx := context.Background()

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(sc.Region))

	// Add static credentials if provided
	if sc.AccessKey != "" && sc.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(sc.AccessKey, sc.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Create S3 client with optional custom endpoint
	var client *s3.Client
	if sc.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(sc.Endpoint)
			o.UsePathStyle = true // Required for MinIO and some S3-compatible services
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	publicURL := sc.Endpoint
	if publicURL == "" {
		// Standard AWS S3 URL
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", sc.Bucket, sc.Region)
	} else {
		// Custom endpoint (MinIO, DO Spaces, etc.)
		publicURL = strings.TrimSuffix(sc.Endpoint, "/") + "/" + sc.Bucket
	}

	storage := &S3Storage{
		client:    client,
		bucket:    sc.Bucket,
		region:    sc.Region,
		endpoint:  sc.Endpoint,
		publicURL: publicURL,
	}

	// Auto-create bucket if it doesn't exist
	if err := storage.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return storage, nil
}

// ensureBucket checks if bucket exists, creates it if not
func (s *S3Storage) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil // Bucket exists
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}

// Save stores an object in S3. If-None-Match makes the put conditional so a
// key collision fails instead of silently replacing the existing object.
func (s *S3Storage) Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		if strings.Contains(err.Error(), "PreconditionFailed") {
			return ErrObjectExists
		}
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

// Delete removes an object from S3
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

// PublicURL returns the public URL for accessing the object
func (s *S3Storage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}
