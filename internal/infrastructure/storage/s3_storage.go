package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/glowstudio/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// S3Provider stores media in an S3-compatible bucket (AWS S3, MinIO, R2)
type S3Provider struct {
	client    *s3.Client
	bucket    string
	publicURL string
	logger    *zap.Logger
}

// S3Option configures an S3Provider
type S3Option func(*S3Provider)

// WithLogger sets the logger used by the provider
func WithLogger(logger *zap.Logger) S3Option {
	return func(p *S3Provider) {
		p.logger = logger
	}
}

// NewS3Provider creates an S3Provider from configuration
func NewS3Provider(cfg config.S3StorageConfig, opts ...S3Option) (*S3Provider, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKeyID == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretAccessKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	p := &S3Provider{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicBaseURL(cfg, endpoint, region),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func publicBaseURL(cfg config.S3StorageConfig, endpoint, region string) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case endpoint != "":
		return endpoint + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}
}

// Name returns the provider name
func (p *S3Provider) Name() string { return config.StorageS3 }

// Bucket returns the bucket name
func (p *S3Provider) Bucket() string { return p.bucket }

// EnsureBucket creates the bucket if it doesn't exist
func (p *S3Provider) EnsureBucket(ctx context.Context) error {
	_, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(p.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	p.logger.Info("Creating storage bucket", zap.String("bucket", p.bucket))
	_, err = p.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(p.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Upload puts r into the bucket under key
func (p *S3Provider) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error) {
	key, err := cleanKey(key)
	if err != nil {
		return Object{}, err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := p.client.PutObject(ctx, input); err != nil {
		return Object{}, fmt.Errorf("failed to upload object: %w", err)
	}

	p.logger.Debug("Object uploaded",
		zap.String("bucket", p.bucket),
		zap.String("key", key),
		zap.Int64("size", size),
	)
	return Object{
		Key:         key,
		URL:         p.URL(key),
		Size:        size,
		ContentType: contentType,
		Provider:    p.Name(),
	}, nil
}

// Delete removes key from the bucket
func (p *S3Provider) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// URL returns the public URL of key
func (p *S3Provider) URL(key string) string {
	return joinURL(p.publicURL, key)
}

var _ Provider = (*S3Provider)(nil)
