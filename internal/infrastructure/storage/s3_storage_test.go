package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/glowstudio/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ============================================================================
// Unit Tests (no external dependencies)
// ============================================================================

func TestNewS3Provider_Validation(t *testing.T) {
	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3Provider(config.S3StorageConfig{AccessKeyID: "key", SecretAccessKey: "secret"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		_, err := NewS3Provider(config.S3StorageConfig{Bucket: "media", SecretAccessKey: "secret"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		_, err := NewS3Provider(config.S3StorageConfig{Bucket: "media", AccessKeyID: "key"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("valid config creates provider", func(t *testing.T) {
		p, err := NewS3Provider(config.S3StorageConfig{
			Bucket:          "media",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
		}, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "media", p.Bucket())
		assert.Equal(t, config.StorageS3, p.Name())
	})
}

func TestS3Provider_URL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.S3StorageConfig
		want string
	}{
		{
			name: "aws virtual host",
			cfg:  config.S3StorageConfig{Region: "eu-west-1"},
			want: "https://media.s3.eu-west-1.amazonaws.com/gallery/a.jpg",
		},
		{
			name: "custom endpoint without scheme",
			cfg:  config.S3StorageConfig{Endpoint: "minio.local:9000/", UsePathStyle: true},
			want: "https://minio.local:9000/media/gallery/a.jpg",
		},
		{
			name: "public base url wins",
			cfg:  config.S3StorageConfig{Endpoint: "http://minio:9000", PublicBaseURL: "https://cdn.glow.test/"},
			want: "https://cdn.glow.test/gallery/a.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Bucket = "media"
			tt.cfg.AccessKeyID = "key"
			tt.cfg.SecretAccessKey = "secret"
			p, err := NewS3Provider(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.URL("gallery/a.jpg"))
		})
	}
}

func TestS3Provider_RejectsInvalidKeys(t *testing.T) {
	p, err := NewS3Provider(config.S3StorageConfig{Bucket: "media", AccessKeyID: "key", SecretAccessKey: "secret"})
	require.NoError(t, err)

	_, err = p.Upload(context.Background(), "../escape.jpg", strings.NewReader("x"), 1, "image/jpeg")
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.ErrorIs(t, p.Delete(context.Background(), ""), ErrInvalidKey)
}

// ============================================================================
// Integration Tests (require a running S3-compatible server)
// ============================================================================

func skipIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("STORAGE_INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set STORAGE_INTEGRATION_TEST=true to run.")
	}
}

func newIntegrationProvider(t *testing.T) *S3Provider {
	t.Helper()
	endpoint := os.Getenv("STORAGE_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	p, err := NewS3Provider(config.S3StorageConfig{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		Bucket:          fmt.Sprintf("glow-test-%d", time.Now().UnixNano()),
		AccessKeyID:     os.Getenv("STORAGE_ACCESS_KEY"),
		SecretAccessKey: os.Getenv("STORAGE_SECRET_KEY"),
		UsePathStyle:    true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return p
}

func TestIntegration_S3UploadAndDelete(t *testing.T) {
	skipIntegration(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p := newIntegrationProvider(t)
	require.NoError(t, p.EnsureBucket(ctx))
	require.NoError(t, p.EnsureBucket(ctx))

	body := "fake image bytes"
	obj, err := p.Upload(ctx, "gallery/test.jpg", strings.NewReader(body), int64(len(body)), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "gallery/test.jpg", obj.Key)
	assert.Equal(t, int64(len(body)), obj.Size)

	require.NoError(t, p.Delete(ctx, obj.Key))
}
