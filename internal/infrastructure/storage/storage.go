// Package storage stores uploaded files behind a provider chosen by configuration.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/glowstudio/backend/internal/infrastructure/config"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrInvalidKey is returned for empty keys and keys that escape the storage root
var ErrInvalidKey = errors.New("invalid storage key")

// Object describes a stored file
type Object struct {
	Key         string
	URL         string
	Size        int64
	ContentType string
	Provider    string
}

// Provider is an object store for uploaded media
type Provider interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
	Name() string
}

// New builds the provider selected by cfg.Provider
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Provider {
	case config.StorageLocal:
		return NewLocalProvider(afero.NewOsFs(), cfg.Local)
	case config.StorageS3:
		p, err := NewS3Provider(cfg.S3, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if cfg.S3.CreateBucket {
			if err := p.EnsureBucket(ctx); err != nil {
				return nil, err
			}
		}
		return p, nil
	case config.StorageCloudinary:
		return NewCloudinaryProvider(cfg.Cloudinary)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// cleanKey normalizes a slash-separated key and rejects traversal
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
