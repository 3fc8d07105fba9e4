package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/glowstudio/backend/internal/infrastructure/config"
	"github.com/spf13/afero"
)

// LocalProvider writes files under a base directory. The HTTP server exposes
// that directory at PublicPath.
type LocalProvider struct {
	fs         afero.Fs
	publicPath string
	baseURL    string
}

// NewLocalProvider roots fs at cfg.BaseDir, creating the directory when missing
func NewLocalProvider(fs afero.Fs, cfg config.LocalStorageConfig) (*LocalProvider, error) {
	if cfg.BaseDir == "" {
		return nil, fmt.Errorf("local storage base directory is required")
	}
	if err := fs.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	publicPath := cfg.PublicPath
	if publicPath == "" {
		publicPath = "/uploads"
	}
	return &LocalProvider{
		fs:         afero.NewBasePathFs(fs, cfg.BaseDir),
		publicPath: publicPath,
		baseURL:    cfg.BaseURL,
	}, nil
}

// Name returns the provider name
func (p *LocalProvider) Name() string { return config.StorageLocal }

// Upload writes r to key. A partially written file is removed on error.
func (p *LocalProvider) Upload(ctx context.Context, key string, r io.Reader, _ int64, contentType string) (Object, error) {
	key, err := cleanKey(key)
	if err != nil {
		return Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	if err := p.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return Object{}, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	f, err := p.fs.OpenFile(key, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Object{}, fmt.Errorf("failed to create %s: %w", key, err)
	}
	written, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = p.fs.Remove(key)
		if copyErr != nil {
			return Object{}, fmt.Errorf("failed to write %s: %w", key, copyErr)
		}
		return Object{}, fmt.Errorf("failed to close %s: %w", key, closeErr)
	}
	return Object{
		Key:         key,
		URL:         p.URL(key),
		Size:        written,
		ContentType: contentType,
		Provider:    p.Name(),
	}, nil
}

// Delete removes key. A missing file is not an error.
func (p *LocalProvider) Delete(_ context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := p.fs.Remove(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// URL returns the public URL of key
func (p *LocalProvider) URL(key string) string {
	return p.baseURL + joinURL(p.publicPath, key)
}

var _ Provider = (*LocalProvider)(nil)
