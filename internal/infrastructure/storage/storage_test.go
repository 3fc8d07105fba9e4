package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/glowstudio/backend/internal/infrastructure/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "gallery/a.jpg", want: "gallery/a.jpg"},
		{key: "gallery//b/../a.jpg", want: "gallery/a.jpg"},
		{key: "", wantErr: true},
		{key: "/etc/passwd", wantErr: true},
		{key: "../secret", wantErr: true},
		{key: "gallery\\a.jpg", wantErr: true},
		{key: "a/../..", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := cleanKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newMemLocal(t *testing.T, baseURL string) (*LocalProvider, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	p, err := NewLocalProvider(fs, config.LocalStorageConfig{
		BaseDir:    "/srv/uploads",
		PublicPath: "/uploads",
		BaseURL:    baseURL,
	})
	require.NoError(t, err)
	return p, fs
}

func TestLocalProvider_UploadAndDelete(t *testing.T) {
	p, fs := newMemLocal(t, "")
	ctx := context.Background()

	obj, err := p.Upload(ctx, "gallery/2026/look.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "gallery/2026/look.png", obj.Key)
	assert.Equal(t, "/uploads/gallery/2026/look.png", obj.URL)
	assert.Equal(t, int64(9), obj.Size)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, config.StorageLocal, obj.Provider)

	data, err := afero.ReadFile(fs, "/srv/uploads/gallery/2026/look.png")
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, p.Delete(ctx, obj.Key))
	exists, err := afero.Exists(fs, "/srv/uploads/gallery/2026/look.png")
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting twice is fine
	require.NoError(t, p.Delete(ctx, obj.Key))
}

func TestLocalProvider_URLWithBaseURL(t *testing.T) {
	p, _ := newMemLocal(t, "https://glow.test")
	assert.Equal(t, "https://glow.test/uploads/a.jpg", p.URL("a.jpg"))
}

func TestLocalProvider_RejectsTraversal(t *testing.T) {
	p, _ := newMemLocal(t, "")
	_, err := p.Upload(context.Background(), "../../etc/cron", strings.NewReader("x"), 1, "text/plain")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocalProvider_CanceledContext(t *testing.T) {
	p, _ := newMemLocal(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Upload(ctx, "a.jpg", strings.NewReader("x"), 1, "image/jpeg")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCloudinaryProvider(t *testing.T) {
	_, err := NewCloudinaryProvider(config.CloudinaryStorageConfig{CloudName: "demo"})
	require.Error(t, err)

	p, err := NewCloudinaryProvider(config.CloudinaryStorageConfig{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		Folder:    "/glow-studio/",
	})
	require.NoError(t, err)
	assert.Equal(t, "glow-studio/gallery/look", p.publicID("gallery/look.jpg"))
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/glow-studio/gallery/look.jpg", p.URL("gallery/look.jpg"))
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Provider: "ftp"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage provider")
}
