package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/glowstudio/backend/internal/infrastructure/config"
)

// CloudinaryProvider stores images in Cloudinary. Keys map to public IDs
// without their file extension since Cloudinary tracks the format itself.
type CloudinaryProvider struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	folder    string
}

// NewCloudinaryProvider creates a CloudinaryProvider from configuration
func NewCloudinaryProvider(cfg config.CloudinaryStorageConfig) (*CloudinaryProvider, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary cloud name, api key and api secret are required")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &CloudinaryProvider{
		cld:       cld,
		cloudName: cfg.CloudName,
		folder:    strings.Trim(cfg.Folder, "/"),
	}, nil
}

// Name returns the provider name
func (p *CloudinaryProvider) Name() string { return config.StorageCloudinary }

// Upload sends r to Cloudinary under the public ID derived from key
func (p *CloudinaryProvider) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error) {
	key, err := cleanKey(key)
	if err != nil {
		return Object{}, err
	}
	res, err := p.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: p.publicID(key),
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return Object{}, fmt.Errorf("cloudinary upload rejected: %s", res.Error.Message)
	}
	obj := Object{
		Key:         key,
		URL:         res.SecureURL,
		Size:        size,
		ContentType: contentType,
		Provider:    p.Name(),
	}
	if obj.URL == "" {
		obj.URL = p.URL(key)
	}
	if res.Bytes > 0 {
		obj.Size = int64(res.Bytes)
	}
	return obj, nil
}

// Delete destroys the asset behind key
func (p *CloudinaryProvider) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	res, err := p.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: p.publicID(key)})
	if err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary delete rejected: %s", res.Error.Message)
	}
	return nil
}

// URL returns the delivery URL of key
func (p *CloudinaryProvider) URL(key string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s%s", p.cloudName, p.publicID(key), path.Ext(key))
}

func (p *CloudinaryProvider) publicID(key string) string {
	id := strings.TrimSuffix(key, path.Ext(key))
	if p.folder == "" {
		return id
	}
	return p.folder + "/" + id
}

var _ Provider = (*CloudinaryProvider)(nil)
