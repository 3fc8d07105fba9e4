package gallery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/glowstudio/backend/internal/domain/gallery"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/storage"
	"github.com/glowstudio/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sniffLen is how much of an upload is inspected to detect its type
const sniffLen = 3072

var (
	errUnsupportedMedia = shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Only JPEG, PNG, WebP and GIF images are allowed")
	errEmptyFile        = shared.NewDomainError("INVALID_FILE", "Uploaded file is empty")
)

// GalleryService manages the portfolio images
type GalleryService struct {
	repo     gallery.Repository
	store    storage.Provider
	maxBytes int64
	metrics  *telemetry.BusinessMetrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewGalleryService creates a new GalleryService. maxBytes caps upload size.
func NewGalleryService(repo gallery.Repository, store storage.Provider, maxBytes int64, logger *zap.Logger) *GalleryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryService{
		repo:     repo,
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
	}
}

// SetBusinessMetrics enables upload counters
func (s *GalleryService) SetBusinessMetrics(m *telemetry.BusinessMetrics) {
	s.metrics = m
}

// MaxUploadSize returns the configured upload limit in bytes
func (s *GalleryService) MaxUploadSize() int64 {
	return s.maxBytes
}

// Upload stores an image and records it. The content type is detected from
// the bytes, never taken from the client.
func (s *GalleryService) Upload(ctx context.Context, file io.Reader, size int64, req ImageRequest) (*ImageResponse, error) {
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, fileTooLarge(s.maxBytes)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if n == 0 {
		return nil, errEmptyFile
	}
	head = head[:n]
	contentType, ext, ok := detect(head)
	if !ok {
		return nil, errUnsupportedMedia
	}

	body := io.MultiReader(bytes.NewReader(head), file)
	if s.maxBytes > 0 {
		body = &limitedReader{r: body, left: s.maxBytes}
	}

	now := s.now().UTC()
	key := fmt.Sprintf("gallery/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), ext)
	obj, err := s.store.Upload(ctx, key, body, size, contentType)
	if err != nil {
		if errors.Is(err, errTooLarge) {
			return nil, fileTooLarge(s.maxBytes)
		}
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	img, err := gallery.NewImage(gallery.StoredObject{
		Key:         obj.Key,
		URL:         obj.URL,
		Provider:    obj.Provider,
		ContentType: contentType,
		Size:        obj.Size,
	}, req.metadata())
	if err == nil {
		err = s.repo.Save(ctx, img)
	}
	if err != nil {
		s.removeObject(ctx, obj.Key)
		return nil, err
	}

	s.logger.Info("Gallery image uploaded",
		zap.String("image_id", img.ID.String()),
		zap.String("key", obj.Key),
		zap.String("provider", obj.Provider),
		zap.Int64("size", obj.Size),
	)
	if s.metrics != nil {
		s.metrics.RecordGalleryUpload(ctx, obj.Provider)
	}
	r := ToImageResponse(img, true)
	return &r, nil
}

// detect maps sniffed bytes onto an allowed content type and its extension
func detect(head []byte) (contentType, ext string, ok bool) {
	m := mimetype.Detect(head)
	for ct, e := range gallery.AllowedContentTypes {
		if m.Is(ct) {
			return ct, e, true
		}
	}
	return "", "", false
}

// Update replaces an image's metadata
func (s *GalleryService) Update(ctx context.Context, id uuid.UUID, req ImageRequest) (*ImageResponse, error) {
	img, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := img.UpdateMetadata(req.metadata()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, img); err != nil {
		return nil, err
	}
	r := ToImageResponse(img, true)
	return &r, nil
}

// Delete removes the row and the stored object. A failed object delete is
// logged and does not keep the row.
func (s *GalleryService) Delete(ctx context.Context, id uuid.UUID) error {
	img, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeObject(ctx, img.StorageKey)
	s.logger.Info("Gallery image deleted", zap.String("image_id", id.String()))
	return nil
}

func (s *GalleryService) removeObject(ctx context.Context, key string) {
	if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn("Failed to delete stored object",
			zap.String("key", key),
			zap.String("provider", s.store.Name()),
			zap.Error(err),
		)
	}
}

// Get returns an image. Unpublished images are hidden from the public.
func (s *GalleryService) Get(ctx context.Context, id uuid.UUID, public bool) (*ImageResponse, error) {
	img, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if public && !img.Published {
		return nil, shared.ErrNotFound
	}
	r := ToImageResponse(img, !public)
	return &r, nil
}

// List lists images. The public listing only shows published ones.
func (s *GalleryService) List(ctx context.Context, filter ImageListFilter, public bool) (shared.Paginated[ImageResponse], error) {
	query := gallery.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   strings.TrimSpace(filter.Search),
		},
		Category:      gallery.NormalizeCategory(filter.Category),
		Featured:      filter.Featured,
		PublishedOnly: public,
	}
	query.Normalize()
	images, total, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return shared.Paginated[ImageResponse]{}, err
	}
	items := make([]ImageResponse, 0, len(images))
	for i := range images {
		items = append(items, ToImageResponse(&images[i], !public))
	}
	return shared.NewPaginated(items, total, query.Page, query.PageSize), nil
}

// Categories lists the distinct image categories
func (s *GalleryService) Categories(ctx context.Context, public bool) ([]string, error) {
	return s.repo.Categories(ctx, public)
}

var errTooLarge = errors.New("upload exceeds size limit")

func fileTooLarge(limit int64) error {
	return shared.NewDomainError("FILE_TOO_LARGE", fmt.Sprintf("File exceeds the %d MB upload limit", limit>>20))
}

// limitedReader fails once more than left bytes are read, so a client that
// under-reports its size cannot exceed the limit
type limitedReader struct {
	r    io.Reader
	left int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.left < 0 {
		return 0, errTooLarge
	}
	if int64(len(p)) > l.left+1 {
		p = p[:l.left+1]
	}
	n, err := l.r.Read(p)
	l.left -= int64(n)
	if l.left < 0 {
		return n, errTooLarge
	}
	return n, err
}
