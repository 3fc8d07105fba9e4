package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImage(t *testing.T) {
	obj := StoredObject{Key: "gallery/2026/01/a.jpg", URL: "/uploads/gallery/2026/01/a.jpg", Provider: "local", ContentType: "image/jpeg", Size: 1024}

	img, err := NewImage(obj, Metadata{Title: " Soft Glam ", Category: " Bridal ", Published: true})
	require.NoError(t, err)
	assert.Equal(t, "Soft Glam", img.Title)
	assert.Equal(t, "bridal", img.Category)
	assert.Equal(t, "local", img.Provider)
	assert.True(t, img.Published)

	obj.ContentType = "application/pdf"
	_, err = NewImage(obj, Metadata{})
	assert.Error(t, err)

	_, err = NewImage(StoredObject{ContentType: "image/png"}, Metadata{})
	assert.Error(t, err)
}

func TestImage_UpdateMetadata(t *testing.T) {
	img, err := NewImage(StoredObject{Key: "k", URL: "u", ContentType: "image/png"}, Metadata{})
	require.NoError(t, err)

	require.NoError(t, img.UpdateMetadata(Metadata{Title: "Editorial", Featured: true, SortOrder: 3}))
	assert.Equal(t, 2, img.Version)
	assert.True(t, img.Featured)
}
