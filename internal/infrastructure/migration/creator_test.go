package migration

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add gallery tags", "add_gallery_tags"},
		{"Add-Class-Levels", "add_class_levels"},
		{"ADD__COUPON__LIMITS", "add_coupon_limits"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreate_NumbersSequentially(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "migrations/000001_init_schema.up.sql", []byte("--"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "migrations/000001_init_schema.down.sql", []byte("--"), 0o644))

	f, err := Create(fs, "migrations", "Add gallery tags")
	require.NoError(t, err)
	assert.Equal(t, uint(2), f.Version)
	assert.Equal(t, "migrations/000002_add_gallery_tags.up.sql", f.UpPath)
	assert.Equal(t, "migrations/000002_add_gallery_tags.down.sql", f.DownPath)

	body, err := afero.ReadFile(fs, f.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- add_gallery_tags (down)")

	f, err = Create(fs, "migrations", "second")
	require.NoError(t, err)
	assert.Equal(t, uint(3), f.Version)
}

func TestCreate_EmptyDirectoryStartsAtOne(t *testing.T) {
	fs := afero.NewMemMapFs()
	f, err := Create(fs, "db/migrations", "init")
	require.NoError(t, err)
	assert.Equal(t, uint(1), f.Version)

	exists, err := afero.Exists(fs, "db/migrations/000001_init.up.sql")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreate_RejectsBlankName(t *testing.T) {
	_, err := Create(afero.NewMemMapFs(), "migrations", "!!!")
	require.Error(t, err)
}

func TestList(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{
		"000010_later.up.sql",
		"000002_second.up.sql",
		"000002_second.down.sql",
		"README.md",
		"nonumber.up.sql",
	} {
		require.NoError(t, afero.WriteFile(fs, "m/"+name, nil, 0o644))
	}
	require.NoError(t, fs.MkdirAll("m/000003_dir.up.sql", 0o755))

	files, err := List(fs, "m")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, uint(2), files[0].Version)
	assert.Equal(t, "second", files[0].Name)
	assert.Equal(t, uint(10), files[1].Version)
}

func TestList_MissingDirectory(t *testing.T) {
	files, err := List(afero.NewMemMapFs(), "nope")
	require.NoError(t, err)
	assert.Empty(t, files)
}
