package migration

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/afero"
)

// versionWidth matches the zero padded prefix of files in migrations/
const versionWidth = 6

var fileTemplate = template.Must(template.New("migration").Parse(`-- {{.Name}} ({{.Direction}})
-- Created: {{.Created}}

`))

// File is a created up/down migration pair
type File struct {
	Version  uint
	Name     string
	UpPath   string
	DownPath string
}

// Create writes the next numbered migration pair into dir
func Create(fs afero.Fs, dir, name string) (*File, error) {
	clean := sanitizeName(name)
	if clean == "" {
		return nil, errors.New("migration name must contain letters or digits")
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := List(fs, dir)
	if err != nil {
		return nil, err
	}
	var next uint = 1
	if n := len(existing); n > 0 {
		next = existing[n-1].Version + 1
	}

	base := fmt.Sprintf("%0*d_%s", versionWidth, next, clean)
	f := &File{
		Version:  next,
		Name:     clean,
		UpPath:   path.Join(dir, base+".up.sql"),
		DownPath: path.Join(dir, base+".down.sql"),
	}

	created := time.Now().UTC().Format(time.RFC3339)
	if err := writeFile(fs, f.UpPath, clean, "up", created); err != nil {
		return nil, err
	}
	if err := writeFile(fs, f.DownPath, clean, "down", created); err != nil {
		_ = fs.Remove(f.UpPath)
		return nil, err
	}
	return f, nil
}

func writeFile(fs afero.Fs, p, name, direction, created string) error {
	out, err := fs.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", p, err)
	}
	defer out.Close()
	return fileTemplate.Execute(out, map[string]string{
		"Name":      name,
		"Direction": direction,
		"Created":   created,
	})
}

// sanitizeName lowercases name and joins words with single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(c)
		case c == ' ' || c == '-' || c == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// List returns the up migrations in dir ordered by version. A missing
// directory yields an empty list.
func List(fs afero.Fs, dir string) ([]File, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		base := strings.TrimSuffix(e.Name(), ".up.sql")
		prefix, name, ok := strings.Cut(base, "_")
		if !ok {
			continue
		}
		v, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			continue
		}
		files = append(files, File{
			Version:  uint(v),
			Name:     name,
			UpPath:   path.Join(dir, e.Name()),
			DownPath: path.Join(dir, base+".down.sql"),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}
