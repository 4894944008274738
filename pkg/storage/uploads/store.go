package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/wishlane/wishlane-backend/pkg/config"
	"github.com/wishlane/wishlane-backend/pkg/errors"
	"github.com/wishlane/wishlane-backend/pkg/logger"
)

// allowedExtensions lists the workbook formats the catalog importer can read.
var allowedExtensions = map[string]struct{}{
	".xlsx": {},
	".xlsm": {},
}

var filenameSanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Store writes uploaded catalog workbooks to a local directory, keyed by
// their sanitized filename.
type Store struct {
	dir     string
	maxSize int64
}

// NewStore ensures the upload directory exists and returns a Store over it.
func NewStore(ctx context.Context, cfg config.UploadsConfig, logg *logger.Logger) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New(errors.CodeDependency, "uploads: directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "uploads: creating directory")
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "dir", cfg.Dir), "upload store initialized")
	}
	return &Store{
		dir:     cfg.Dir,
		maxSize: int64(cfg.MaxUploadMB) << 20,
	}, nil
}

// MaxSize is the largest upload the store accepts, in bytes.
func (s *Store) MaxSize() int64 {
	return s.maxSize
}

// Save streams the upload to disk under the sanitized filename and returns
// the name it was stored as. An existing file with the same name is replaced.
func (s *Store) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	name, err := SanitizeFilename(filename)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "uploads: creating file")
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", errors.Wrap(errors.CodeDependency, err, "uploads: writing file")
	}
	if written > s.maxSize {
		_ = os.Remove(path)
		return "", errors.New(errors.CodeValidation, fmt.Sprintf("uploads: file exceeds %d bytes", s.maxSize))
	}
	return name, nil
}

// Path resolves a previously stored filename to its on-disk path. It
// re-sanitizes the name so a crafted filename cannot escape the directory.
func (s *Store) Path(filename string) (string, error) {
	name, err := SanitizeFilename(filename)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.CodeNotFound, "uploads: file not found")
		}
		return "", errors.Wrap(errors.CodeDependency, err, "uploads: stat file")
	}
	return path, nil
}

// SanitizeFilename strips path components, normalizes the base name and
// rejects extensions the importer cannot read.
func SanitizeFilename(filename string) (string, error) {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", errors.New(errors.CodeValidation, "uploads: filename is required")
	}

	ext := strings.ToLower(filepath.Ext(base))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", errors.New(errors.CodeValidation, fmt.Sprintf("uploads: unsupported file extension %q", ext))
	}

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = filenameSanitizeRe.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "._-")
	if stem == "" {
		return "", errors.New(errors.CodeValidation, "uploads: filename has no usable characters")
	}
	return stem + ext, nil
}
