package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apierrors "fundx/internal/errors"
	"fundx/internal/ingest"
	"fundx/pkg/contracts/domain"
)

var (
	// ErrTooLarge is returned for documents above the configured size limit.
	ErrTooLarge = errors.New("document exceeds size limit")
	// ErrSignatureMismatch is returned when content does not match the extension.
	ErrSignatureMismatch = errors.New("document content does not match its extension")
	// ErrTemporaryFile is returned for office lock files such as ~$report.xlsx.
	ErrTemporaryFile = errors.New("temporary office file")
)

// FileValidator vets input paths, output directories and document bytes
// before they reach the pipeline. Every rejection is logged.
type FileValidator struct {
	maxSize int64
	logger  *slog.Logger
}

// NewFileValidator creates a validator. A maxSize of zero or less disables
// the size check.
func NewFileValidator(maxSize int64, logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{maxSize: maxSize, logger: logger}
}

// ValidateInputDirectory requires dir to exist and be a directory
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	_, err := v.stat(dir, "input directory", func(info fs.FileInfo) error {
		if !info.IsDir() {
			return apierrors.NewAppValidationError(dir + " is not a directory")
		}
		return nil
	})
	return err
}

// ValidateOutputDirectory creates dir when missing and proves it writable
// with a temporary file.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	storageErr := func(msg string, err error) error {
		v.logger.Error("Output directory unusable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apierrors.NewStorageError(msg, err).WithContext("directory", dir)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return storageErr("failed to create output directory", err)
	}
	tmp, err := os.CreateTemp(dir, ".fundx-write-*")
	if err != nil {
		return storageErr("output directory is not writable", err)
	}
	name := tmp.Name()
	tmp.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateFile checks that path is a readable regular file within the size
// limit and is not an office lock file.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := v.stat(path, "file", func(info fs.FileInfo) error {
		if !info.Mode().IsRegular() {
			return apierrors.NewAppValidationError(path + " is not a regular file")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Skipping temporary office file", slog.String("file", path))
		return fmt.Errorf("%s: %w", path, ErrTemporaryFile)
	}
	if err := v.checkSize(path, info.Size()); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	f.Close()
	return nil
}

// ValidateDocument checks an in-memory document: size limit and a content
// signature matching its extension. Unknown kinds pass; they are skipped
// later rather than rejected.
func (v *FileValidator) ValidateDocument(name string, data []byte) error {
	if err := v.checkSize(name, int64(len(data))); err != nil {
		return err
	}

	kind := domain.KindFromName(name)
	if !ingest.Sniff(kind, data) {
		v.logger.Error("Document signature mismatch",
			slog.String("file", name),
			slog.String("kind", string(kind)))
		return fmt.Errorf("%s: %w", name, ErrSignatureMismatch)
	}
	return nil
}

// stat resolves path and applies check. A missing path is a NOT_FOUND
// AppError named after what.
func (v *FileValidator) stat(path, what string, check func(fs.FileInfo) error) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		err = apierrors.NewNotFoundError(what + " " + path)
	case err != nil:
		err = fmt.Errorf("failed to stat %s %s: %w", what, path, err)
	default:
		err = check(info)
	}
	if err != nil {
		v.logger.Error("Path rejected",
			slog.String("path", path),
			slog.String("kind", what),
			slog.String("error", err.Error()))
		return nil, err
	}
	return info, nil
}

func (v *FileValidator) checkSize(name string, size int64) error {
	if v.maxSize > 0 && size > v.maxSize {
		v.logger.Error("File exceeds size limit",
			slog.String("file", name),
			slog.Int64("size", size),
			slog.Int64("max_size", v.maxSize))
		return fmt.Errorf("%s (%d bytes, limit %d): %w", name, size, v.maxSize, ErrTooLarge)
	}
	return nil
}
