package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/files"
)

// FileValidator checks attendance files before they are read and export
// destinations before they are written.
type FileValidator struct {
	logger   *slog.Logger
	maxBytes int64
}

// NewFileValidator creates a new file validator. maxBytes <= 0 disables
// the size limit.
func NewFileValidator(logger *slog.Logger, maxBytes int64) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// ValidateUpload checks the name and size of an attendance file that is
// already in memory (an HTTP upload or a file read by the CLI).
func (v *FileValidator) ValidateUpload(name string, size int64) error {
	base := filepath.Base(name)
	if base == "" || base == "." || strings.HasPrefix(base, "~$") {
		v.logger.Warn("Rejected attendance file name",
			slog.String("file", name))
		return apperrors.NewIOError(fmt.Sprintf("nombre de archivo inválido: %q", name), nil)
	}

	if !files.IsAttendanceFile(base) {
		ext := strings.ToLower(filepath.Ext(base))
		v.logger.Warn("Attendance file has unsupported extension",
			slog.String("file", name),
			slog.String("extension", ext))
		return apperrors.NewIOError(
			fmt.Sprintf("formato no soportado %q: use .csv, .xlsx o .xls", ext), nil)
	}

	if v.maxBytes > 0 && size > v.maxBytes {
		v.logger.Warn("Attendance file too large",
			slog.String("file", name),
			slog.Int64("size", size),
			slog.Int64("max", v.maxBytes))
		return apperrors.NewIOError(
			fmt.Sprintf("el archivo supera el tamaño máximo de %d bytes", v.maxBytes), nil)
	}
	return nil
}

// ValidateFile checks if a specific file exists and is a regular file
func (v *FileValidator) ValidateFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return nil, apperrors.NewIOError(fmt.Sprintf("file %s does not exist", path), err)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return nil, apperrors.NewIOError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return nil, apperrors.NewIOError(fmt.Sprintf("%s is a directory, not a file", path), nil)
	}

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return info, nil
}

// ValidateAttendanceFile validates a spreadsheet on disk before import.
func (v *FileValidator) ValidateAttendanceFile(path string) error {
	info, err := v.ValidateFile(path)
	if err != nil {
		return err
	}
	return v.ValidateUpload(path, info.Size())
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
