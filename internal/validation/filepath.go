// Package validation checks the paths fsearch writes to: report files,
// the run history database and the configuration file. Search targets come
// from the glob pattern and are never validated here.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

var (
	ErrEmptyPath       = errors.New("path cannot be empty")
	ErrPathTooLong     = errors.New("path too long")
	ErrUnsafePath      = errors.New("unsafe path")
	ErrOutsideBaseDirs = errors.New("path not within allowed directories")
	ErrNotAFile        = errors.New("path is a directory, not a file")
)

// FilePathValidator normalizes a path and rejects the unsafe ones.
type FilePathValidator struct {
	// AllowedBaseDirs restricts paths to these directories. Empty allows any.
	AllowedBaseDirs []string
	// AllowHomeExpansion expands a leading "~/".
	AllowHomeExpansion bool
	// AllowRelativePaths keeps relative paths relative and permits "."
	// components.
	AllowRelativePaths bool
	MaxPathLength      int
}

// NewFilePathValidator restricts paths to the fsearch state and config
// directories and the temp directory.
func NewFilePathValidator() *FilePathValidator {
	return &FilePathValidator{
		AllowedBaseDirs: []string{
			filepath.Join(xdg.StateHome, "fsearch"),
			filepath.Join(xdg.ConfigHome, "fsearch"),
			os.TempDir(),
		},
		AllowHomeExpansion: true,
		MaxPathLength:      4096,
	}
}

// NewPermissiveFilePathValidator accepts any directory and relative paths.
// Traversal is still rejected.
func NewPermissiveFilePathValidator() *FilePathValidator {
	return &FilePathValidator{
		AllowHomeExpansion: true,
		AllowRelativePaths: true,
		MaxPathLength:      4096,
	}
}

// ValidateAndSanitize returns the cleaned form of path.
func (v *FilePathValidator) ValidateAndSanitize(path string) (string, error) {
	if v.AllowRelativePaths {
		path = strings.TrimPrefix(path, "./")
	}
	if path == "" {
		return "", ErrEmptyPath
	}
	if len(path) > v.MaxPathLength {
		return "", fmt.Errorf("%w (max %d characters)", ErrPathTooLong, v.MaxPathLength)
	}

	if reason := v.unsafeReason(path); reason != "" {
		return "", fmt.Errorf("%w: %s in %q", ErrUnsafePath, reason, path)
	}

	path, err := v.expandHome(path)
	if err != nil {
		return "", err
	}

	if !v.AllowRelativePaths && !filepath.IsAbs(path) {
		if path, err = filepath.Abs(path); err != nil {
			return "", fmt.Errorf("cannot make path absolute: %w", err)
		}
	}
	path = filepath.Clean(path)

	if err := v.checkBaseDirs(path); err != nil {
		return "", err
	}
	return path, nil
}

// unsafeReason names the first problem found in path, or returns "".
func (v *FilePathValidator) unsafeReason(path string) string {
	for _, r := range path {
		if r == 0 {
			return "null byte"
		}
		if r < 32 && r != '\t' {
			return "control character"
		}
	}

	if strings.HasPrefix(path, "//") || strings.HasPrefix(path, `\\`) {
		return "UNC path"
	}
	if strings.Contains(path, "//") {
		return "empty path component"
	}

	parts := strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' })
	for _, part := range parts {
		switch {
		case part == "..":
			return "directory traversal"
		case part == "." && !v.AllowRelativePaths:
			return "relative component"
		}
	}
	return ""
}

func (v *FilePathValidator) expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	if !v.AllowHomeExpansion || !strings.HasPrefix(path, "~/") {
		return "", fmt.Errorf("%w: unsupported tilde form in %q", ErrUnsafePath, path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

func (v *FilePathValidator) checkBaseDirs(path string) error {
	if len(v.AllowedBaseDirs) == 0 {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve absolute path: %w", err)
	}

	for _, base := range v.AllowedBaseDirs {
		absBase, err := filepath.Abs(base)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absBase, abs)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrOutsideBaseDirs, v.AllowedBaseDirs)
}

// ValidateFile validates path and rejects existing directories.
func (v *FilePathValidator) ValidateFile(path string) (string, error) {
	validated, err := v.ValidateAndSanitize(path)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(validated); err == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotAFile, validated)
	}
	return validated, nil
}
