package validation

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// PathHandler provides secure path operations with validation
type PathHandler struct {
	validator *FilePathValidator
}

// NewSecurePathHandler creates a path handler restricted to the fsearch state
// and config directories and the temp directory
func NewSecurePathHandler() *PathHandler {
	return &PathHandler{
		validator: NewFilePathValidator(),
	}
}

// NewPermissivePathHandler creates a path handler for user supplied paths
func NewPermissivePathHandler() *PathHandler {
	return &PathHandler{
		validator: NewPermissiveFilePathValidator(),
	}
}

// DefaultHistoryPath is $XDG_STATE_HOME/fsearch/history.db.
func DefaultHistoryPath() string {
	return filepath.Join(xdg.StateHome, "fsearch", "history.db")
}

// DefaultConfigPath is $XDG_CONFIG_HOME/fsearch/config.toml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "fsearch", "config.toml")
}

// ExpandAndValidatePath safely expands and validates a path
func (ph *PathHandler) ExpandAndValidatePath(path string) (string, error) {
	return ph.validator.ValidateAndSanitize(path)
}

// GetSecureHistoryPath returns a validated run history database path
func (ph *PathHandler) GetSecureHistoryPath(userPath string) (string, error) {
	if userPath == "" {
		userPath = DefaultHistoryPath()
	}
	return ph.validator.ValidateFile(userPath)
}

// GetSecureConfigPath returns a validated configuration path
func (ph *PathHandler) GetSecureConfigPath(userPath string) (string, error) {
	if userPath == "" {
		userPath = DefaultConfigPath()
	}
	return ph.validator.ValidateFile(userPath)
}

// GetOutputPath validates the target of a file or HTML report
func (ph *PathHandler) GetOutputPath(userPath string) (string, error) {
	return ph.validator.ValidateFile(userPath)
}
