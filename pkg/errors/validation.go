package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateOutputDir validates a directory that artworks will be written into.
// Absolute paths are allowed; control characters and empty values are not.
func ValidateOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return New(ErrCodeInvalidPath, "output directory cannot be empty")
	}

	const maxPathLength = 1024
	if len(dir) > maxPathLength {
		return New(ErrCodeInvalidPath, "output directory too long (max %d characters)", maxPathLength)
	}

	for _, r := range dir {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output directory contains invalid characters")
		}
	}
	return nil
}

// ValidateRelPath validates a path relative to an output directory.
// Export entries are always relative so a metadata record stays valid when
// the directory is moved.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateRelPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	return nil
}

// sizeNameRegex matches print size names such as "a4" or "4x5_16x20".
var sizeNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateSizeName validates a print size name. Size names become part of file
// names, so they are restricted to lowercase letters, digits, '_' and '-'.
func ValidateSizeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "size name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "size name too long (max 64 characters)")
	}
	if !sizeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid size name: %q", name)
	}
	return nil
}

// ValidatePaletteName validates a palette name from configuration.
func ValidatePaletteName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPalette, "palette name cannot be empty")
	}
	if !sizeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPalette, "invalid palette name: %q", name)
	}
	return nil
}

// ValidateRedisURL validates a cache backend URL.
// Only redis:// and rediss:// are accepted because the cache backend is the
// only consumer.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidConfig, "redis URL must use redis or rediss scheme")
	}
	return nil
}
