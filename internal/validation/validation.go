// Package validation checks user supplied paths before the parsers touch them.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsValidPath checks if a given path exists and is accessible.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}

	return nil
}

// IsValidInputExtension checks the file extension against the formats the
// parsers understand. Matching is case-insensitive.
func IsValidInputExtension(path string, extensions ...string) error {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range extensions {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}
	return fmt.Errorf("unsupported file extension %q for %s, expected one of %s",
		ext, filepath.Base(path), strings.Join(extensions, ", "))
}
