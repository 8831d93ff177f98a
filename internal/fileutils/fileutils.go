// Package fileutils provides common file operations used throughout the application.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// WriteFile writes data to a file, creating any parent directories if needed
func WriteFile(filePath string, data []byte, perm os.FileMode) error {
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, perm); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// TimestampedName prefixes a filename with a sortable timestamp so repeated
// uploads of the same file never collide.
func TimestampedName(filename string, at time.Time) string {
	return fmt.Sprintf("%s_%s", at.Format("20060102_150405"), filepath.Base(filename))
}

// ListFilesWithExtensions returns the files directly under dirPath whose
// extension matches one of the given ones (case insensitive), sorted by name.
func ListFilesWithExtensions(dirPath string, extensions ...string) ([]string, error) {
	if !DirectoryExists(dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range extensions {
			if ext == strings.ToLower(want) {
				files = append(files, filepath.Join(dirPath, entry.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
