package storage

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// GenerateDashboardFolderPath generates a consistent folder path for dashboards
// Format: YYYY/MM/DD/Dashboard-YYYY-MM-DD-HH-MM-SS
func GenerateDashboardFolderPath(timestamp time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d/Dashboard-%04d-%02d-%02d-%02d-%02d-%02d",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
}

// CleanPath normalises a storage path and rejects paths escaping the
// storage root.
func CleanPath(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return "", fmt.Errorf("invalid path %q", p)
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	if cleaned == "" {
		return "", fmt.Errorf("empty path")
	}
	return cleaned, nil
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".md":
		return "text/markdown"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".toml":
		return "application/toml"
	default:
		return "application/octet-stream"
	}
}
