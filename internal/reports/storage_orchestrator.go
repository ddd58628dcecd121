package reports

import (
	"context"
	"fmt"
	"path"
	"sort"

	"investcharts/internal/logger"
	"investcharts/internal/storage"
)

// StorageOrchestrator handles the business logic of storing generated files
type StorageOrchestrator struct {
	storage storage.StorageClient
	log     *logger.Logger
}

// NewStorageOrchestrator creates a new storage orchestrator
func NewStorageOrchestrator(client storage.StorageClient) *StorageOrchestrator {
	return &StorageOrchestrator{
		storage: client,
		log:     logger.Component("storage"),
	}
}

// maxFolderAttempts bounds the suffixes tried for a taken dashboard folder.
const maxFolderAttempts = 100

// StoreAllFiles writes the page as index.html, the chart images and the
// JSON files into the dashboard folder and returns the stored paths. When
// the folder already holds a dashboard, a numeric suffix is appended and
// files.FolderPath is updated to the folder actually used.
func (so *StorageOrchestrator) StoreAllFiles(ctx context.Context, files *GeneratedFiles) ([]string, error) {
	folder, err := so.freeFolder(ctx, files.FolderPath)
	if err != nil {
		return nil, err
	}
	if folder != files.FolderPath {
		so.log.Warn("Dashboard folder already taken", map[string]interface{}{
			"folder": files.FolderPath,
			"using":  folder,
		})
		files.FolderPath = folder
	}

	var stored []string
	store := func(name string, data []byte) error {
		p := path.Join(files.FolderPath, name)
		if err := so.storage.StoreFile(ctx, p, data); err != nil {
			return fmt.Errorf("failed to store %s: %w", name, err)
		}
		stored = append(stored, p)
		return nil
	}

	if err := store("index.html", []byte(files.HTMLContent)); err != nil {
		return stored, err
	}
	for _, name := range sortedKeys(files.ChartFiles) {
		if err := store(name, files.ChartFiles[name]); err != nil {
			return stored, err
		}
	}
	for _, name := range sortedKeys(files.JSONFiles) {
		if err := store(name, files.JSONFiles[name]); err != nil {
			return stored, err
		}
	}

	so.log.Info("Dashboard stored", map[string]interface{}{
		"folder": files.FolderPath,
		"files":  len(stored),
	})
	return stored, nil
}

// freeFolder returns base, or base-2, base-3 and so on, whichever is the
// first without an index.html.
func (so *StorageOrchestrator) freeFolder(ctx context.Context, base string) (string, error) {
	folder := base
	for i := 2; i <= maxFolderAttempts+1; i++ {
		taken, err := so.storage.FileExists(ctx, path.Join(folder, "index.html"))
		if err != nil {
			return "", fmt.Errorf("failed to check dashboard folder %s: %w", folder, err)
		}
		if !taken {
			return folder, nil
		}
		folder = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("no free dashboard folder for %s after %d attempts", base, maxFolderAttempts)
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
