// pkg/utils/paths.go
package utils

import (
	"os"
	"path/filepath"
)

// PathManager owns the on-disk layout of the registry data directory
type PathManager struct {
	baseStoragePath string
	log             *Logger
}

func NewPathManager(basePath string, log *Logger) *PathManager {
	// Créer les dossiers nécessaires
	dirs := []string{
		"db",      // SQLite catalog database
		"exports", // Trending snapshot exports
		"temp",    // Scratch space for backup staging
	}

	for _, dir := range dirs {
		path := filepath.Join(basePath, dir)
		if err := os.MkdirAll(path, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", path, err)
		}
	}

	return &PathManager{
		baseStoragePath: basePath,
		log:             log,
	}
}

// GetBasePath returns the root of the data directory
func (pm *PathManager) GetBasePath() string {
	return pm.baseStoragePath
}

// GetDatabasePath returns the path of the catalog SQLite database file
func (pm *PathManager) GetDatabasePath() string {
	return filepath.Join(pm.baseStoragePath, "db", "registry.db")
}

// GetExportsPath returns the directory used for trending snapshot exports
func (pm *PathManager) GetExportsPath() string {
	return filepath.Join(pm.baseStoragePath, "exports")
}

// GetTempPath returns the scratch directory
func (pm *PathManager) GetTempPath() string {
	return filepath.Join(pm.baseStoragePath, "temp")
}
