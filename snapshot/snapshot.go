// Package snapshot persists fetched repository record sets as a single
// JSON document, so a scoring run can be replayed without touching the
// network.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Agrumas/gh-ranker/logger"
	"github.com/Agrumas/gh-ranker/models"
)

// Export writes the record set to the named file, appending a .json
// suffix when the name lacks one.
func Export(name string, repos []models.Repository) error {
	path := withJSONSuffix(name)

	data, err := json.Marshal(repos)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}

	logger.Info("Snapshot exported",
		zap.String("path", path),
		zap.Int("repositories", len(repos)))
	return nil
}

// Import reads a previously exported record set.
func Import(name string) ([]models.Repository, error) {
	path := withJSONSuffix(name)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var repos []models.Repository
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}

	logger.Info("Snapshot imported",
		zap.String("path", path),
		zap.Int("repositories", len(repos)))
	return repos, nil
}

func withJSONSuffix(name string) string {
	if strings.HasSuffix(name, ".json") {
		return name
	}
	return name + ".json"
}
