package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dalfonso89/node-currency-converter/internal/logger"
	"github.com/dalfonso89/node-currency-converter/internal/models"
)

// JSONFileRepository stores the edge list as a JSON array in a single file.
type JSONFileRepository struct {
	path   string
	mutex  sync.RWMutex
	logger *logrus.Entry
}

func NewJSONFileRepository(path string, log *logger.Logger) *JSONFileRepository {
	return &JSONFileRepository{
		path:   path,
		logger: log.Component("json_repository").WithField("path", path),
	}
}

func (repository *JSONFileRepository) Path() string {
	return repository.path
}

// LoadAll reads the whole file. A missing file is NotFound; an empty file is
// an empty list.
func (repository *JSONFileRepository) LoadAll(ctx context.Context) ([]models.ExchangeEdge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repository.mutex.RLock()
	data, err := os.ReadFile(repository.path)
	repository.mutex.RUnlock()

	if errors.Is(err, fs.ErrNotExist) {
		return nil, models.NewServiceError(models.ErrorTypeNotFound,
			fmt.Sprintf("exchanges file %s not found", repository.path), err)
	}
	if err != nil {
		return nil, fmt.Errorf("read exchanges file: %w", err)
	}

	edges, err := decodeEdges(data)
	if err != nil {
		return nil, err
	}
	repository.logger.WithField("count", len(edges)).Debug("Loaded exchanges")
	return edges, nil
}

// ReplaceAll writes edges to a temporary file next to the target and renames
// it into place, so readers see either the old or the new list.
func (repository *JSONFileRepository) ReplaceAll(ctx context.Context, edges []models.ExchangeEdge) error {
	data, err := encodeEdges(edges)
	if err != nil {
		return err
	}

	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(repository.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create exchanges directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(repository.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, repository.path); err != nil {
		return fmt.Errorf("replace exchanges file: %w", err)
	}

	repository.logger.WithField("count", len(edges)).Info("Replaced exchanges")
	return nil
}
