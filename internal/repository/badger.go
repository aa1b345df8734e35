package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/dalfonso89/node-currency-converter/internal/logger"
	"github.com/dalfonso89/node-currency-converter/internal/models"
)

var exchangesKey = []byte("exchanges")

// BadgerConfig selects where the Badger database lives.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM; used by tests.
	InMemory   bool
	SyncWrites bool
}

// BadgerRepository stores the whole edge list under a single key, so every
// replacement is one transaction.
type BadgerRepository struct {
	db     *badger.DB
	mutex  sync.Mutex
	logger *logrus.Entry
}

// OpenBadger opens (or creates) the database described by config.
func OpenBadger(config BadgerConfig, log *logger.Logger) (*BadgerRepository, error) {
	if !config.InMemory && config.Path == "" {
		return nil, errors.New("badger path is required for a persistent database")
	}

	var opts badger.Options
	if config.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(config.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create badger directory %s: %w", config.Path, err)
		}
		opts = badger.DefaultOptions(config.Path)
	}
	opts = opts.WithSyncWrites(config.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{entry: log.Component("badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	return &BadgerRepository{
		db:     db,
		logger: log.Component("badger_repository"),
	}, nil
}

func (repository *BadgerRepository) Close() error {
	return repository.db.Close()
}

// LoadAll returns NotFound until the first ReplaceAll.
func (repository *BadgerRepository) LoadAll(ctx context.Context) ([]models.ExchangeEdge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := repository.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(exchangesKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, models.NewServiceError(models.ErrorTypeNotFound, "no exchanges stored", err)
	}
	if err != nil {
		return nil, fmt.Errorf("read exchanges: %w", err)
	}

	return decodeEdges(data)
}

func (repository *BadgerRepository) ReplaceAll(ctx context.Context, edges []models.ExchangeEdge) error {
	data, err := encodeEdges(edges)
	if err != nil {
		return err
	}

	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := repository.db.Update(func(txn *badger.Txn) error {
		return txn.Set(exchangesKey, data)
	}); err != nil {
		return fmt.Errorf("write exchanges: %w", err)
	}

	repository.logger.WithField("count", len(edges)).Info("Replaced exchanges")
	return nil
}

// badgerLogger routes Badger's internal logging through logrus.
type badgerLogger struct {
	entry *logrus.Entry
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}
