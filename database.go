// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package officelines

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/officelines/core"
	"github.com/poiesic/officelines/ingestion"
	"github.com/poiesic/officelines/search"
	"github.com/poiesic/officelines/storage"
	"github.com/poiesic/officelines/storage/badger"
	"github.com/poiesic/officelines/storage/sqlite"
)

// StoreKind selects the storage backend of a Database.
type StoreKind string

const (
	StoreBadger StoreKind = "badger"
	StoreSQLite StoreKind = "sqlite"
)

// sqliteFile is the database file created inside the directory of a SQLite store.
const sqliteFile = "lines.sqlite"

// ErrUnknownStore is returned for a StoreKind other than StoreBadger or StoreSQLite.
var ErrUnknownStore = errors.New("unknown store")

// LineSearcher finds lines for a free-text query. Database, Corpus and
// remote.Client implement it.
type LineSearcher interface {
	Search(ctx context.Context, query string) ([]*core.Line, error)
}

// Database is a persistent line store with a search engine over it.
type Database struct {
	backend        *badger.Backend
	closer         func() error
	lineRepo       storage.LineRepository
	checkpointRepo storage.CheckpointRepository
	engine         *search.Engine
	logger         *slog.Logger
}

var _ LineSearcher = (*Database)(nil)

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	store         StoreKind
	inMemory      bool
	logger        *slog.Logger
	engineOptions []search.Option
}

// WithStore selects the storage backend. Default is StoreBadger.
func WithStore(kind StoreKind) DatabaseOption {
	return func(o *databaseOptions) {
		o.store = kind
	}
}

// WithInMemory keeps all data in memory; the path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// WithEngineOptions passes options to the search engine.
func WithEngineOptions(opts ...search.Option) DatabaseOption {
	return func(o *databaseOptions) {
		o.engineOptions = append(o.engineOptions, opts...)
	}
}

// NewDatabase opens or creates the line store in the directory at dirPath.
func NewDatabase(dirPath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		store:  StoreBadger,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	engine, err := search.NewEngine(append([]search.Option{search.WithLogger(options.logger)}, options.engineOptions...)...)
	if err != nil {
		return nil, err
	}

	db := &Database{
		engine: engine,
		logger: options.logger,
	}

	switch options.store {
	case StoreBadger:
		backend, err := badger.OpenBackend(dirPath, options.inMemory)
		if err != nil {
			return nil, err
		}
		db.backend = backend
		db.lineRepo = badger.NewLineRepository(backend)
		db.checkpointRepo = badger.NewCheckpointRepository(backend)
		db.closer = backend.Close

	case StoreSQLite:
		dsn := ":memory:"
		if !options.inMemory {
			if err := os.MkdirAll(dirPath, 0o755); err != nil {
				return nil, err
			}
			dsn = filepath.Join(dirPath, sqliteFile)
		}
		store, err := sqlite.Open(dsn)
		if err != nil {
			return nil, err
		}
		db.lineRepo = store
		db.checkpointRepo = store
		db.closer = func() error { return nil }

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, options.store)
	}

	return db, nil
}

// Close closes the repositories and the backend.
func (db *Database) Close() error {
	if err := db.lineRepo.Close(); err != nil {
		db.logger.Error("error closing line repository", "err", err)
		return err
	}

	if err := db.closer(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// LineRepository returns the line store.
func (db *Database) LineRepository() storage.LineRepository {
	return db.lineRepo
}

// CheckpointRepository returns the import checkpoint store.
func (db *Database) CheckpointRepository() storage.CheckpointRepository {
	return db.checkpointRepo
}

// Engine returns the search engine used by Search.
func (db *Database) Engine() *search.Engine {
	return db.engine
}

// NewIngestionPipeline creates a pipeline that imports into this database.
// The caller must Release it.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{ingestion.WithLogger(db.logger)}, opts...)
	return ingestion.NewPipeline(db.lineRepo, db.checkpointRepo, opts...)
}

// Search loads every stored line and returns those matching query, ordered by id.
func (db *Database) Search(ctx context.Context, query string) ([]*core.Line, error) {
	lines, err := db.lineRepo.AllLines(ctx)
	if err != nil {
		db.logger.Error("error loading lines", "err", err)
		return nil, err
	}
	return db.engine.Search(lines, query), nil
}
