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

// Package coursegrid ties catalog storage, import, search and the weekly
// schedule together behind a single Database handle.
package coursegrid

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/coursegrid/config"
	"github.com/poiesic/coursegrid/ingestion"
	"github.com/poiesic/coursegrid/schedule"
	"github.com/poiesic/coursegrid/search"
	"github.com/poiesic/coursegrid/storage"
	"github.com/poiesic/coursegrid/storage/badger"
)

type Database struct {
	repos  *badger.Repositories
	config *config.Config
	logger *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	config   *config.Config
	logger   *slog.Logger
	inMemory bool
}

// WithConfig sets the catalog configuration. Default is config.DefaultConfig().
func WithConfig(cfg *config.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.config = cfg
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// InMemory keeps the database in memory; the path is ignored.
func InMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens (or creates) the catalog database at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		config: config.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.config == nil {
		options.config = config.DefaultConfig()
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if err := options.config.Validate(); err != nil {
		return nil, err
	}

	if options.inMemory {
		filePath = ""
	}
	backend, err := badger.OpenBackendWithLogger(filePath, options.inMemory, options.logger)
	if err != nil {
		return nil, err
	}

	repos, err := badger.OpenRepositories(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		repos:  repos,
		config: options.config,
		logger: options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.repos.Close(); err != nil {
		db.logger.Error("error closing catalog storage", "err", err)
		return err
	}
	return nil
}

// Config returns the validated configuration in use.
func (db *Database) Config() *config.Config {
	return db.config
}

func (db *Database) SectionRepository() storage.SectionRepository {
	return db.repos.Sections
}

func (db *Database) CheckpointRepository() storage.CheckpointRepository {
	return db.repos.Checkpoints
}

func (db *Database) SelectionRepository() storage.SelectionRepository {
	return db.repos.Selections
}

// NewImporter creates an importer configured from the database settings.
// Options given here override those settings.
func (db *Database) NewImporter(opts ...ingestion.Option) (*ingestion.Importer, error) {
	base := []ingestion.Option{
		ingestion.WithLogger(db.logger),
		ingestion.WithPoolSize(db.config.PoolSize),
		ingestion.WithTerms(db.config.ExcludedTerms, db.config.DisplayTerms),
	}
	return ingestion.NewImporter(db.repos.Sections, db.repos.Checkpoints, append(base, opts...)...)
}

// OpenIndex loads the stored catalog in import order and builds a search index.
func (db *Database) OpenIndex(ctx context.Context, opts ...search.Option) (*search.Index, error) {
	sections, err := db.repos.Sections.ListSections(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	base := []search.Option{
		search.WithLogger(db.logger),
		search.WithPoolSize(db.config.PoolSize),
		search.WithDisplayTerms(db.config.DisplayTerms...),
	}
	return search.NewIndex(sections, append(base, opts...)...)
}

// OpenSchedule restores the saved selection into a new engine. Saved ids
// missing from idx are dropped.
func (db *Database) OpenSchedule(ctx context.Context, idx *search.Index) (*schedule.Engine, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	engine, err := schedule.NewEngine(
		schedule.WithPalette(db.config.Palette...),
		schedule.WithLogger(db.logger),
	)
	if err != nil {
		return nil, err
	}

	ids, err := db.repos.Selections.LoadSelection(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}
	engine.Set(idx, ids)

	if dropped := len(ids) - engine.CourseCount(); dropped > 0 {
		db.logger.Warn("saved schedule references unknown sections", "dropped", dropped)
	}
	return engine, nil
}

// SaveSchedule persists the engine's selection in insertion order.
func (db *Database) SaveSchedule(ctx context.Context, engine *schedule.Engine) error {
	return db.repos.Selections.SaveSelection(ctx, engine.IDs())
}
