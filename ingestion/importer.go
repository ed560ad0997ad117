package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/coursegrid/core"
	"github.com/poiesic/coursegrid/storage"
)

// CatalogSource is the checkpoint source name for catalog imports.
const CatalogSource = "catalog"

// ImportResult summarizes one import.
type ImportResult struct {
	Read        int           `json:"read"`
	Accepted    int           `json:"accepted"`
	SkippedTerm int           `json:"skipped_term"`
	Invalid     int           `json:"invalid"`
	Stored      int           `json:"stored"`
	Unchanged   bool          `json:"unchanged"`
	Fingerprint core.ID       `json:"fingerprint"`
	Duration    time.Duration `json:"duration"`
}

// Importer replaces the stored catalog with the contents of a catalog file.
type Importer struct {
	sections       storage.SectionRepository
	checkpoints    storage.CheckpointRepository
	pool           *ants.Pool
	filter         *Filter
	excludedTerms  []string
	displayTerms   []string
	batchSize      int
	reportInterval int
	maxRetries     int
	retryDelay     time.Duration
	force          bool
	progress       io.Writer
	logger         *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size used for validation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(i *Importer) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if i.pool != nil {
			i.pool.Release()
		}
		i.pool = pool
		return nil
	}
}

// WithBatchSize sets how many sections are written per transaction.
// Default is 500.
func WithBatchSize(size int) Option {
	return func(i *Importer) error {
		if size < 1 {
			size = 1
		}
		i.batchSize = size
		return nil
	}
}

// WithReportInterval sets how often progress is reported, in sections.
// Default is 1000.
func WithReportInterval(n int) Option {
	return func(i *Importer) error {
		i.reportInterval = n
		return nil
	}
}

// WithMaxRetries sets the number of attempts for each batch write.
// Default is 3.
func WithMaxRetries(n int) Option {
	return func(i *Importer) error {
		if n < 1 {
			return ErrInvalidMaxAttempts
		}
		i.maxRetries = n
		return nil
	}
}

// WithRetryDelay sets the base delay between batch write attempts.
// Default is 100ms.
func WithRetryDelay(d time.Duration) Option {
	return func(i *Importer) error {
		i.retryDelay = d
		return nil
	}
}

// WithForce stores the catalog even when its fingerprint matches the
// last import.
func WithForce(force bool) Option {
	return func(i *Importer) error {
		i.force = force
		return nil
	}
}

// WithTerms sets the excluded terms and the display allow-list. An empty
// allow-list admits every term that is not excluded.
func WithTerms(excluded, display []string) Option {
	return func(i *Importer) error {
		i.excludedTerms = excluded
		i.displayTerms = display
		return nil
	}
}

// WithProgressWriter sets where batch progress is printed. Default is no
// output.
func WithProgressWriter(w io.Writer) Option {
	return func(i *Importer) error {
		i.progress = w
		return nil
	}
}

// NewImporter creates an importer writing to the given repositories.
func NewImporter(sections storage.SectionRepository, checkpoints storage.CheckpointRepository, opts ...Option) (*Importer, error) {
	if sections == nil {
		return nil, ErrSectionRepositoryRequired
	}
	if checkpoints == nil {
		return nil, ErrCheckpointRepositoryRequired
	}

	i := &Importer{
		sections:       sections,
		checkpoints:    checkpoints,
		excludedTerms:  []string{"Term 2265"},
		displayTerms:   []string{"Fall 2025", "Spring 2026"},
		batchSize:      500,
		reportInterval: 1000,
		maxRetries:     3,
		retryDelay:     100 * time.Millisecond,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			i.Release()
			return nil, err
		}
	}

	if i.pool == nil {
		poolSize := max(runtime.NumCPU()/2, 1)
		pool, err := ants.NewPool(poolSize)
		if err != nil {
			return nil, err
		}
		i.pool = pool
	}
	i.filter = NewFilter(i.excludedTerms, i.displayTerms, i.logger)

	return i, nil
}

// Release releases the worker pool.
// The importer should not be used after calling Release.
func (i *Importer) Release() {
	if i.pool != nil {
		i.pool.Release()
	}
}

// Import loads the catalog file at path, choosing the decoder by extension.
func (i *Importer) Import(ctx context.Context, path string) (*ImportResult, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return i.ImportReader(ctx, f, format)
}

// ImportReader loads a catalog from r.
func (i *Importer) ImportReader(ctx context.Context, r io.Reader, format Format) (*ImportResult, error) {
	start := time.Now()

	decoded, err := Decode(r, format)
	if err != nil {
		return nil, err
	}

	accepted, stats, err := i.check(ctx, decoded)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Read:        len(decoded),
		Accepted:    stats.Accepted,
		SkippedTerm: stats.SkippedTerm,
		Invalid:     stats.Invalid,
		Fingerprint: Fingerprint(accepted),
	}
	if stats.SkippedTerm > 0 {
		i.logger.Info("skipped sections from excluded terms", "count", stats.SkippedTerm)
	}

	unchanged, err := i.unchanged(ctx, result.Fingerprint, len(accepted))
	if err != nil {
		return nil, err
	}
	if unchanged {
		i.logger.Info("catalog unchanged, skipping store", "sections", len(accepted))
		result.Unchanged = true
		result.Duration = time.Since(start)
		return result, nil
	}

	stored, err := i.store(ctx, accepted)
	result.Stored = stored
	if err != nil {
		return result, err
	}

	checkpoint := &core.Checkpoint{
		Source:      CatalogSource,
		Fingerprint: result.Fingerprint,
		Sections:    len(accepted),
	}
	if err := i.checkpoints.SaveCheckpoint(ctx, checkpoint); err != nil {
		return result, fmt.Errorf("saving checkpoint: %w", err)
	}

	result.Duration = time.Since(start)
	i.logger.Info("catalog imported",
		"read", result.Read,
		"stored", result.Stored,
		"skipped_term", result.SkippedTerm,
		"invalid", result.Invalid,
		"duration", result.Duration)
	return result, nil
}

// check runs the filter over sections on the worker pool, preserving order.
func (i *Importer) check(ctx context.Context, sections []*core.Section) ([]*core.Section, FilterStats, error) {
	verdicts := make([]Verdict, len(sections))
	var wg sync.WaitGroup
	for idx, section := range sections {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, FilterStats{}, err
		}
		wg.Add(1)
		task := func() {
			defer wg.Done()
			verdicts[idx] = i.filter.Check(section)
		}
		if err := i.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	accepted, stats := collect(sections, verdicts)
	return accepted, stats, nil
}

func (i *Importer) unchanged(ctx context.Context, fingerprint core.ID, count int) (bool, error) {
	if i.force {
		return false, nil
	}
	checkpoint, err := i.checkpoints.LoadCheckpoint(ctx, CatalogSource)
	if err != nil {
		return false, fmt.Errorf("loading checkpoint: %w", err)
	}
	if checkpoint == nil || checkpoint.Fingerprint != fingerprint {
		return false, nil
	}
	stored, err := i.sections.CountSections(ctx)
	if err != nil {
		return false, err
	}
	return stored == count, nil
}

// store replaces the catalog with sections, writing one batch per transaction.
// The previous catalog stays in place until every batch is written.
func (i *Importer) store(ctx context.Context, sections []*core.Section) (stored int, err error) {
	replacement, err := i.sections.ReplaceSections(ctx)
	if err != nil {
		return 0, fmt.Errorf("starting catalog replacement: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if abortErr := replacement.Abort(context.WithoutCancel(ctx)); abortErr != nil {
			i.logger.Warn("failed to discard partial catalog", "err", abortErr)
		}
		stored = 0
	}()

	tracker := NewProgressTracker(i.progress, len(sections), i.reportInterval)
	tracker.Start()

	for start := 0; start < len(sections); start += i.batchSize {
		end := min(start+i.batchSize, len(sections))
		batch := sections[start:end]

		err := RetryWithBackoff(ctx, func() error {
			return replacement.AddSections(ctx, batch...)
		}, i.maxRetries, i.retryDelay, isConflict)
		if err != nil {
			return stored, fmt.Errorf("storing sections %d-%d: %w", start, end, err)
		}

		stored += len(batch)
		tracker.Increment(len(batch))
	}

	if err := replacement.Commit(ctx); err != nil {
		return stored, fmt.Errorf("committing catalog: %w", err)
	}
	tracker.Finish()
	return stored, nil
}

func isConflict(err error) bool {
	return errors.Is(err, badger.ErrConflict)
}

// Fingerprint hashes the encoded sections in order.
func Fingerprint(sections []*core.Section) core.ID {
	var b strings.Builder
	for _, s := range sections {
		b.Write(storage.MarshalSection(s))
	}
	return core.IDFromContent(b.String())
}
