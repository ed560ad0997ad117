package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/coursegrid/core"
	"github.com/poiesic/coursegrid/storage"
)

// SectionRepository implements storage.SectionRepository for BadgerDB.
//
// Each section is stored under a key derived from its catalog ID. A second
// index maps a monotonically increasing position to the catalog ID so that
// ListSections returns sections in the order they were added.
//
// Both indexes live under a generation number. Readers and writers use the
// generation named by the active key; ReplaceSections fills a fresh generation
// and Commit switches the active key to it in one transaction.
type SectionRepository struct {
	backend     *Backend
	position    *badger.Sequence
	generations *badger.Sequence
}

var _ storage.SectionRepository = (*SectionRepository)(nil)

// NewSectionRepository creates a new SectionRepository. Generations left
// behind by an interrupted replacement are dropped.
func NewSectionRepository(backend *Backend) (*SectionRepository, error) {
	position, err := backend.GetSequence(sectionOrderSeq)
	if err != nil {
		return nil, err
	}
	generations, err := backend.GetSequence(sectionGenSeq)
	if err != nil {
		position.Release()
		return nil, err
	}

	r := &SectionRepository{
		backend:     backend,
		position:    position,
		generations: generations,
	}
	if err := r.pruneGenerations(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the sequences.
func (r *SectionRepository) Close() error {
	return errors.Join(r.position.Release(), r.generations.Release())
}

// WithTransaction delegates to the backend.
func (r *SectionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddSections appends sections after those already stored.
func (r *SectionRepository) AddSections(ctx context.Context, sections ...*core.Section) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		generation, err := activeGeneration(tx)
		if err != nil {
			return err
		}
		if err := r.writeSections(tx, generation, sections); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ClearSections removes every stored section and its order index.
func (r *SectionRepository) ClearSections(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var generation uint64
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		generation, err = activeGeneration(tx)
		return err
	}, false)
	if err != nil {
		return err
	}
	return r.backend.DropPrefix(sectionRecordKeyPrefix(generation), sectionOrderKeyPrefix(generation))
}

// ReplaceSections starts building a replacement catalog. The stored catalog
// is served unchanged until the replacement commits.
func (r *SectionRepository) ReplaceSections(ctx context.Context) (storage.SectionReplacement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	generation, err := r.generations.Next()
	if err != nil {
		return nil, err
	}
	// Generation 0 is the implicit default before any replacement.
	if generation == 0 {
		generation, err = r.generations.Next()
		if err != nil {
			return nil, err
		}
	}
	return &sectionReplacement{repo: r, generation: generation}, nil
}

// GetSection retrieves a single section by catalog ID.
func (r *SectionRepository) GetSection(ctx context.Context, id string) (*core.Section, error) {
	var result *core.Section
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		generation, err := activeGeneration(tx)
		if err != nil {
			return err
		}
		result, err = r.readSection(tx, makeSectionKey(generation, id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetSections retrieves multiple sections by catalog ID.
func (r *SectionRepository) GetSections(ctx context.Context, ids ...string) ([]*core.Section, error) {
	var result []*core.Section
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		generation, err := activeGeneration(tx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			section, err := r.readSection(tx, makeSectionKey(generation, id))
			if err != nil {
				return err
			}
			if section != nil {
				result = append(result, section)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListSections returns every stored section in insertion order.
func (r *SectionRepository) ListSections(ctx context.Context) ([]core.Section, error) {
	var results []core.Section
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		generation, err := activeGeneration(tx)
		if err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = sectionOrderKeyPrefix(generation)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var id string
			if err := iter.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}

			section, err := r.readSection(tx, makeSectionKey(generation, id))
			if err != nil {
				return err
			}
			if section != nil {
				results = append(results, *section)
			}
		}
		return nil
	}, false)

	return results, err
}

// CountSections returns the number of stored sections.
func (r *SectionRepository) CountSections(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		generation, err := activeGeneration(tx)
		if err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = sectionOrderKeyPrefix(generation)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// writeSections stores sections under generation. A section already present
// in that generation is overwritten in place.
func (r *SectionRepository) writeSections(tx *badger.Txn, generation uint64, sections []*core.Section) error {
	for _, section := range sections {
		key := makeSectionKey(generation, section.ID)

		existing, err := r.readSection(tx, key)
		if err != nil {
			return err
		}

		if err := tx.Set(key, storage.MarshalSection(section)); err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		next, err := r.position.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if next == 0 {
			next, err = r.position.Next()
			if err != nil {
				return err
			}
		}
		if err := tx.Set(makeSectionOrderKey(generation, next), []byte(section.ID)); err != nil {
			return err
		}
	}
	return nil
}

// pruneGenerations drops every generation other than the active one.
func (r *SectionRepository) pruneGenerations() error {
	var active uint64
	var stale []uint64
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		active, err = activeGeneration(tx)
		if err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sectionOrderPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); {
			generation, ok := sectionOrderGeneration(iter.Item().Key())
			if !ok {
				iter.Next()
				continue
			}
			if generation != active {
				stale = append(stale, generation)
			}
			if generation == math.MaxUint64 {
				break
			}
			// Skip the rest of this generation.
			iter.Seek(sectionOrderKeyPrefix(generation + 1))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	for _, generation := range stale {
		if err := r.dropGeneration(generation); err != nil {
			return err
		}
	}
	if len(stale) > 0 {
		r.backend.logger.Debug("dropped stale catalog generations", "count", len(stale))
	}
	return nil
}

func (r *SectionRepository) dropGeneration(generation uint64) error {
	return r.backend.DropPrefix(sectionRecordKeyPrefix(generation), sectionOrderKeyPrefix(generation))
}

// readSection reads a section from the transaction.
// Returns nil, nil if the key doesn't exist.
func (r *SectionRepository) readSection(tx *badger.Txn, key []byte) (*core.Section, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var section *core.Section
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		section, unmarshalErr = storage.UnmarshalSection(val)
		return unmarshalErr
	})
	return section, err
}

// activeGeneration returns the generation readers should see, 0 when no
// replacement has ever committed.
func activeGeneration(tx *badger.Txn) (uint64, error) {
	item, err := tx.Get([]byte(sectionActiveKey))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}

	var generation uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("%w: active generation has %d bytes", storage.ErrSerializationFailed, len(val))
		}
		generation = binary.BigEndian.Uint64(val)
		return nil
	})
	return generation, err
}

// sectionReplacement writes into a generation nobody reads until Commit.
type sectionReplacement struct {
	repo       *SectionRepository
	generation uint64

	mu   sync.Mutex
	done bool
}

var _ storage.SectionReplacement = (*sectionReplacement)(nil)

func (s *sectionReplacement) AddSections(ctx context.Context, sections ...*core.Section) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return storage.ErrReplacementDone
	}
	return s.repo.backend.WithTx(func(tx *badger.Txn) error {
		if err := s.repo.writeSections(tx, s.generation, sections); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Commit makes the replacement the stored catalog and drops the previous one.
func (s *sectionReplacement) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return storage.ErrReplacementDone
	}

	var previous uint64
	err := s.repo.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		previous, err = activeGeneration(tx)
		if err != nil {
			return err
		}
		if err := tx.Set([]byte(sectionActiveKey), binary.BigEndian.AppendUint64(nil, s.generation)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}
	s.done = true

	// The switch is durable; a failed drop only leaves garbage that the next
	// open prunes.
	if err := s.repo.dropGeneration(previous); err != nil {
		s.repo.backend.logger.Warn("failed to drop previous catalog generation", "generation", previous, "err", err)
	}
	return nil
}

// Abort discards everything written to the replacement.
func (s *sectionReplacement) Abort(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}
	s.done = true
	return s.repo.dropGeneration(s.generation)
}
