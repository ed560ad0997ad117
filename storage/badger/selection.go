package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/coursegrid/storage"
)

// SelectionRepository implements storage.SelectionRepository for BadgerDB.
// There is a single shared selection.
type SelectionRepository struct {
	backend *Backend
}

var _ storage.SelectionRepository = (*SelectionRepository)(nil)

// NewSelectionRepository creates a new SelectionRepository.
func NewSelectionRepository(backend *Backend) *SelectionRepository {
	return &SelectionRepository{backend: backend}
}

// SaveSelection overwrites the saved selection.
func (r *SelectionRepository) SaveSelection(ctx context.Context, ids []string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(selectionKey), storage.MarshalSelection(ids)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadSelection returns the saved selection, or nil when none was saved.
func (r *SelectionRepository) LoadSelection(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(selectionKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			ids, unmarshalErr = storage.UnmarshalSelection(val)
			return unmarshalErr
		})
	}, false)
	return ids, err
}
