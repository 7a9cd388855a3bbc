package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/officelines/core"
	"github.com/poiesic/officelines/storage"
)

// LineRepository implements storage.LineRepository for BadgerDB.
type LineRepository struct {
	backend *Backend
}

var _ storage.LineRepository = (*LineRepository)(nil)

// NewLineRepository creates a new LineRepository.
func NewLineRepository(backend *Backend) *LineRepository {
	return &LineRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend owns the database handle.
func (r *LineRepository) Close() error {
	return nil
}

// AddLines stores lines keyed by their Id.
func (r *LineRepository) AddLines(ctx context.Context, lines ...*core.Line) ([]*core.Line, error) {
	for _, line := range lines {
		if err := core.ValidateLine(line); err != nil {
			return nil, err
		}
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	err := r.backend.WithWriteBatch(func(wb *badger.WriteBatch) error {
		for _, line := range lines {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := wb.Set(makeLineKey(line.Id), storage.MarshalLine(line)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// DeleteLines removes lines by their IDs.
func (r *LineRepository) DeleteLines(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeLineKey(id)
			if _, err := tx.Get(key); err != nil {
				if err == badger.ErrKeyNotFound {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetLine retrieves a single line by ID.
func (r *LineRepository) GetLine(ctx context.Context, id core.ID) (*core.Line, error) {
	var result *core.Line
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readLine(tx, makeLineKey(id))
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

// GetLines retrieves multiple lines by their IDs.
func (r *LineRepository) GetLines(ctx context.Context, ids ...core.ID) ([]*core.Line, error) {
	var result []*core.Line
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			line, err := r.readLine(tx, makeLineKey(id))
			if err != nil {
				return err
			}
			if line != nil {
				result = append(result, line)
			}
		}
		return nil
	}, false)
	return result, err
}

// AllLines returns every stored line in ascending id order.
func (r *LineRepository) AllLines(ctx context.Context) ([]*core.Line, error) {
	var results []*core.Line
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(linePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var line *core.Line
			err := iter.Item().Value(func(val []byte) error {
				var err error
				line, err = storage.UnmarshalLine(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, line)
		}
		return nil
	}, false)

	return results, err
}

// CountLines counts stored lines without reading their values.
func (r *LineRepository) CountLines(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(linePrefix)
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

// readLine returns nil, nil when key is absent.
func (r *LineRepository) readLine(tx *badger.Txn, key []byte) (*core.Line, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var line *core.Line
	err = item.Value(func(val []byte) error {
		var err error
		line, err = storage.UnmarshalLine(val)
		return err
	})
	return line, err
}
