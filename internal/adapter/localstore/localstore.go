package localstore

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
)

var _ port.LocalStore = (*Store)(nil)

// Store is the durable key-value store surviving restarts,
// holding the cart contents and the mock-auth user directory.
type Store struct {
	db *leveldb.DB
}

func Open(path string) (*Store, error) {
	const op = "localstore.Open"

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{db}, nil
}

func (s *Store) Get(key string) ([]byte, error) {
	const op = "Store.Get"

	b, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

func (s *Store) Put(key string, value []byte) error {
	const op = "Store.Put"

	if err := s.db.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	const op = "Store.Delete"

	if err := s.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) Close() {
	const op = "Store.Close"
	log := slog.With("op", op)

	log.Info("closing local store...")
	if err := s.db.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("local store is closed")
}
