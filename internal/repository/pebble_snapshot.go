package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/tasselgroup/storefront/internal/domain"
	"github.com/tasselgroup/storefront/internal/port"
)

// snapshotKey is the fixed storage-slot key the cart snapshot lives under.
const snapshotKey = "tasselCart"

// PebbleSnapshot persists the cart snapshot in an embedded Pebble database.
// The value is the JSON array of line items, rewritten on every save.
//
// Two processes writing the same slot race last-write-wins, same as two
// browser tabs sharing one storage key. That is accepted, not coordinated.
type PebbleSnapshot struct {
	db     *pebble.DB
	logger *slog.Logger
}

func NewPebbleSnapshot(dir string, logger *slog.Logger) (*PebbleSnapshot, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble.Open: %w", err)
	}

	return &PebbleSnapshot{db: db, logger: logger}, nil
}

func (s *PebbleSnapshot) Close() error { return s.db.Close() }

// Load reads the persisted item list. A missing or malformed snapshot yields
// an empty cart, never an error the caller has to handle: corruption is
// logged and discarded.
func (s *PebbleSnapshot) Load(_ context.Context) ([]domain.LineItem, error) {
	val, closer, err := s.db.Get([]byte(snapshotKey))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("db.Get: %w", err)
	}
	defer closer.Close()

	var items []domain.LineItem
	if err := json.Unmarshal(val, &items); err != nil {
		s.logger.Warn("discarding malformed cart snapshot", "key", snapshotKey, "error", err)
		return nil, nil
	}

	return items, nil
}

// Save replaces the persisted snapshot with the given item list.
func (s *PebbleSnapshot) Save(_ context.Context, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}

	val, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := s.db.Set([]byte(snapshotKey), val, pebble.Sync); err != nil {
		return fmt.Errorf("db.Set: %w", err)
	}

	return nil
}

var _ port.SnapshotStore = (*PebbleSnapshot)(nil)
