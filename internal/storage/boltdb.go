package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/berrythewa/clipsense/internal/types"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const (
	entriesBucket = "entries"
	hashesBucket  = "hashes"
)

// BoltStorage implements Store on top of BoltDB. Entries are keyed by id; a
// second bucket maps content hash to id so each hash has at most one row.
type BoltStorage struct {
	db     *bbolt.DB
	path   string
	logger *zap.Logger
}

// StorageConfig holds configuration for store initialization
type StorageConfig struct {
	DBPath string
	Logger *zap.Logger
}

// NewBoltStorage creates a new BoltStorage instance
func NewBoltStorage(config StorageConfig) (*BoltStorage, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Open the database
	db, err := bbolt.Open(config.DBPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{entriesBucket, hashesBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("BoltStorage initialized", zap.String("db_path", config.DBPath))

	return &BoltStorage{db: db, path: config.DBPath, logger: logger}, nil
}

// Path returns the database file
func (s *BoltStorage) Path() string {
	return s.path
}

func getEntry(tx *bbolt.Tx, id string) (*types.Entry, error) {
	v := tx.Bucket([]byte(entriesBucket)).Get([]byte(id))
	if v == nil {
		return nil, ErrNotFound
	}
	var e types.Entry
	if err := json.Unmarshal(v, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry %s: %w", id, err)
	}
	return &e, nil
}

func putEntry(tx *bbolt.Tx, e *types.Entry) error {
	encoded, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	return tx.Bucket([]byte(entriesBucket)).Put([]byte(e.ID), encoded)
}

func removeEntry(tx *bbolt.Tx, e *types.Entry) error {
	if err := tx.Bucket([]byte(entriesBucket)).Delete([]byte(e.ID)); err != nil {
		return err
	}
	hashes := tx.Bucket([]byte(hashesBucket))
	if string(hashes.Get([]byte(e.ContentHash))) == e.ID {
		return hashes.Delete([]byte(e.ContentHash))
	}
	return nil
}

// forEach decodes every entry, skipping rows that fail to unmarshal
func (s *BoltStorage) forEach(tx *bbolt.Tx, fn func(e *types.Entry) error) error {
	return tx.Bucket([]byte(entriesBucket)).ForEach(func(k, v []byte) error {
		var e types.Entry
		if err := json.Unmarshal(v, &e); err != nil {
			s.logger.Warn("Failed to unmarshal entry", zap.Error(err), zap.ByteString("id", k))
			return nil
		}
		return fn(&e)
	})
}

// FindByHash returns the entry holding hash
func (s *BoltStorage) FindByHash(ctx context.Context, hash string) (*types.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entry *types.Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket([]byte(hashesBucket)).Get([]byte(hash))
		if id == nil {
			return ErrNotFound
		}
		var err error
		entry, err = getEntry(tx, string(id))
		return err
	})
	return entry, err
}

// Insert stores a new entry
func (s *BoltStorage) Insert(ctx context.Context, entry *types.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		hashes := tx.Bucket([]byte(hashesBucket))
		if hashes.Get([]byte(entry.ContentHash)) != nil {
			return ErrDuplicateHash
		}
		if err := putEntry(tx, entry); err != nil {
			return err
		}

		s.logger.Debug("New entry added",
			zap.String("id", entry.ID),
			zap.String("hash", entry.ContentHash),
			zap.String("type", string(entry.ContentType)))

		return hashes.Put([]byte(entry.ContentHash), []byte(entry.ID))
	})
}

// Touch records a repeat copy of an existing entry
func (s *BoltStorage) Touch(ctx context.Context, id string, createdAt time.Time) (*types.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entry *types.Entry
	err := s.db.Update(func(tx *bbolt.Tx) error {
		var err error
		entry, err = getEntry(tx, id)
		if err != nil {
			return err
		}
		entry.CopyCount++
		entry.CreatedAt = createdAt

		s.logger.Debug("Updated entry copy count",
			zap.String("id", id),
			zap.Int64("copy_count", entry.CopyCount),
			zap.Time("latest", createdAt))

		return putEntry(tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Get returns the entry with the given id
func (s *BoltStorage) Get(ctx context.Context, id string) (*types.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entry *types.Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		entry, err = getEntry(tx, id)
		return err
	})
	return entry, err
}

// List returns a page of history matching q
func (s *BoltStorage) List(ctx context.Context, q HistoryQuery) ([]*types.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var matched []*types.Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		return s.forEach(tx, func(e *types.Entry) error {
			if q.matches(e) {
				matched = append(matched, e)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return q.page(matched), nil
}

// ToggleFavorite flips the favorite flag and returns the new value
func (s *BoltStorage) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var favorite bool
	err := s.db.Update(func(tx *bbolt.Tx) error {
		entry, err := getEntry(tx, id)
		if err != nil {
			return err
		}
		entry.IsFavorite = !entry.IsFavorite
		favorite = entry.IsFavorite
		return putEntry(tx, entry)
	})
	return favorite, err
}

// Delete removes an entry and returns it
func (s *BoltStorage) Delete(ctx context.Context, id string) (*types.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entry *types.Entry
	err := s.db.Update(func(tx *bbolt.Tx) error {
		var err error
		entry, err = getEntry(tx, id)
		if err != nil {
			return err
		}
		return removeEntry(tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Clear removes every entry
func (s *BoltStorage) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{entriesBucket, hashesBucket} {
			if err := tx.DeleteBucket([]byte(name)); err != nil {
				return fmt.Errorf("failed to drop bucket %s: %w", name, err)
			}
			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		s.logger.Info("History cleared")
		return nil
	})
}

// Statistics summarizes the stored history
func (s *BoltStorage) Statistics(ctx context.Context) (*types.Statistics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var all []*types.Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		return s.forEach(tx, func(e *types.Entry) error {
			all = append(all, e)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}
	return buildStatistics(all), nil
}

// CountByType returns the number of stored entries per content type
func (s *BoltStorage) CountByType(ctx context.Context) (map[types.ContentType]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	counts := make(map[types.ContentType]int64)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return s.forEach(tx, func(e *types.Entry) error {
			counts[e.ContentType]++
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	return counts, nil
}

// DeleteExpired removes non-favorite entries of type ct created before the
// cutoff and returns the removed entries
func (s *BoltStorage) DeleteExpired(ctx context.Context, ct types.ContentType, before time.Time) ([]*types.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var removed []*types.Entry
	err := s.db.Update(func(tx *bbolt.Tx) error {
		var expired []*types.Entry
		err := s.forEach(tx, func(e *types.Entry) error {
			if e.ContentType == ct && !e.IsFavorite && e.CreatedAt.Before(before) {
				expired = append(expired, e)
			}
			return nil
		})
		if err != nil {
			return err
		}
		// deleting inside ForEach is not allowed
		for _, e := range expired {
			if err := removeEntry(tx, e); err != nil {
				return fmt.Errorf("failed to delete entry %s: %w", e.ID, err)
			}
		}
		removed = expired
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(removed) > 0 {
		s.logger.Debug("Deleted expired entries",
			zap.String("type", string(ct)),
			zap.Int("count", len(removed)),
			zap.Time("before", before))
	}
	return removed, nil
}

// Close closes the database connection
func (s *BoltStorage) Close() error {
	return s.db.Close()
}
