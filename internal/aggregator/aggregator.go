// Package aggregator folds detected clipboard drafts into stored history
// entries and fans finalized entries out to listeners.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/berrythewa/clipsense/internal/clipboard"
	"github.com/berrythewa/clipsense/internal/imaging"
	"github.com/berrythewa/clipsense/internal/storage"
	"github.com/berrythewa/clipsense/internal/types"
)

// ExpiryPolicy sets retention in days; zero keeps entries forever. TextDays
// also covers file lists.
type ExpiryPolicy struct {
	TextDays  int
	ImageDays int
}

// Options configures an Aggregator
type Options struct {
	Store storage.Store
	// Root is the data directory that image paths are relative to
	Root string
	// DBPath is only used for cache statistics
	DBPath string
	Logger *zap.Logger
	Now    func() time.Time
	NewID  func() string
}

type Aggregator struct {
	store  storage.Store
	root   string
	dbPath string
	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	// serializes find-then-write so two drafts with one hash cannot both insert
	mu      sync.Mutex
	entries *clipboard.Broadcaster[*types.Entry]
}

func New(opts Options) (*Aggregator, error) {
	if opts.Store == nil {
		return nil, errors.New("aggregator: store is required")
	}
	a := &Aggregator{
		store:   opts.Store,
		root:    opts.Root,
		dbPath:  opts.DBPath,
		logger:  opts.Logger,
		now:     opts.Now,
		newID:   opts.NewID,
		entries: clipboard.NewBroadcaster[*types.Entry](),
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.newID == nil {
		a.newID = uuid.NewString
	}
	return a, nil
}

// Subscribe returns a channel of finalized entries
func (a *Aggregator) Subscribe(buffer int) (<-chan *types.Entry, func()) {
	return a.entries.Subscribe(buffer)
}

// Dropped returns how many entry deliveries were skipped for slow listeners
func (a *Aggregator) Dropped() int64 {
	return a.entries.Dropped()
}

// Close ends every subscription
func (a *Aggregator) Close() {
	a.entries.Close()
}

// Upsert stores d and publishes the resulting entry. A known hash bumps
// copy_count and moves created_at to the draft time; otherwise a new entry
// is inserted with copy_count 1.
func (a *Aggregator) Upsert(ctx context.Context, d types.Draft) (*types.Entry, error) {
	a.mu.Lock()
	entry, err := a.upsert(ctx, d)
	a.mu.Unlock()
	if err != nil {
		if d.ContentType == types.TypeImage {
			a.removeImage(d.FilePath)
		}
		return nil, err
	}

	delivered := a.entries.Publish(entry)
	a.logger.Debug("Entry finalized",
		zap.String("id", entry.ID),
		zap.String("hash", entry.ContentHash),
		zap.Int64("copy_count", entry.CopyCount),
		zap.Int("listeners", delivered))
	return entry, nil
}

func (a *Aggregator) upsert(ctx context.Context, d types.Draft) (*types.Entry, error) {
	existing, err := a.store.FindByHash(ctx, d.ContentHash)
	switch {
	case err == nil:
		return a.touch(ctx, existing, d)
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to look up hash: %w", err)
	}

	entry := d.Entry(a.newID())
	if err := a.store.Insert(ctx, entry); err != nil {
		if !errors.Is(err, storage.ErrDuplicateHash) {
			return nil, fmt.Errorf("failed to insert entry: %w", err)
		}
		// another writer on the same store got there first
		existing, err = a.store.FindByHash(ctx, d.ContentHash)
		if err != nil {
			return nil, fmt.Errorf("failed to look up hash: %w", err)
		}
		return a.touch(ctx, existing, d)
	}
	return entry, nil
}

func (a *Aggregator) touch(ctx context.Context, existing *types.Entry, d types.Draft) (*types.Entry, error) {
	entry, err := a.store.Touch(ctx, existing.ID, d.SeenAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	// the stored row keeps its original file
	if d.ContentType == types.TypeImage && d.FilePath != "" && d.FilePath != existing.FilePath {
		a.removeImage(d.FilePath)
	}
	return entry, nil
}

// Run upserts drafts until ctx is done or drafts is closed. Failed drafts are
// logged and dropped.
func (a *Aggregator) Run(ctx context.Context, drafts <-chan types.Draft) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-drafts:
			if !ok {
				return nil
			}
			if _, err := a.Upsert(ctx, d); err != nil {
				a.logger.Warn("Dropping clipboard change",
					zap.String("hash", d.ContentHash),
					zap.Error(err))
			}
		}
	}
}

func (a *Aggregator) History(ctx context.Context, q storage.HistoryQuery) ([]*types.Entry, error) {
	return a.store.List(ctx, q)
}

func (a *Aggregator) Entry(ctx context.Context, id string) (*types.Entry, error) {
	return a.store.Get(ctx, id)
}

func (a *Aggregator) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	return a.store.ToggleFavorite(ctx, id)
}

func (a *Aggregator) Statistics(ctx context.Context) (*types.Statistics, error) {
	return a.store.Statistics(ctx)
}

// Delete removes an entry and the image file it references
func (a *Aggregator) Delete(ctx context.Context, id string) (*types.Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, err := a.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.ContentType == types.TypeImage {
		a.removeImage(entry.FilePath)
	}
	return entry, nil
}

// Clear removes every entry and every file in the image directory
func (a *Aggregator) Clear(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	if a.root == "" {
		return nil
	}

	dir := filepath.Join(a.root, imaging.ImagesDir)
	files, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to list images: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, f.Name())); err != nil {
			a.logger.Warn("Failed to remove image", zap.String("file", f.Name()), zap.Error(err))
		}
	}
	return nil
}

// Cleanup deletes non-favorite entries older than the policy allows
func (a *Aggregator) Cleanup(ctx context.Context, policy ExpiryPolicy) (*types.CleanupResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := &types.CleanupResult{}
	now := a.now()

	if policy.TextDays > 0 {
		cutoff := now.AddDate(0, 0, -policy.TextDays)
		for _, ct := range []types.ContentType{types.TypeText, types.TypeFile} {
			removed, err := a.store.DeleteExpired(ctx, ct, cutoff)
			if err != nil {
				return result, fmt.Errorf("failed to expire %s entries: %w", ct, err)
			}
			result.DeletedText += len(removed)
		}
	}

	if policy.ImageDays > 0 {
		removed, err := a.store.DeleteExpired(ctx, types.TypeImage, now.AddDate(0, 0, -policy.ImageDays))
		if err != nil {
			return result, fmt.Errorf("failed to expire image entries: %w", err)
		}
		result.DeletedImages = len(removed)
		for _, e := range removed {
			if a.removeImage(e.FilePath) {
				result.FilesRemoved++
			}
		}
	}

	a.logger.Info("Expired old entries",
		zap.Int("text", result.DeletedText),
		zap.Int("images", result.DeletedImages),
		zap.Int("files_removed", result.FilesRemoved))
	return result, nil
}

// CacheStatistics reports database and image directory sizes with entry counts
func (a *Aggregator) CacheStatistics(ctx context.Context) (*types.CacheStatistics, error) {
	stats := &types.CacheStatistics{}

	if a.dbPath != "" {
		if info, err := os.Stat(a.dbPath); err == nil {
			stats.DBSize = info.Size()
		}
	}

	if a.root != "" {
		dir := filepath.Join(a.root, imaging.ImagesDir)
		err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return fs.SkipDir
				}
				return err
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			stats.ImagesSize += info.Size()
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to measure images: %w", err)
		}
	}

	counts, err := a.store.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	stats.TextCount = counts[types.TypeText]
	stats.ImageCount = counts[types.TypeImage]
	return stats, nil
}

// removeImage deletes rel if it resolves inside the image directory
func (a *Aggregator) removeImage(rel string) bool {
	if rel == "" || a.root == "" {
		return false
	}
	imgs := filepath.Join(a.root, imaging.ImagesDir)
	path := filepath.Join(a.root, filepath.FromSlash(rel))
	if inside, err := filepath.Rel(imgs, path); err != nil || strings.HasPrefix(inside, "..") {
		a.logger.Warn("Refusing to remove file outside image directory", zap.String("path", rel))
		return false
	}

	if err := os.Remove(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			a.logger.Warn("Failed to remove image", zap.String("path", rel), zap.Error(err))
		}
		return false
	}
	return true
}
