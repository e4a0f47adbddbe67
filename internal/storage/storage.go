// Package storage persists clipboard history entries.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/berrythewa/clipsense/internal/types"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when an entry doesn't exist.
	ErrNotFound = errors.New("entry not found")
	// ErrDuplicateHash is returned by Insert when an entry with the same hash exists.
	ErrDuplicateHash = errors.New("entry with this hash already exists")
)

const (
	// DefaultHistoryLimit applies when HistoryQuery.Limit is zero
	DefaultHistoryLimit = 50
	statsTopN           = 10
)

// HistoryQuery selects a page of history, newest first
type HistoryQuery struct {
	Limit  int
	Offset int
	// Search matches content_data or source_app, ignoring case
	Search        string
	Type          types.ContentType
	FavoritesOnly bool
}

// Store is the persistence layer behind the aggregator
type Store interface {
	FindByHash(ctx context.Context, hash string) (*types.Entry, error)
	Insert(ctx context.Context, entry *types.Entry) error
	// Touch increments copy_count and sets created_at
	Touch(ctx context.Context, id string, createdAt time.Time) (*types.Entry, error)
	Get(ctx context.Context, id string) (*types.Entry, error)
	List(ctx context.Context, q HistoryQuery) ([]*types.Entry, error)
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (*types.Entry, error)
	Clear(ctx context.Context) error
	Statistics(ctx context.Context) (*types.Statistics, error)
	// CountByType returns the number of entries per content type
	CountByType(ctx context.Context) (map[types.ContentType]int64, error)
	// DeleteExpired removes non-favorite entries of type ct created before the cutoff
	DeleteExpired(ctx context.Context, ct types.ContentType, before time.Time) ([]*types.Entry, error)
	Close() error
}

// Options selects and configures a Store implementation
type Options struct {
	Driver string
	DBPath string
	Logger *zap.Logger
}

// Open returns the Store for opts.Driver
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "", "bolt":
		return NewBoltStorage(StorageConfig{DBPath: opts.DBPath, Logger: opts.Logger})
	case "sqlite":
		return NewSQLiteStorage(StorageConfig{DBPath: opts.DBPath, Logger: opts.Logger})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

func (q HistoryQuery) limit() int {
	if q.Limit <= 0 {
		return DefaultHistoryLimit
	}
	return q.Limit
}

func (q HistoryQuery) matches(e *types.Entry) bool {
	if q.Type != "" && e.ContentType != q.Type {
		return false
	}
	if q.FavoritesOnly && !e.IsFavorite {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(e.ContentData), needle) &&
			!strings.Contains(strings.ToLower(e.SourceApp), needle) {
			return false
		}
	}
	return true
}

// page sorts newest first and applies offset and limit
func (q HistoryQuery) page(entries []*types.Entry) []*types.Entry {
	sortNewestFirst(entries)
	if q.Offset >= len(entries) {
		return []*types.Entry{}
	}
	entries = entries[max(q.Offset, 0):]
	if n := q.limit(); len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func sortNewestFirst(entries []*types.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

// buildStatistics derives Statistics from the full entry set
func buildStatistics(entries []*types.Entry) *types.Statistics {
	stats := &types.Statistics{
		TotalEntries: int64(len(entries)),
		MostCopied:   []*types.Entry{},
		RecentApps:   []types.AppUsage{},
	}

	apps := make(map[string]*types.AppUsage)
	for _, e := range entries {
		stats.TotalCopies += e.CopyCount
		if e.SourceApp == "" {
			continue
		}
		usage, ok := apps[e.SourceApp]
		if !ok {
			usage = &types.AppUsage{Name: e.SourceApp, BundleID: e.AppBundleID}
			apps[e.SourceApp] = usage
		}
		usage.Count++
		if e.CreatedAt.After(usage.LastUsed) {
			usage.LastUsed = e.CreatedAt
		}
	}

	byCount := append([]*types.Entry(nil), entries...)
	sort.SliceStable(byCount, func(i, j int) bool {
		if byCount[i].CopyCount == byCount[j].CopyCount {
			return byCount[i].CreatedAt.After(byCount[j].CreatedAt)
		}
		return byCount[i].CopyCount > byCount[j].CopyCount
	})
	if len(byCount) > statsTopN {
		byCount = byCount[:statsTopN]
	}
	stats.MostCopied = append(stats.MostCopied, byCount...)

	for _, usage := range apps {
		stats.RecentApps = append(stats.RecentApps, *usage)
	}
	sort.Slice(stats.RecentApps, func(i, j int) bool {
		a, b := stats.RecentApps[i], stats.RecentApps[j]
		if a.LastUsed.Equal(b.LastUsed) {
			return a.Name < b.Name
		}
		return a.LastUsed.After(b.LastUsed)
	})
	if len(stats.RecentApps) > statsTopN {
		stats.RecentApps = stats.RecentApps[:statsTopN]
	}
	return stats
}
