package ipc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/berrythewa/clipsense/internal/aggregator"
	"github.com/berrythewa/clipsense/internal/storage"
	"github.com/berrythewa/clipsense/internal/types"
)

// startServer runs a daemon-side server backed by a bolt store and returns its socket
func startServer(t *testing.T) (string, *aggregator.Aggregator) {
	t.Helper()

	// unix socket paths are length limited, so keep this one short
	dir, err := os.MkdirTemp("", "csipc")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := storage.NewBoltStorage(storage.StorageConfig{DBPath: filepath.Join(dir, "db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	agg, err := aggregator.New(aggregator.Options{Store: store, Root: dir})
	require.NoError(t, err)

	socket := filepath.Join(dir, "s.sock")
	handler := NewHandler(agg, aggregator.ExpiryPolicy{TextDays: 1}, zaptest.NewLogger(t))
	srv := NewServer(socket, handler, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool {
		_, err := os.Stat(socket)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	return socket, agg
}

func seed(t *testing.T, agg *aggregator.Aggregator, hash, data string, at time.Time) *types.Entry {
	t.Helper()
	e, err := agg.Upsert(context.Background(), types.Draft{
		ContentHash: hash,
		ContentType: types.TypeText,
		ContentData: data,
		Source:      types.AppInfo{Name: "Terminal"},
		SeenAt:      at,
	})
	require.NoError(t, err)
	return e
}

func TestServer_Commands(t *testing.T) {
	socket, agg := startServer(t)
	ctx := context.Background()

	old := seed(t, agg, "h1", "first", time.Now().AddDate(0, 0, -3))
	recent := seed(t, agg, "h2", "second", time.Now())

	t.Run("history", func(t *testing.T) {
		var entries []*types.Entry
		require.NoError(t, Call(ctx, socket, CmdHistory, HistoryArgs{Limit: 10}, &entries))
		require.Len(t, entries, 2)
		assert.Equal(t, recent.ID, entries[0].ID)

		require.NoError(t, Call(ctx, socket, CmdHistory, HistoryArgs{Search: "FIRST"}, &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, old.ID, entries[0].ID)
	})

	t.Run("history rejects unknown type", func(t *testing.T) {
		err := Call(ctx, socket, CmdHistory, HistoryArgs{Type: "video"}, nil)
		assert.ErrorContains(t, err, "unknown content type")
	})

	t.Run("show", func(t *testing.T) {
		var entry types.Entry
		require.NoError(t, Call(ctx, socket, CmdShow, IDArgs{ID: old.ID}, &entry))
		assert.Equal(t, "first", entry.ContentData)

		err := Call(ctx, socket, CmdShow, IDArgs{ID: "missing"}, &entry)
		assert.ErrorContains(t, err, "not found")

		err = Call(ctx, socket, CmdShow, nil, &entry)
		assert.ErrorContains(t, err, "requires an id")
	})

	t.Run("favorite", func(t *testing.T) {
		var res FavoriteResult
		require.NoError(t, Call(ctx, socket, CmdFavorite, IDArgs{ID: recent.ID}, &res))
		assert.True(t, res.IsFavorite)
	})

	t.Run("stats", func(t *testing.T) {
		var stats types.Statistics
		require.NoError(t, Call(ctx, socket, CmdStats, nil, &stats))
		assert.Equal(t, int64(2), stats.TotalEntries)

		var cache types.CacheStatistics
		require.NoError(t, Call(ctx, socket, CmdCacheStats, nil, &cache))
		assert.Equal(t, int64(2), cache.TextCount)
	})

	t.Run("cleanup", func(t *testing.T) {
		var result types.CleanupResult
		require.NoError(t, Call(ctx, socket, CmdCleanup, nil, &result))
		assert.Equal(t, 1, result.DeletedText)
	})

	t.Run("delete and clear", func(t *testing.T) {
		var deleted types.Entry
		require.NoError(t, Call(ctx, socket, CmdDelete, IDArgs{ID: recent.ID}, &deleted))
		assert.Equal(t, recent.ID, deleted.ID)

		seed(t, agg, "h3", "third", time.Now())
		require.NoError(t, Call(ctx, socket, CmdClear, nil, nil))

		var entries []*types.Entry
		require.NoError(t, Call(ctx, socket, CmdHistory, nil, &entries))
		assert.Empty(t, entries)
	})

	t.Run("unknown command", func(t *testing.T) {
		resp, err := SendRequest(ctx, socket, &Request{Command: "flush"})
		require.NoError(t, err)
		assert.Equal(t, StatusError, resp.Status)
	})
}

func TestSendRequest_NoDaemon(t *testing.T) {
	_, err := SendRequest(context.Background(), filepath.Join(t.TempDir(), "none.sock"), &Request{Command: CmdStats})
	assert.ErrorIs(t, err, ErrDaemonUnavailable)
}

func TestResponseDecode(t *testing.T) {
	var n int
	require.NoError(t, OK("", 42).Decode(&n))
	assert.Equal(t, 42, n)
	assert.Error(t, Errorf("boom").Decode(&n))
	assert.NoError(t, OK("done", nil).Decode(nil))
}
