package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/berrythewa/clipsense/internal/types"
	"go.uber.org/zap"

	"modernc.org/sqlite"
)

// SQLite's built-in lower() folds ASCII only; search folds with this instead
const foldFunc = "clipsense_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, foldText)
}

func foldText(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

const entryColumns = `id, content_hash, content_type, content_subtype, content_data,
	source_app, app_bundle_id, created_at, copy_count, is_favorite, file_path, metadata`

// SQLiteStorage implements Store on a single SQLite table. created_at is
// stored as unix milliseconds.
type SQLiteStorage struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// NewSQLiteStorage opens or creates the database at config.DBPath
func NewSQLiteStorage(config StorageConfig) (*SQLiteStorage, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// one writer; avoids SQLITE_BUSY between the daemon's goroutines
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	logger.Debug("SQLiteStorage initialized", zap.String("db_path", config.DBPath))

	return &SQLiteStorage{db: db, path: config.DBPath, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS clipboard_entries (
			id              TEXT PRIMARY KEY,
			content_hash    TEXT NOT NULL UNIQUE,
			content_type    TEXT NOT NULL,
			content_subtype TEXT,
			content_data    TEXT,
			source_app      TEXT,
			app_bundle_id   TEXT,
			created_at      INTEGER NOT NULL,
			copy_count      INTEGER NOT NULL DEFAULT 1,
			is_favorite     INTEGER NOT NULL DEFAULT 0,
			file_path       TEXT,
			metadata        TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_created_at ON clipboard_entries(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_content_subtype ON clipboard_entries(content_subtype);
		CREATE INDEX IF NOT EXISTS idx_app_bundle_id ON clipboard_entries(app_bundle_id);
	`)
	return err
}

// Path returns the database file
func (s *SQLiteStorage) Path() string {
	return s.path
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*types.Entry, error) {
	var (
		e         types.Entry
		createdAt int64
		favorite  int

		subtype, data, app, bundle, fpath, metadata sql.NullString
	)
	err := row.Scan(&e.ID, &e.ContentHash, &e.ContentType, &subtype, &data,
		&app, &bundle, &createdAt, &e.CopyCount, &favorite, &fpath, &metadata)
	if err != nil {
		return nil, err
	}
	e.ContentSubtype = types.Subtype(subtype.String)
	e.ContentData = data.String
	e.SourceApp = app.String
	e.AppBundleID = bundle.String
	e.CreatedAt = time.UnixMilli(createdAt)
	e.IsFavorite = favorite != 0
	e.FilePath = fpath.String
	if metadata.Valid && metadata.String != "" {
		e.Metadata = []byte(metadata.String)
	}
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]*types.Entry, error) {
	defer rows.Close()
	entries := []*types.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *SQLiteStorage) queryOne(ctx context.Context, where string, arg any) (*types.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM clipboard_entries WHERE `+where, arg)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying entry: %w", err)
	}
	return e, nil
}

// FindByHash returns the entry holding hash
func (s *SQLiteStorage) FindByHash(ctx context.Context, hash string) (*types.Entry, error) {
	return s.queryOne(ctx, "content_hash = ?", hash)
}

// Get returns the entry with the given id
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*types.Entry, error) {
	return s.queryOne(ctx, "id = ?", id)
}

// Insert stores a new entry
func (s *SQLiteStorage) Insert(ctx context.Context, e *types.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM clipboard_entries WHERE content_hash = ?`, e.ContentHash).Scan(&exists)
	if err == nil {
		return ErrDuplicateHash
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking hash: %w", err)
	}

	favorite := 0
	if e.IsFavorite {
		favorite = 1
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO clipboard_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ContentHash, string(e.ContentType), nullString(string(e.ContentSubtype)),
		e.ContentData, nullString(e.SourceApp), nullString(e.AppBundleID),
		e.CreatedAt.UnixMilli(), e.CopyCount, favorite, nullString(e.FilePath),
		nullString(string(e.Metadata)))
	if err != nil {
		return fmt.Errorf("inserting entry: %w", err)
	}

	s.logger.Debug("New entry added",
		zap.String("id", e.ID),
		zap.String("hash", e.ContentHash),
		zap.String("type", string(e.ContentType)))

	return tx.Commit()
}

// Touch records a repeat copy of an existing entry
func (s *SQLiteStorage) Touch(ctx context.Context, id string, createdAt time.Time) (*types.Entry, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE clipboard_entries SET copy_count = copy_count + 1, created_at = ? WHERE id = ?`,
		createdAt.UnixMilli(), id)
	if err != nil {
		return nil, fmt.Errorf("updating entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// List returns a page of history matching q
func (s *SQLiteStorage) List(ctx context.Context, q HistoryQuery) ([]*types.Entry, error) {
	var (
		where []string
		args  []any
	)
	if q.Type != "" {
		where = append(where, "content_type = ?")
		args = append(args, string(q.Type))
	}
	if q.FavoritesOnly {
		where = append(where, "is_favorite = 1")
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		where = append(where, `(instr(`+foldFunc+`(content_data), ?) > 0 OR instr(`+foldFunc+`(source_app), ?) > 0)`)
		args = append(args, needle, needle)
	}

	query := `SELECT ` + entryColumns + ` FROM clipboard_entries`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, q.limit(), max(q.Offset, 0))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	return scanEntries(rows)
}

// ToggleFavorite flips the favorite flag and returns the new value
func (s *SQLiteStorage) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE clipboard_entries SET is_favorite = NOT is_favorite WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("toggling favorite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, ErrNotFound
	}
	var favorite int
	if err := s.db.QueryRowContext(ctx, `SELECT is_favorite FROM clipboard_entries WHERE id = ?`, id).Scan(&favorite); err != nil {
		return false, fmt.Errorf("reading favorite: %w", err)
	}
	return favorite != 0, nil
}

// Delete removes an entry and returns it
func (s *SQLiteStorage) Delete(ctx context.Context, id string) (*types.Entry, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM clipboard_entries WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting entry: %w", err)
	}
	return e, nil
}

// Clear removes every entry
func (s *SQLiteStorage) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM clipboard_entries`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	s.logger.Info("History cleared")
	return nil
}

// Statistics summarizes the stored history
func (s *SQLiteStorage) Statistics(ctx context.Context) (*types.Statistics, error) {
	stats := &types.Statistics{RecentApps: []types.AppUsage{}}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(copy_count), 0) FROM clipboard_entries`).
		Scan(&stats.TotalEntries, &stats.TotalCopies)
	if err != nil {
		return nil, fmt.Errorf("counting entries: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM clipboard_entries
		ORDER BY copy_count DESC, created_at DESC LIMIT ?`, statsTopN)
	if err != nil {
		return nil, fmt.Errorf("querying most copied: %w", err)
	}
	if stats.MostCopied, err = scanEntries(rows); err != nil {
		return nil, err
	}

	apps, err := s.db.QueryContext(ctx, `
		SELECT source_app, COALESCE(MAX(app_bundle_id), ''), COUNT(*), MAX(created_at) AS last_used
		FROM clipboard_entries
		WHERE source_app IS NOT NULL AND source_app != ''
		GROUP BY source_app
		ORDER BY last_used DESC, source_app
		LIMIT ?`, statsTopN)
	if err != nil {
		return nil, fmt.Errorf("querying recent apps: %w", err)
	}
	defer apps.Close()
	for apps.Next() {
		var (
			usage    types.AppUsage
			lastUsed int64
		)
		if err := apps.Scan(&usage.Name, &usage.BundleID, &usage.Count, &lastUsed); err != nil {
			return nil, fmt.Errorf("scanning app usage: %w", err)
		}
		usage.LastUsed = time.UnixMilli(lastUsed)
		stats.RecentApps = append(stats.RecentApps, usage)
	}
	return stats, apps.Err()
}

// CountByType returns the number of stored entries per content type
func (s *SQLiteStorage) CountByType(ctx context.Context) (map[types.ContentType]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT content_type, COUNT(*) FROM clipboard_entries GROUP BY content_type`)
	if err != nil {
		return nil, fmt.Errorf("counting by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.ContentType]int64)
	for rows.Next() {
		var (
			ct    string
			count int64
		)
		if err := rows.Scan(&ct, &count); err != nil {
			return nil, fmt.Errorf("scanning type count: %w", err)
		}
		counts[types.ContentType(ct)] = count
	}
	return counts, rows.Err()
}

// DeleteExpired removes non-favorite entries of type ct created before the
// cutoff and returns the removed entries
func (s *SQLiteStorage) DeleteExpired(ctx context.Context, ct types.ContentType, before time.Time) ([]*types.Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT `+entryColumns+` FROM clipboard_entries
		WHERE content_type = ? AND is_favorite = 0 AND created_at < ?`,
		string(ct), before.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("querying expired entries: %w", err)
	}
	expired, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	for _, e := range expired {
		if _, err := tx.ExecContext(ctx, `DELETE FROM clipboard_entries WHERE id = ?`, e.ID); err != nil {
			return nil, fmt.Errorf("deleting entry %s: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing cleanup: %w", err)
	}

	if len(expired) > 0 {
		s.logger.Debug("Deleted expired entries",
			zap.String("type", string(ct)),
			zap.Int("count", len(expired)),
			zap.Time("before", before))
	}
	return expired, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
