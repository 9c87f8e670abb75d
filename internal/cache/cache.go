// Package cache persists raw ffprobe output between runs so unchanged
// files are never probed twice. Entries are keyed by path together with
// the file's size and modification time; any change to either
// invalidates the entry. A small in-memory LRU sits in front of the
// database so repeated lookups within one run stay cheap.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bluele/gcache"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS probe_cache (
	path       TEXT    NOT NULL PRIMARY KEY,
	size       INTEGER NOT NULL,
	mtime      INTEGER NOT NULL,
	probe_json BLOB    NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// memCacheSize bounds the in-memory layer; a directory scan rarely
// touches more files than this in a single run.
const memCacheSize = 4096

// Store is a probe-result cache backed by a SQLite database file.
type Store struct {
	db  *sql.DB
	mem gcache.Cache
}

// Open creates or opens the cache database at dbPath. The parent
// directory is created if needed.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}

	return &Store{
		db:  db,
		mem: gcache.New(memCacheSize).LRU().Build(),
	}, nil
}

func memKey(path string, size, mtime int64) string {
	return fmt.Sprintf("%s|%d|%d", path, size, mtime)
}

// Get returns the cached probe output for the file identified by path,
// size and mtime. The second return value reports whether a current
// entry was found.
func (s *Store) Get(ctx context.Context, path string, size, mtime int64) ([]byte, bool) {
	key := memKey(path, size, mtime)
	if v, err := s.mem.Get(key); err == nil {
		if data, ok := v.([]byte); ok {
			return data, true
		}
	}

	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT probe_json FROM probe_cache WHERE path = ? AND size = ? AND mtime = ?`,
		path, size, mtime,
	).Scan(&data)
	if err != nil {
		return nil, false
	}

	s.mem.Set(key, data)
	return data, true
}

// Put stores probe output for the file identified by path, size and
// mtime, replacing any stale entry for the same path.
func (s *Store) Put(ctx context.Context, path string, size, mtime int64, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO probe_cache (path, size, mtime, probe_json, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			size = excluded.size,
			mtime = excluded.mtime,
			probe_json = excluded.probe_json,
			updated_at = excluded.updated_at`,
		path, size, mtime, data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	s.mem.Set(memKey(path, size, mtime), data)
	return nil
}

// Prune removes entries for paths that no longer exist on disk and
// returns the number of rows deleted.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM probe_cache`)
	if err != nil {
		return 0, fmt.Errorf("listing cache entries: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return 0, err
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			stale = append(stale, path)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	var removed int64
	for _, path := range stale {
		res, err := s.db.ExecContext(ctx, `DELETE FROM probe_cache WHERE path = ?`, path)
		if err != nil {
			return removed, fmt.Errorf("pruning cache entry: %w", err)
		}
		n, _ := res.RowsAffected()
		removed += n
	}
	return removed, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	s.mem.Purge()
	return s.db.Close()
}
