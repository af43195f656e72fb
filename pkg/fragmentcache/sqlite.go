package fragmentcache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-view/pkg/view"
)

const createFragmentsTable = `
CREATE TABLE IF NOT EXISTS view_fragments (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0
);`

// SQLite stores fragments in a single table. expires_at holds unix
// nanoseconds, 0 for entries without a ttl.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var _ view.Cache = (*SQLite)(nil)

// OpenSQLite opens (or creates) the database at dataSource and prepares the
// fragments table.
func OpenSQLite(dataSource string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dataSource)
	if err != nil {
		return nil, fmt.Errorf("fragmentcache: open %q: %w", dataSource, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createFragmentsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("fragmentcache: create table: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) Get(key string) (string, bool, error) {
	var (
		value     string
		expiresAt int64
	)
	err := s.db.QueryRow(`SELECT value, expires_at FROM view_fragments WHERE key = ?`, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("fragmentcache: get %q: %w", key, err)
	}

	if expiresAt != 0 && s.now().UnixNano() >= expiresAt {
		if err := s.Delete(key); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return value, true, nil
}

func (s *SQLite) Set(key, value string, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = s.now().Add(ttl).UnixNano()
	}
	_, err := s.db.Exec(
		`INSERT INTO view_fragments (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("fragmentcache: set %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM view_fragments WHERE key = ?`, key); err != nil {
		return fmt.Errorf("fragmentcache: delete %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM view_fragments`); err != nil {
		return fmt.Errorf("fragmentcache: clear: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
