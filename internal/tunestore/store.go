package tunestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"songbook/internal/notation"
)

// ErrLocked reports that another process holds the write lock.
var ErrLocked = errors.New("tune store is locked by another process")

const lockRetryDelay = 50 * time.Millisecond

// Store manages tune persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the tune database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure tune store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, lock: flock.New(path + ".lock")}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) withLock(ctx context.Context, fn func() error) error {
	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrLocked, ctxErr)
		}
		return fmt.Errorf("acquire tune store lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

// All returns every row ordered by hymn number, then insertion order.
func (s *Store) All(ctx context.Context) ([]notation.TuneRef, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT hymn_number, tune_name, pages, probable_result FROM tunes ORDER BY hymn_number, id")
	if err != nil {
		return nil, fmt.Errorf("query tunes: %w", err)
	}
	defer rows.Close()

	var refs []notation.TuneRef
	for rows.Next() {
		var (
			ref   notation.TuneRef
			pages string
		)
		if err := rows.Scan(&ref.HymnNumber, &ref.TuneName, &pages, &ref.ProbableResult); err != nil {
			return nil, fmt.Errorf("scan tune: %w", err)
		}
		ref.Pages, _ = notation.ParsePages(pages)
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tunes: %w", err)
	}
	return refs, nil
}

// Seed inserts the refs that have no row yet for their hymn and tune and
// reports how many were written. Existing rows, confirmed pages included,
// are left untouched.
func (s *Store) Seed(ctx context.Context, refs []notation.TuneRef) (int, error) {
	inserted := 0
	err := s.withLock(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin seed tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		for _, ref := range refs {
			n, err := insertMissing(ctx, tx, ref)
			if err != nil {
				return err
			}
			inserted += n
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit seed: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// Save writes one row, replacing any existing row for the same hymn and tune.
func (s *Store) Save(ctx context.Context, ref notation.TuneRef) error {
	return s.withLock(ctx, func() error {
		_, err := upsert(ctx, s.db, ref)
		return err
	})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, ref notation.TuneRef) (int, error) {
	key := notation.TuneKey(ref.TuneName)
	if ref.HymnNumber <= 0 || key == "" {
		return 0, nil
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO tunes (hymn_number, tune_key, tune_name, pages, probable_result, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(hymn_number, tune_key) DO UPDATE SET
            tune_name = excluded.tune_name,
            pages = excluded.pages,
            probable_result = excluded.probable_result,
            updated_at = excluded.updated_at`,
		ref.HymnNumber,
		key,
		ref.TuneName,
		notation.FormatPages(ref.Pages),
		ref.ProbableResult,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("upsert tune %d/%q: %w", ref.HymnNumber, ref.TuneName, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if n > 1 {
		n = 1
	}
	return int(n), nil
}

func insertMissing(ctx context.Context, db execer, ref notation.TuneRef) (int, error) {
	key := notation.TuneKey(ref.TuneName)
	if ref.HymnNumber <= 0 || key == "" {
		return 0, nil
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO tunes (hymn_number, tune_key, tune_name, pages, probable_result, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(hymn_number, tune_key) DO NOTHING`,
		ref.HymnNumber,
		key,
		ref.TuneName,
		notation.FormatPages(ref.Pages),
		ref.ProbableResult,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("seed tune %d/%q: %w", ref.HymnNumber, ref.TuneName, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}
