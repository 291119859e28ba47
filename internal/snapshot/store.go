// Package snapshot persists periodic heap/GC snapshots to a local
// SQLite database, giving an embedder a history of Stats/Phase samples
// it can query after the fact instead of only ever seeing the current
// values through Runtime.Stats().
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/scriptrt/ccjs/internal/core"
)

// Store wraps a single-connection sqlite3 database holding the
// snapshot table. sqlite doesn't benefit from more than one open
// connection for a write-mostly workload like this, so the pool is
// capped at one the way the teacher caps its own sqlite connection.
type Store struct {
	db *sqlx.DB
	mu sync.Mutex
}

// Open connects to (and, if necessary, creates) the sqlite3 database at
// path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", path))
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Snapshot is one point-in-time sample of a Heap's Stats plus the
// phase it was taken in.
type Snapshot struct {
	ID                  int64         `db:"id"`
	TakenAtUnix         int64         `db:"taken_at_unix"`
	Phase               string        `db:"phase"`
	Collections         int           `db:"collections"`
	MinorCollections    int           `db:"minor_collections"`
	FullCollections     int           `db:"full_collections"`
	Allocations         int64         `db:"allocations"`
	Deallocations       int64         `db:"deallocations"`
	BytesAllocated      int64         `db:"bytes_allocated"`
	BytesFreed          int64         `db:"bytes_freed"`
	TotalCollectionTime time.Duration `db:"total_collection_time_ns"`
	PeakUsage           int64         `db:"peak_usage"`
}

// Record inserts a new snapshot row taken from stats/phase at the
// given instant. Record does not read the clock itself; callers (the
// Scheduler's job among them) stamp takenAt.
func (s *Store) Record(ctx context.Context, takenAt time.Time, stats core.Stats, phase core.Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, args, err := sq.Insert("snapshots").
		Columns(
			"taken_at_unix", "phase", "collections", "minor_collections",
			"full_collections", "allocations", "deallocations",
			"bytes_allocated", "bytes_freed", "total_collection_time_ns",
			"peak_usage",
		).
		Values(
			takenAt.Unix(), phase.String(), stats.Collections, stats.MinorCollections,
			stats.FullCollections, stats.Allocations, stats.Deallocations,
			stats.BytesAllocated, stats.BytesFreed, stats.TotalCollectionTime.Nanoseconds(),
			stats.PeakUsage,
		).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return fmt.Errorf("snapshot: build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("snapshot: insert: %w", err)
	}
	return nil
}

// Recent returns the n most recently recorded snapshots, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Snapshot, error) {
	q, args, err := sq.Select("*").
		From("snapshots").
		OrderBy("taken_at_unix DESC").
		Limit(uint64(n)).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("snapshot: build select: %w", err)
	}

	var rows []Snapshot
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("snapshot: select: %w", err)
	}
	return rows, nil
}

// Prune deletes all snapshots older than cutoff, for hosts that record
// on a tight interval and don't want the table growing unbounded.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, args, err := sq.Delete("snapshots").
		Where(sq.Lt{"taken_at_unix": cutoff.Unix()}).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("snapshot: build delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("snapshot: delete: %w", err)
	}
	return res.RowsAffected()
}
