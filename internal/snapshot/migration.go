package snapshot

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
	id                       INTEGER PRIMARY KEY AUTOINCREMENT,
	taken_at_unix            INTEGER NOT NULL,
	phase                    TEXT NOT NULL,
	collections              INTEGER NOT NULL,
	minor_collections        INTEGER NOT NULL,
	full_collections         INTEGER NOT NULL,
	allocations              INTEGER NOT NULL,
	deallocations            INTEGER NOT NULL,
	bytes_allocated          INTEGER NOT NULL,
	bytes_freed              INTEGER NOT NULL,
	total_collection_time_ns INTEGER NOT NULL,
	peak_usage               INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots (taken_at_unix);
`

// migrate creates the snapshots table if it doesn't already exist. The
// schema is small and single-table enough that a migration framework
// would add more ceremony than it removes; unlike the teacher's
// multi-table, multi-version job schema, there is no prior version of
// this table to migrate from.
func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}
