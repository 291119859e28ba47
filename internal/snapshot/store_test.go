package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scriptrt/ccjs/internal/core"
)

func TestRecordAndRecent(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "snapshots.db"))
	require.NoError(t, err)
	defer store.Close()

	base := time.Unix(1_700_000_000, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		stats := core.Stats{
			MinorCollections: i + 1,
			BytesAllocated:   int64((i + 1) * 100),
			PeakUsage:        int64((i + 1) * 10),
		}
		require.NoError(t, store.Record(ctx, base.Add(time.Duration(i)*time.Second), stats, core.PhaseIdle))
	}

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, 3, recent[0].MinorCollections)
	require.Equal(t, 2, recent[1].MinorCollections)
}

func TestPruneDeletesOlderRows(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "snapshots.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	old := time.Unix(1_000_000_000, 0)
	recent := time.Unix(1_900_000_000, 0)

	require.NoError(t, store.Record(ctx, old, core.Stats{}, core.PhaseIdle))
	require.NoError(t, store.Record(ctx, recent, core.Stats{}, core.PhaseIdle))

	n, err := store.Prune(ctx, time.Unix(1_500_000_000, 0))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	rows, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
