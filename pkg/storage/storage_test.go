package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "gcpath.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLatestSnapshotEmpty(t *testing.T) {
	db := openTemp(t)
	_, err := db.LatestSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)

	stats, err := db.GetStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Snapshots)
	assert.Empty(t, stats.LatestID)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()
	snap := snapshot.Default()

	rec, changes, err := db.SaveSnapshot(ctx, snap, time.Date(2024, 10, 3, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, changes, "first snapshot has nothing to compare against")
	assert.Len(t, rec.ID, 36)

	got, err := db.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, snap.AsOf, got.AsOf)
	assert.Equal(t, snap.Bulletin, got.Snapshot.Bulletin)
	assert.Equal(t, snap.DOL, got.Snapshot.DOL)
	assert.Equal(t, snap.USCIS, got.Snapshot.USCIS)
	assert.Equal(t, snap.Fees, got.Snapshot.Fees)
	assert.Equal(t, time.Date(2024, 10, 3, 12, 0, 0, 0, time.UTC), got.FetchedAt)
}

func TestSaveLogsCutoffMovement(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()
	first := snapshot.Default()
	_, _, err := db.SaveSnapshot(ctx, first, time.Date(2024, 10, 3, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	next := first.Clone()
	row := next.Bulletin.FinalAction[bulletin.EB2]
	row.India = "Mar 2013"
	next.Bulletin.FinalAction[bulletin.EB2] = row
	next.DOL.PERM = "Jan 2023"

	rec, changes, err := db.SaveSnapshot(ctx, next, time.Date(2024, 11, 3, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, string(bulletin.FinalAction), changes[0].Chart)
	assert.Equal(t, "EB-2", changes[0].Category)
	assert.Equal(t, "india", changes[0].Chargeability)
	assert.Equal(t, "Mar 2013", changes[0].New)
	assert.Equal(t, ChartDOL, changes[1].Chart)
	assert.Equal(t, "Jan 2023", changes[1].New)

	logged, err := db.ListRecentChanges(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, logged, 2)
	assert.Equal(t, time.Date(2024, 11, 3, 12, 0, 0, 0, time.UTC), logged[0].OccurredAt)

	latest, err := db.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, latest.ID)
	assert.Equal(t, "Mar 2013", latest.Snapshot.Cutoff(bulletin.FinalAction, bulletin.EB2, bulletin.India))

	stats, err := db.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Snapshots)
	assert.Equal(t, 2, stats.Changes)
	assert.Equal(t, rec.ID, stats.LatestID)
	assert.True(t, stats.OldestFetch.Before(stats.LatestFetch))
}

func TestDiffIgnoresMissingCells(t *testing.T) {
	prev := snapshot.Default()
	cur := &snapshot.Snapshot{}
	assert.Empty(t, Diff(prev, cur, time.Now()))

	cur.Bulletin.FinalAction = bulletin.Chart{bulletin.EB1: {AllOther: bulletin.Current}}
	got := Diff(nil, cur, time.Now())
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Old)
}

func TestListRecentChangesLimit(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()
	base := snapshot.Default()
	_, _, err := db.SaveSnapshot(ctx, base, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	next := base.Clone()
	next.DOL.PERM = "Feb 2023"
	next.DOL.PrevailingWage = "Apr 2024"
	_, _, err = db.SaveSnapshot(ctx, next, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	got, err := db.ListRecentChanges(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
