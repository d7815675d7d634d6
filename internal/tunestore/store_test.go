package tunestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songbook/internal/notation"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "tunes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSeedInsertsOnlyMissingRows(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	seed := []notation.TuneRef{
		{HymnNumber: 2, TuneName: "Hanover", Pages: []int{12}},
		{HymnNumber: 1, TuneName: "Old Hundredth", Pages: []int{3, 4}, ProbableResult: 5},
		{HymnNumber: 0, TuneName: "ignored"},
	}
	n, err := store.Seed(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, store.Save(ctx, notation.TuneRef{HymnNumber: 2, TuneName: "Hanover", Pages: []int{99}}))

	n, err = store.Seed(ctx, append(seed, notation.TuneRef{HymnNumber: 9, TuneName: "Late", Pages: []int{300}}))
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only the new seed row is written")

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].HymnNumber)
	assert.Equal(t, []int{3, 4}, all[0].Pages)
	assert.Equal(t, 5, all[0].ProbableResult)
	assert.Equal(t, "Hanover", all[1].TuneName)
	assert.Equal(t, []int{99}, all[1].Pages, "seeding must not overwrite a confirmed page")
	assert.Equal(t, "Late", all[2].TuneName)
}

func TestSaveUpsertsByHymnAndTuneKey(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Save(ctx, notation.TuneRef{HymnNumber: 7, TuneName: "St Anne", Pages: []int{70}}))
	require.NoError(t, store.Save(ctx, notation.TuneRef{HymnNumber: 7, TuneName: "st  anne", Pages: []int{71, 70}, ProbableResult: 72}))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, []int{71, 70}, all[0].Pages)
	assert.Equal(t, 72, all[0].ProbableResult)
}

func TestReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tunes.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, notation.TuneRef{HymnNumber: 3, TuneName: "Duke Street"}))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Duke Street", all[0].TuneName)
	assert.Empty(t, all[0].Pages)
}

func TestSaveFailsWhileLockHeld(t *testing.T) {
	store := openTestStore(t)

	other := flock.New(store.Path() + ".lock")
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { _ = other.Unlock() }()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	err = store.Save(ctx, notation.TuneRef{HymnNumber: 1, TuneName: "Blocked"})
	require.ErrorIs(t, err, ErrLocked)
}
