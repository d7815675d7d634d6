package library

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songbook/internal/catalog"
	"songbook/internal/config"
	"songbook/internal/logging"
	"songbook/internal/notation"
	"songbook/internal/search"
	"songbook/internal/songcode"
	"songbook/internal/testsupport"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return testsupport.NewConfig(t, testsupport.WithSampleSheets())
}

func openLibrary(t *testing.T, cfg *config.Config) *Library {
	t.Helper()
	lib, err := Open(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close() })
	return lib
}

func TestCheckCombinesCatalogVocabularyAndHistory(t *testing.T) {
	lib := openLibrary(t, testConfig(t))
	snap, err := lib.Snapshot()
	require.NoError(t, err)

	report, err := snap.Check("h01", true)
	require.NoError(t, err)
	assert.Equal(t, "H-1", report.Code)
	assert.Equal(t, "Grace", report.Entry.Title)
	assert.True(t, report.Known)
	require.NotNil(t, report.LastSung)
	assert.Equal(t, time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC), *report.LastSung)
	assert.Len(t, report.Dates, 2)
	require.Len(t, report.Tunes, 1)
	assert.Equal(t, "New Britain", report.Tunes[0].TuneName)

	report, err = snap.Check("H-3", false)
	require.NoError(t, err)
	assert.False(t, report.Known)
	assert.Nil(t, report.LastSung)
	assert.Empty(t, report.Dates)

	_, err = snap.Check("H-9", false)
	assert.ErrorIs(t, err, catalog.ErrOutOfRange)

	_, err = snap.Check("X-1", false)
	assert.Error(t, err)
}

func TestSnapshotSearchAndVocabulary(t *testing.T) {
	lib := openLibrary(t, testConfig(t))
	snap, err := lib.Snapshot()
	require.NoError(t, err)

	results, err := snap.Search("great faithfulness", "lyric", 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, 2, results[0].Number)

	_, err = snap.Search("grace", "psalm", 3)
	assert.ErrorIs(t, err, search.ErrUnknownCategory)

	vocab := snap.Vocabulary()
	assert.Equal(t, []int{1}, vocab.For(songcode.Hymn).Numbers())
	assert.Equal(t, []int{1, 2}, vocab.For(songcode.Lyric).Numbers())
	assert.True(t, snap.IsKnown(songcode.MustParse("C-1")))
	assert.Equal(t, "H-012", snap.Normalize(" h 012 "))
}

func TestResolveAndLink(t *testing.T) {
	lib := openLibrary(t, testConfig(t))
	snap, err := lib.Snapshot()
	require.NoError(t, err)

	res, err := snap.ResolvePage("new  britain", 1)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Page)
	assert.Equal(t, notation.SourceDirect, res.Source)

	res, err = snap.ResolvePage("Nicaea", 2)
	require.NoError(t, err)
	assert.Equal(t, 40, res.Page)
	assert.Equal(t, notation.SourceProbable, res.Source)

	link, err := snap.PageToLink(res.Page)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/songbook/notation-1-500.pdf#page=40", link)

	_, err = snap.ResolvePage("Unknown", 10)
	assert.ErrorIs(t, err, notation.ErrNotationUnresolved)
}

func TestConfirmPersistsAcrossRefreshAndReopen(t *testing.T) {
	cfg := testConfig(t)
	lib := openLibrary(t, cfg)
	snap, err := lib.Snapshot()
	require.NoError(t, err)
	ctx := context.Background()

	res, err := snap.ResolvePage("Nicaea", 2)
	require.NoError(t, err)
	row, err := lib.ConfirmPage(ctx, "Nicaea", 2, 41, res)
	require.NoError(t, err)
	assert.Equal(t, 41, row.ProbableResult)

	res, err = snap.ResolvePage("Nicaea", 2)
	require.NoError(t, err)
	assert.Equal(t, notation.SourceConfirmed, res.Source)
	assert.Equal(t, 41, res.Page)

	row, err = lib.ConfirmPage(ctx, "Nicaea", 2, 41, res)
	require.NoError(t, err)
	assert.Equal(t, 41, row.Pages[0])

	refreshed, err := lib.Refresh(ctx)
	require.NoError(t, err)
	res, err = refreshed.ResolvePage("nicaea", 2)
	require.NoError(t, err)
	assert.Equal(t, notation.SourceDirect, res.Source)
	assert.Equal(t, 41, res.Page)

	require.NoError(t, lib.Close())
	reopened := openLibrary(t, cfg)
	snap, err = reopened.Snapshot()
	require.NoError(t, err)
	res, err = snap.ResolvePage("Nicaea", 2)
	require.NoError(t, err)
	assert.Equal(t, 41, res.Page)
	assert.Equal(t, 3, snap.Tunes().Len())
}

func TestConfirmWaitingOnRefreshLandsInPublishedSnapshot(t *testing.T) {
	lib := openLibrary(t, testConfig(t))
	ctx := context.Background()
	stale, err := lib.Snapshot()
	require.NoError(t, err)
	res, err := stale.ResolvePage("Nicaea", 2)
	require.NoError(t, err)

	data, err := lib.loader.Load(ctx)
	require.NoError(t, err)
	tunes, err := lib.store.All(ctx)
	require.NoError(t, err)
	published, err := NewSnapshot(lib.cfg, data, tunes, nil)
	require.NoError(t, err)

	// Hold the lock the way Refresh does while the confirmation queues up.
	lib.mu.Lock()
	done := make(chan error, 1)
	go func() {
		_, err := lib.ConfirmPage(ctx, "Nicaea", 2, 41, res)
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	lib.current.Store(published)
	lib.mu.Unlock()

	require.NoError(t, <-done)
	current, err := lib.Snapshot()
	require.NoError(t, err)
	require.Same(t, published, current)
	res, err = current.ResolvePage("Nicaea", 2)
	require.NoError(t, err)
	assert.Equal(t, notation.SourceConfirmed, res.Source)
	assert.Equal(t, 41, res.Page)
}

func TestConfirmRejectsPagePastLastVolume(t *testing.T) {
	lib := openLibrary(t, testConfig(t))
	_, err := lib.ConfirmPage(context.Background(), "Eventide", 3, notation.LastPage+1, notation.Resolution{})
	assert.ErrorIs(t, err, notation.ErrPageOutOfRange)
}

func TestRefreshSwapsSnapshot(t *testing.T) {
	cfg := testConfig(t)
	lib := openLibrary(t, cfg)
	before, err := lib.Snapshot()
	require.NoError(t, err)

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.DataDir, "lyrics.csv"), "No,Text\n"+
		"1,Blessed assurance Jesus is mine\n"+
		"2,Great is thy faithfulness\n"+
		"3,How great thou art\n")
	after, err := lib.Refresh(context.Background())
	require.NoError(t, err)

	current, err := lib.Snapshot()
	require.NoError(t, err)
	assert.Same(t, after, current)
	assert.NotEqual(t, before.ID(), after.ID())
	assert.Equal(t, 2, before.Catalog(songcode.Lyric).Len())
	assert.Equal(t, 3, after.Catalog(songcode.Lyric).Len())

	_, err = before.Lookup(songcode.MustParse("L-3"))
	assert.ErrorIs(t, err, catalog.ErrOutOfRange)
	entry, err := after.Lookup(songcode.MustParse("L-3"))
	require.NoError(t, err)
	assert.Equal(t, "How great thou art", entry.Text)
}

func TestRefreshPicksUpNewTuneSeedRows(t *testing.T) {
	cfg := testConfig(t)
	lib := openLibrary(t, cfg)

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.DataDir, "tunes.csv"), "Hymn No,Tune Name,Page No,Probable Result\n"+
		"1,New Britain,99,\n"+
		"2,Nicaea,44,\n"+
		"3,Eventide,640,\n")
	snap, err := lib.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Tunes().Len())

	res, err := snap.ResolvePage("Nicaea", 2)
	require.NoError(t, err)
	assert.Equal(t, notation.SourceDirect, res.Source)
	assert.Equal(t, 44, res.Page)

	res, err = snap.ResolvePage("New Britain", 1)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Page, "existing rows keep their stored page")
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	cfg := testConfig(t)
	lib := openLibrary(t, cfg)
	before, err := lib.Snapshot()
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(cfg.Paths.DataDir, "lyrics.csv")))
	_, err = lib.Refresh(context.Background())
	require.Error(t, err)

	current, err := lib.Snapshot()
	require.NoError(t, err)
	assert.Same(t, before, current)
}

func TestConcurrentReadsDuringRefresh(t *testing.T) {
	lib := openLibrary(t, testConfig(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				snap, err := lib.Snapshot()
				if !assert.NoError(t, err) {
					return
				}
				_, err = snap.Check("H-1", false)
				assert.NoError(t, err)
			}
		}()
	}
	for i := 0; i < 3; i++ {
		_, err := lib.Refresh(ctx)
		require.NoError(t, err)
	}
	wg.Wait()
}

func TestSnapshotBeforeLoad(t *testing.T) {
	var lib Library
	_, err := lib.Snapshot()
	assert.ErrorIs(t, err, ErrNotLoaded)
}
