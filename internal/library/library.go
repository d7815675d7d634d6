package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"songbook/internal/config"
	"songbook/internal/dataset"
	"songbook/internal/logging"
	"songbook/internal/notation"
	"songbook/internal/tunestore"
)

// ErrNotLoaded reports a query before the first successful Refresh.
var ErrNotLoaded = errors.New("library not loaded")

// Library owns the current Snapshot and the persistent tune store.
type Library struct {
	cfg    *config.Config
	loader *dataset.Loader
	store  *tunestore.Store
	logger *slog.Logger

	current atomic.Pointer[Snapshot]
	// mu orders confirmations against the store read in Refresh.
	mu sync.Mutex
}

// Open connects the tune store and builds the first snapshot.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Library, error) {
	if cfg == nil {
		return nil, errors.New("library: config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	store, err := tunestore.Open(ctx, cfg.TunesDatabasePath())
	if err != nil {
		return nil, err
	}
	lib := &Library{
		cfg:    cfg,
		loader: dataset.NewLoader(cfg, logger),
		store:  store,
		logger: logging.NewComponentLogger(logger, "library"),
	}
	if _, err := lib.Refresh(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return lib, nil
}

// Close releases the tune store.
func (l *Library) Close() error {
	if l == nil {
		return nil
	}
	return l.store.Close()
}

// Snapshot returns the current snapshot. Callers keep using the returned value
// even if a Refresh swaps in a newer one.
func (l *Library) Snapshot() (*Snapshot, error) {
	snap := l.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Refresh reloads every sheet and swaps in a new snapshot. On failure the
// previous snapshot stays current.
func (l *Library) Refresh(ctx context.Context) (*Snapshot, error) {
	logger := logging.WithContext(ctx, l.logger)
	started := time.Now()

	data, err := l.loader.Load(ctx)
	if err != nil {
		logging.ErrorWithContext(logger, "refresh failed", "refresh_load_failed", logging.Error(err))
		return nil, fmt.Errorf("load data: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	seeded, err := l.store.Seed(ctx, data.Tunes)
	if err != nil {
		return nil, fmt.Errorf("seed tune store: %w", err)
	}
	if seeded > 0 {
		logger.Info("tune store seeded", logging.Int("rows", seeded))
	}
	tunes, err := l.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read tune store: %w", err)
	}

	snap, err := NewSnapshot(l.cfg, data, tunes, logger)
	if err != nil {
		return nil, err
	}
	previous := l.current.Swap(snap)

	attrs := []logging.Attr{
		logging.String(logging.FieldSnapshotID, snap.ID()),
		logging.Duration("elapsed", time.Since(started)),
	}
	if previous != nil {
		attrs = append(attrs, logging.String("previous_snapshot", previous.ID()))
	}
	logger.Info("library refreshed", logging.Args(attrs...)...)
	return snap, nil
}

// ConfirmPage records page as the notation page for tune on hymn, following
// the provenance of the resolution the user saw, and persists the row.
func (l *Library) ConfirmPage(ctx context.Context, tune string, hymn, page int, res notation.Resolution) (notation.TuneRef, error) {
	logger := logging.WithContext(ctx, l.logger)

	// Load under mu: the snapshot must be the one the last Refresh published.
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.Snapshot()
	if err != nil {
		return notation.TuneRef{}, err
	}
	row, changed, err := snap.resolver.Confirm(tune, hymn, page, res)
	if err != nil {
		return notation.TuneRef{}, err
	}
	if !changed {
		logger.Debug("confirmation already recorded",
			logging.Int("hymn", hymn),
			logging.String("tune", row.TuneName),
			logging.Int("page", page),
		)
		return row, nil
	}
	if err := l.store.Save(ctx, row); err != nil {
		logging.ErrorWithContext(logger, "persist confirmation failed", "tune_store_save_failed",
			logging.Error(err),
			logging.Int("hymn", hymn),
			logging.String(logging.FieldImpact, "confirmation is lost on the next refresh"),
		)
		return row, fmt.Errorf("save confirmation: %w", err)
	}
	logger.Debug("confirmation persisted",
		logging.Int("hymn", hymn),
		logging.String("tune", row.TuneName),
		logging.String("store", l.store.Path()),
	)
	return row, nil
}
