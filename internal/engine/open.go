package engine

import (
	"errors"
	"fmt"

	"github.com/danielpatrickdp/agit/internal/history"
	"github.com/danielpatrickdp/agit/internal/state"
	"github.com/danielpatrickdp/agit/internal/update"
	"go.uber.org/zap"
)

// #region open

// Open builds a context backed by store. The store's active weight version
// and history mirror are restored; an uninitialized store is seeded with the
// default weights. A nil store falls back to the JSON state file, if any.
func Open(config Config, store *state.Store, logger *zap.Logger) (*Context, error) {
	if store == nil {
		return openFromFile(config, logger)
	}

	c := New(config, store, logger)

	cur, err := store.GetCurrent()
	if errors.Is(err, state.ErrNotInitialized) {
		cur, err = store.CreateInitialWeights(update.DefaultWeights())
	}
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}

	entries, err := store.LoadHistory()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if err := c.Restore(cur.VersionID, cur.Weights, entries); err != nil {
		return nil, err
	}
	return c, nil
}

func openFromFile(config Config, logger *zap.Logger) (*Context, error) {
	c := New(config, nil, logger)
	if config.StateFile == "" {
		return c, nil
	}
	snap, err := history.Load(config.StateFile)
	if err != nil {
		return nil, fmt.Errorf("load state file: %w", err)
	}
	if err := c.Restore("", snap.Weights, snap.History); err != nil {
		return nil, err
	}
	return c, nil
}

// #endregion open
