package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultFile is where state lives relative to the repository root.
const DefaultFile = ".git/fitness_state.json"

// #region snapshot

// Snapshot is the on-disk learning state: attention weights plus history.
type Snapshot struct {
	Weights []float64 `json:"weights,omitempty"`
	History []Entry   `json:"history"`
}

// Save writes snap to path through a temporary file and rename, so a failed
// write leaves any previous file intact. Only the newest Capacity entries
// are written.
func Save(path string, snap Snapshot) error {
	if len(snap.History) > Capacity {
		snap.History = snap.History[len(snap.History)-Capacity:]
	}
	if snap.History == nil {
		snap.History = []Entry{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fitness_state-*")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// Load reads a snapshot. A missing file yields an empty snapshot.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read state: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse state %s: %w", path, err)
	}
	return snap, nil
}

// #endregion snapshot

// #region timestamp

// timestampLayouts are tried in order; older state files carry naive
// timestamps without a zone, which are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON accepts any ISO-8601 timestamp layout found in state files.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	var raw struct {
		plain
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Entry(raw.plain)
	if raw.Timestamp == "" {
		return nil
	}
	ts, err := parseTimestamp(raw.Timestamp)
	if err != nil {
		return err
	}
	e.Timestamp = ts
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: unrecognized layout", s)
}

// #endregion timestamp
