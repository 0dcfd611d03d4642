package state

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielpatrickdp/agit/internal/history"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetCurrentBeforeInit(t *testing.T) {
	s := tempDB(t)

	_, err := s.GetCurrent()
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestCreateInitialWeights(t *testing.T) {
	s := tempDB(t)

	rec, err := s.CreateInitialWeights([]float64{0.33, 0.33, 0.34})
	if err != nil {
		t.Fatalf("CreateInitialWeights: %v", err)
	}
	if rec.VersionID == "" {
		t.Fatal("expected version id")
	}
	if rec.ParentID != "" {
		t.Fatalf("initial version should have no parent, got %q", rec.ParentID)
	}

	cur, err := s.GetCurrent()
	if err != nil {
		t.Fatalf("GetCurrent: %v", err)
	}
	if cur.VersionID != rec.VersionID {
		t.Fatalf("active = %s, want %s", cur.VersionID, rec.VersionID)
	}
	if len(cur.Weights) != 3 || cur.Weights[2] != 0.34 {
		t.Fatalf("weights did not round-trip: %v", cur.Weights)
	}
}

func TestSaveWeightsChainsParent(t *testing.T) {
	s := tempDB(t)

	first, err := s.SaveWeights([]float64{0.33, 0.33, 0.34}, "")
	if err != nil {
		t.Fatalf("SaveWeights first: %v", err)
	}
	second, err := s.SaveWeights([]float64{0.4, 0.3, 0.3}, `{"delta_norm":0.1}`)
	if err != nil {
		t.Fatalf("SaveWeights second: %v", err)
	}

	rec, err := s.GetVersion(second)
	if err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
	if rec.ParentID != first {
		t.Fatalf("parent = %s, want %s", rec.ParentID, first)
	}
	if rec.MetricsJSON != `{"delta_norm":0.1}` {
		t.Fatalf("metrics json = %q", rec.MetricsJSON)
	}

	cur, _ := s.GetCurrent()
	if cur.VersionID != second {
		t.Fatalf("active = %s, want %s", cur.VersionID, second)
	}
}

func TestCommitWeightsRejectsEmptyID(t *testing.T) {
	s := tempDB(t)

	if err := s.CommitWeights(WeightRecord{Weights: []float64{1}}); err == nil {
		t.Fatal("expected error for empty version id")
	}
}

func TestRollback(t *testing.T) {
	s := tempDB(t)

	first, _ := s.SaveWeights([]float64{0.33, 0.33, 0.34}, "")
	_, _ = s.SaveWeights([]float64{0.5, 0.25, 0.25}, "")

	if err := s.Rollback(first); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	cur, err := s.GetCurrent()
	if err != nil {
		t.Fatalf("GetCurrent: %v", err)
	}
	if cur.VersionID != first {
		t.Fatalf("active = %s, want %s after rollback", cur.VersionID, first)
	}
}

func TestRollbackUnknownVersion(t *testing.T) {
	s := tempDB(t)

	if err := s.Rollback("missing"); err == nil {
		t.Fatal("expected error rolling back to unknown version")
	}
}

func TestListVersionsNewestFirst(t *testing.T) {
	s := tempDB(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := s.SaveWeights([]float64{0.33, 0.33, 0.34}, "")
		if err != nil {
			t.Fatalf("SaveWeights %d: %v", i, err)
		}
		ids = append(ids, id)
	}

	list, err := s.ListVersions(2)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(list))
	}
	if list[0].VersionID != ids[2] || list[1].VersionID != ids[1] {
		t.Fatalf("unexpected order: %s, %s", list[0].VersionID, list[1].VersionID)
	}
}

func TestListVersionsWithProvenance(t *testing.T) {
	s := tempDB(t)

	id, _ := s.SaveWeights([]float64{0.33, 0.33, 0.34}, "")
	_, err := s.DB().Exec(
		`INSERT INTO provenance_log (version_id, trigger_type, decision, reason, created_at)
		 VALUES (?, 'feedback', 'commit', 'weights moved', ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("insert provenance: %v", err)
	}
	_, _ = s.SaveWeights([]float64{0.4, 0.3, 0.3}, "")

	list, err := s.ListVersionsWithProvenance(10)
	if err != nil {
		t.Fatalf("ListVersionsWithProvenance: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(list))
	}
	if list[0].Decision != "" {
		t.Fatalf("newest version has no provenance, got %q", list[0].Decision)
	}
	if list[1].Decision != "commit" || list[1].Reason != "weights moved" {
		t.Fatalf("unexpected provenance: %+v", list[1])
	}
}

func TestHistoryMirror(t *testing.T) {
	s := tempDB(t)

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := s.AppendHistory(history.Entry{Timestamp: ts, Fitness: 0.8, FileCount: 2, Message: "first"}); err != nil {
		t.Fatalf("AppendHistory: %v", err)
	}

	entries, err := s.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if !e.Timestamp.Equal(ts) || e.Fitness != 0.8 || e.FileCount != 2 || e.Message != "first" {
		t.Fatalf("entry did not round-trip: %+v", e)
	}
}

func TestHistoryMirrorTrimsToCapacity(t *testing.T) {
	s := tempDB(t)

	for i := 0; i < history.Capacity+5; i++ {
		if err := s.AppendHistory(history.Entry{Fitness: float64(i), FileCount: i, Message: "m"}); err != nil {
			t.Fatalf("AppendHistory %d: %v", i, err)
		}
	}

	entries, err := s.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(entries) != history.Capacity {
		t.Fatalf("expected %d entries, got %d", history.Capacity, len(entries))
	}
	if entries[0].FileCount != 5 {
		t.Fatalf("oldest surviving entry = %d, want 5", entries[0].FileCount)
	}
}

func TestWeightEncodingRoundTrip(t *testing.T) {
	in := []float64{0.1, -0.25, 1e-9}
	out := decodeWeights(encodeWeights(in))
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("index %d: %v != %v", i, out[i], in[i])
		}
	}
}
