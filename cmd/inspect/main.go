package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/agit/internal/fusion"
	"github.com/danielpatrickdp/agit/internal/logging"
	"github.com/danielpatrickdp/agit/internal/state"
	"github.com/danielpatrickdp/agit/internal/update"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to agit.db")
	last := flag.Int("last", 20, "show N most recent weight versions")
	version := flag.String("version", "", "show single version detail")
	showHistory := flag.Bool("history", false, "show the decision history instead of versions")
	showDecisions := flag.Bool("decisions", false, "show logged gate decisions instead of versions")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/agit.db [--last N] [--version id] [--history] [--decisions] [--json]")
		os.Exit(2)
	}

	store, err := state.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *version != "":
		err = runDetailMode(store, *version, *jsonOut)
	case *showHistory:
		err = runHistoryMode(store, *jsonOut)
	case *showDecisions:
		err = runDecisionsMode(store, *last, *jsonOut)
	default:
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	VersionID string             `json:"version_id"`
	ParentID  string             `json:"parent_id,omitempty"`
	Weights   map[string]float64 `json:"weights"`
	DeltaNorm *float64           `json:"delta_norm,omitempty"`
	Decision  string             `json:"decision"`
	Reason    string             `json:"reason,omitempty"`
	Active    bool               `json:"active"`
	CreatedAt string             `json:"created_at"`
}

func runListMode(store *state.Store, last int, jsonOut bool) error {
	versions, err := store.ListVersionsWithProvenance(last)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Fprintln(os.Stderr, "no versions found")
		return nil
	}
	current, err := store.GetCurrent()
	if err != nil {
		return err
	}

	// Store returns DESC, reverse for chronological
	rows := make([]listRow, len(versions))
	for i, vp := range versions {
		lr := listRow{
			VersionID: vp.VersionID,
			ParentID:  vp.ParentID,
			Weights:   namedWeights(vp.Weights),
			Decision:  vp.Decision,
			Reason:    vp.Reason,
			Active:    vp.VersionID == current.VersionID,
			CreatedAt: vp.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if m := parseMetrics(vp.MetricsJSON); m != nil {
			lr.DeltaNorm = &m.DeltaNorm
		}
		rows[len(versions)-1-i] = lr
	}

	if jsonOut {
		return printJSON(rows)
	}

	names := expertNames()
	fmt.Printf("%-10s  %-1s", "Version", "")
	for _, n := range names {
		fmt.Printf("  %9s", n)
	}
	fmt.Printf("  %8s  %-8s  %s\n", "Delta", "Decision", "Time")
	for _, r := range rows {
		mark := " "
		if r.Active {
			mark = "*"
		}
		fmt.Printf("%-10s  %s", shortID(r.VersionID), mark)
		for _, n := range names {
			fmt.Printf("  %9.4f", r.Weights[n])
		}
		delta := "-"
		if r.DeltaNorm != nil {
			delta = fmt.Sprintf("%.4f", *r.DeltaNorm)
		}
		decision := r.Decision
		if decision == "" {
			decision = "-"
		}
		fmt.Printf("  %8s  %-8s  %s\n", delta, decision, r.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	VersionID string             `json:"version_id"`
	ParentID  string             `json:"parent_id"`
	CreatedAt string             `json:"created_at"`
	Weights   map[string]float64 `json:"weights"`
	Metrics   *update.Metrics    `json:"metrics,omitempty"`
}

func runDetailMode(store *state.Store, versionID string, jsonOut bool) error {
	rec, err := store.GetVersion(versionID)
	if err != nil {
		return err
	}
	out := detailOutput{
		VersionID: rec.VersionID,
		ParentID:  rec.ParentID,
		CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		Weights:   namedWeights(rec.Weights),
		Metrics:   parseMetrics(rec.MetricsJSON),
	}
	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("Version:  %s\n", out.VersionID)
	fmt.Printf("Parent:   %s\n", out.ParentID)
	fmt.Printf("Created:  %s\n", out.CreatedAt)
	fmt.Printf("\nWeights:\n")
	for _, n := range expertNames() {
		fmt.Printf("  %-10s %.4f\n", n, out.Weights[n])
	}
	if out.Metrics != nil {
		fmt.Printf("\nMetrics:\n")
		fmt.Printf("  Delta Norm:  %.6f\n", out.Metrics.DeltaNorm)
		fmt.Printf("  Sum:         %.6f\n", out.Metrics.Sum)
		fmt.Printf("  Min Weight:  %.6f\n", out.Metrics.MinWeight)
	}
	return nil
}

// #endregion detail-mode

// #region history-mode

func runHistoryMode(store *state.Store, jsonOut bool) error {
	entries, err := store.LoadHistory()
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "history is empty")
		return nil
	}
	fmt.Printf("%-20s  %7s  %5s  %s\n", "Time", "Fitness", "Files", "Message")
	for _, e := range entries {
		fmt.Printf("%-20s  %7.4f  %5d  %s\n",
			e.Timestamp.Format("2006-01-02T15:04:05Z"), e.Fitness, e.FileCount, e.Message)
	}
	return nil
}

// #endregion history-mode

// #region decisions-mode

func runDecisionsMode(store *state.Store, last int, jsonOut bool) error {
	records, err := logging.LoadRecords(store.DB())
	if err != nil {
		return err
	}
	if last > 0 && len(records) > last {
		records = records[len(records)-last:]
	}
	if jsonOut {
		return printJSON(records)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no decisions logged")
		return nil
	}
	fmt.Printf("%-10s  %-8s  %7s  %5s  %-4s  %-8s  %s\n", "Turn", "Mode", "Score", "Files", "Topo", "Action", "Reason")
	for _, r := range records {
		action := r.GateAction
		if r.GateVetoed {
			action += "!"
		}
		fmt.Printf("%-10s  %-8s  %7.4f  %5d  %-4s  %-8s  %s\n",
			shortID(r.TurnID), r.Mode, r.Score, r.FileCount, r.Topology, action, r.GateReason)
	}
	return nil
}

// #endregion decisions-mode

// #region output

func expertNames() []string {
	experts := fusion.New().Experts()
	names := make([]string, len(experts))
	for i, ex := range experts {
		names[i] = ex.Name()
	}
	return names
}

func namedWeights(w []float64) map[string]float64 {
	names := expertNames()
	out := make(map[string]float64, len(w))
	for i, v := range w {
		name := fmt.Sprintf("w%d", i)
		if i < len(names) {
			name = names[i]
		}
		out[name] = v
	}
	return out
}

func parseMetrics(metricsJSON string) *update.Metrics {
	if metricsJSON == "" {
		return nil
	}
	var m update.Metrics
	if err := json.Unmarshal([]byte(metricsJSON), &m); err != nil {
		return nil
	}
	return &m
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
