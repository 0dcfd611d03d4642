package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/agit/internal/gate"
	"github.com/danielpatrickdp/agit/internal/logging"
	"github.com/danielpatrickdp/agit/internal/replay"
	"github.com/danielpatrickdp/agit/internal/state"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to agit.db (drift mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	vetoOnSplit := flag.Bool("veto-split", gate.DefaultConfig().VetoOnAnalyzerSplit,
		"treat an analyzer split verdict as a hard veto when recomputing (drift mode)")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/agit.db [--veto-split=false]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath, *vetoOnSplit)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region db-mode

// runDBMode recomputes every logged gate decision and reports drift.
func runDBMode(dbPath string, vetoOnSplit bool) int {
	store, err := state.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer store.Close()

	records, err := logging.LoadRecords(store.DB())
	if err != nil {
		fmt.Fprintf(os.Stderr, "load decisions: %v\n", err)
		return 2
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no evaluate entries found in provenance_log")
		return 2
	}

	drifts, err := replay.DetectDrift(records, vetoOnSplit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recompute: %v\n", err)
		return 2
	}

	for _, d := range drifts {
		fmt.Println(d)
	}
	fmt.Printf("\nSummary: %d total, %d match, %d drift\n", len(records), len(records)-len(drifts), len(drifts))
	if len(drifts) > 0 {
		return 1
	}
	return 0
}

// #endregion db-mode

// #region fixture-mode

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	results, _, err := replay.RunFixture(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	expected := make([]string, len(f.ExpectedResults))
	for i, e := range f.ExpectedResults {
		expected[i] = e.Action
	}
	code := printComparison(results, expected)

	s := replay.Summarize(results)
	fmt.Printf("Weights:  %v (%d updates, %d rejected)\n", s.FinalWeights, s.WeightUpdates, s.FeedbackRejects)
	return code
}

// printComparison outputs a comparison table and returns exit code.
func printComparison(results []replay.Result, expected []string) int {
	fmt.Printf("%-12s| %-9s| %-9s| %-6s| %s\n", "Turn", "Expected", "Replayed", "Topo", "Match")
	fmt.Printf("%-12s+%-10s+%-10s+%-7s+%s\n",
		"------------", "----------", "----------", "-------", "------")

	matches := 0
	total := min(len(results), len(expected))
	for i := 0; i < total; i++ {
		r := results[i]
		match := "DIFF"
		if r.Action == expected[i] {
			match = "OK"
			matches++
		}
		fmt.Printf("%-12s| %-9s| %-9s| %-6s| %s\n", r.TurnID, expected[i], r.Action, r.Topology, match)
	}

	diverge := total - matches
	fmt.Printf("\nSummary: %d total, %d match, %d diverge\n", total, matches, diverge)
	if diverge > 0 {
		return 1
	}
	return 0
}

// #endregion fixture-mode
