package replay

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/agit/internal/analyzer"
	"github.com/danielpatrickdp/agit/internal/engine"
	"github.com/danielpatrickdp/agit/internal/fusion"
	"github.com/danielpatrickdp/agit/internal/gate"
	"github.com/danielpatrickdp/agit/internal/logging"
	"github.com/danielpatrickdp/agit/internal/topology"
)

// scoreTolerance absorbs float noise from JSON round trips.
const scoreTolerance = 1e-9

// #region drift-types

// Drift is one logged decision that the current scoring code no longer
// reproduces.
type Drift struct {
	TurnID         string
	LoggedAction   string
	ReplayedAction string
	LoggedScore    float64
	ReplayedScore  float64
	LoggedTopology string
	ReplayTopology string
}

func (d Drift) String() string {
	return fmt.Sprintf("%s: action %s -> %s, score %.4f -> %.4f, topology %s -> %s",
		d.TurnID, d.LoggedAction, d.ReplayedAction,
		d.LoggedScore, d.ReplayedScore, d.LoggedTopology, d.ReplayTopology)
}

// #endregion drift-types

// #region recompute

// Recompute scores a logged decision again with the weights, bonus, mode and
// thresholds captured in the record. vetoOnSplit is not part of the record
// and comes from the caller's config.
func Recompute(rec logging.DecisionRecord, vetoOnSplit bool) (gate.Decision, topology.Topology, error) {
	report := analyzer.New().Analyze(rec.ChangeText)

	score := report.FinalScore
	if rec.Mode == string(engine.ModeFusion) {
		f := fusion.New()
		if len(rec.Weights) > 0 && !f.SetWeights(rec.Weights) {
			return gate.Decision{}, topology.Topology{}, fmt.Errorf("turn %s: %d weights for %d experts",
				rec.TurnID, len(rec.Weights), len(f.Experts()))
		}
		score = fusion.ApplyBonus(f.Braid(rec.ChangeText).Score, rec.Bonus)
	}

	facts := report.Facts
	topo := topology.FromAnalysis(facts.FileCount, facts.LineChanges, facts.HasTests, facts.HasBreaking, score)
	g := gate.NewGate(gate.Config{
		CommitThreshold:     rec.Thresholds.Commit,
		GhostThreshold:      rec.Thresholds.Ghost,
		SplitBytes:          rec.Thresholds.SplitBytes,
		VetoOnAnalyzerSplit: vetoOnSplit,
	})
	d := g.Evaluate(gate.Input{
		Score:            score,
		AnalyzerDecision: report.Decision,
		ChangeText:       rec.ChangeText,
		Topology:         &topo,
	})
	return d, topo, nil
}

// DetectDrift recomputes every record and returns the ones whose action,
// score or topology changed.
func DetectDrift(records []logging.DecisionRecord, vetoOnSplit bool) ([]Drift, error) {
	var drifts []Drift
	for _, rec := range records {
		d, topo, err := Recompute(rec, vetoOnSplit)
		if err != nil {
			return drifts, err
		}
		if d.Action == rec.GateAction &&
			math.Abs(d.Score-rec.Score) <= scoreTolerance &&
			(rec.Topology == "" || topo.String() == rec.Topology) {
			continue
		}
		drifts = append(drifts, Drift{
			TurnID:         rec.TurnID,
			LoggedAction:   rec.GateAction,
			ReplayedAction: d.Action,
			LoggedScore:    rec.Score,
			ReplayedScore:  d.Score,
			LoggedTopology: rec.Topology,
			ReplayTopology: topo.String(),
		})
	}
	return drifts, nil
}

// #endregion recompute
