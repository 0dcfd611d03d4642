package replay

import (
	"github.com/danielpatrickdp/agit/internal/engine"
	"github.com/danielpatrickdp/agit/internal/gate"
	"github.com/danielpatrickdp/agit/internal/update"
)

// #region types
// Interaction is one recorded change set, optionally followed by feedback.
type Interaction struct {
	TurnID     string
	ChangeText string
	Feedback   []float64 // one value per expert; nil skips the weight update
}

// Result captures the outcome of replaying one interaction.
type Result struct {
	TurnID    string
	Action    string // gate action: "commit" | "ghost" | "split" | "wait"
	Reason    string
	Vetoed    bool
	Score     float64
	Topology  string
	Canonical string

	// Feedback stage (empty when the interaction carried none)
	FeedbackAction string
	Weights        update.Weights // weights after this turn
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalTurns      int
	Commits         int
	Ghosts          int
	Splits          int
	Waits           int
	Vetoes          int
	WeightUpdates   int
	FeedbackRejects int
	FinalWeights    update.Weights
}

// #endregion types

// #region replay
// Replay runs interactions in order through a fresh, in-memory scoring
// context: evaluate, record on commit, then apply any feedback. Start weights
// of the wrong length are ignored.
func Replay(config engine.Config, startWeights update.Weights, interactions []Interaction) []Result {
	scoring := engine.New(config, nil, nil)
	if len(startWeights) > 0 {
		_ = scoring.Restore("", startWeights, nil)
	}

	results := make([]Result, 0, len(interactions))
	for _, inter := range interactions {
		out := scoring.Evaluate(inter.ChangeText)
		if out.Gate.Action == gate.ActionCommit {
			// No persister is attached, so Record cannot fail.
			_ = scoring.Record(out, out.Commit.Canonical)
		}

		r := Result{
			TurnID:    inter.TurnID,
			Action:    out.Gate.Action,
			Reason:    out.Gate.Reason,
			Vetoed:    out.Gate.Vetoed,
			Score:     out.Score,
			Topology:  out.Topology.String(),
			Canonical: out.Commit.Canonical,
		}

		if inter.Feedback != nil {
			fb, _ := scoring.UpdateWeights(inter.Feedback)
			r.FeedbackAction = fb.Update.Decision.Action
		}
		r.Weights = scoring.Weights()
		results = append(results, r)
	}
	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []Result) Summary {
	s := Summary{TotalTurns: len(results)}
	for _, r := range results {
		switch r.Action {
		case gate.ActionCommit:
			s.Commits++
		case gate.ActionGhost:
			s.Ghosts++
		case gate.ActionSplit:
			s.Splits++
		case gate.ActionWait:
			s.Waits++
		}
		if r.Vetoed {
			s.Vetoes++
		}
		switch r.FeedbackAction {
		case "commit":
			s.WeightUpdates++
		case "reject":
			s.FeedbackRejects++
		}
	}
	if n := len(results); n > 0 {
		s.FinalWeights = results[n-1].Weights
	}
	return s
}

// #endregion replay
