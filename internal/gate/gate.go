package gate

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/agit/internal/analyzer"
	"github.com/danielpatrickdp/agit/internal/topology"
)

// #region gate
// Gate turns a score into an action for the agent loop.
type Gate struct {
	config Config
}

// NewGate creates a gate with the given configuration.
func NewGate(config Config) *Gate {
	return &Gate{config: config}
}

// Config returns the thresholds in use.
func (g *Gate) Config() Config {
	return g.config
}

// Evaluate checks hard vetoes first, then maps the score onto commit, ghost,
// split or wait.
func (g *Gate) Evaluate(in Input) Decision {
	if strings.TrimSpace(in.ChangeText) == "" {
		return Decision{Action: ActionWait, Reason: "no changes", Score: in.Score}
	}

	var vetoes []VetoSignal

	// --- Hard veto pass ---

	// 1. Analyzer says the change should be broken up
	if g.config.VetoOnAnalyzerSplit && in.AnalyzerDecision == analyzer.Split {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoAnalyzerSplit,
			Reason: "analyzer recommends splitting the change",
		})
	}

	// 2. Topology at maximum volatility
	if in.Topology != nil && in.Topology.Sigma >= topology.MaxSigma {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoVolatile,
			Reason: fmt.Sprintf("stability axis at maximum (%s)", in.Topology.Interpret()),
		})
	}

	if len(vetoes) > 0 {
		return g.vetoed(in, vetoes)
	}

	// --- Score thresholds ---
	return g.byScore(in)
}

// #endregion gate

// #region veto-handling
// vetoed resolves the action when at least one veto fired. An analyzer split
// wins outright; volatility alone caps the action at a local snapshot.
func (g *Gate) vetoed(in Input, vetoes []VetoSignal) Decision {
	d := Decision{
		Vetoed:      true,
		VetoSignals: vetoes,
		Score:       in.Score,
	}
	for _, v := range vetoes {
		if v.Type == VetoAnalyzerSplit {
			d.Action = ActionSplit
			d.Reason = fmt.Sprintf("hard veto: %s", v.Reason)
			return d
		}
	}

	scored := g.byScore(in)
	d.Action = scored.Action
	d.Reason = scored.Reason
	if scored.Action == ActionCommit {
		d.Action = ActionGhost
		d.Reason = fmt.Sprintf("hard veto: %s; saved locally instead", vetoes[0].Reason)
	}
	return d
}

// #endregion veto-handling

// #region thresholds
func (g *Gate) byScore(in Input) Decision {
	switch {
	case in.Score > g.config.CommitThreshold:
		return Decision{
			Action: ActionCommit,
			Reason: fmt.Sprintf("score %.4f above commit threshold %.2f", in.Score, g.config.CommitThreshold),
			Score:  in.Score,
		}
	case in.Score > g.config.GhostThreshold:
		return Decision{
			Action: ActionGhost,
			Reason: fmt.Sprintf("score %.4f above ghost threshold %.2f", in.Score, g.config.GhostThreshold),
			Score:  in.Score,
		}
	case len(in.ChangeText) > g.config.SplitBytes:
		return Decision{
			Action: ActionSplit,
			Reason: fmt.Sprintf("change text %d bytes exceeds %d", len(in.ChangeText), g.config.SplitBytes),
			Score:  in.Score,
		}
	default:
		return Decision{
			Action: ActionWait,
			Reason: fmt.Sprintf("score %.4f too low, waiting for better fitness", in.Score),
			Score:  in.Score,
		}
	}
}

// #endregion thresholds
