package gate

import (
	"github.com/danielpatrickdp/agit/internal/analyzer"
	"github.com/danielpatrickdp/agit/internal/topology"
)

// #region actions
// Actions the agent loop can take on a change set.
const (
	ActionCommit = "commit"
	ActionGhost  = "ghost"
	ActionSplit  = "split"
	ActionWait   = "wait"
)

// #endregion actions

// #region veto-type
// VetoType enumerates hard veto categories.
type VetoType string

const (
	VetoAnalyzerSplit VetoType = "analyzer_split"
	VetoVolatile      VetoType = "volatile_topology"
)

// #endregion veto-type

// #region veto-signal
// VetoSignal represents a detected hard veto condition.
type VetoSignal struct {
	Type   VetoType
	Reason string
}

// #endregion veto-signal

// #region gate-config
// Config holds thresholds for gate decisions.
type Config struct {
	CommitThreshold     float64 // score strictly above this commits
	GhostThreshold      float64 // score strictly above this takes a local snapshot
	SplitBytes          int     // change text longer than this is flagged for splitting
	VetoOnAnalyzerSplit bool    // an analyzer Split verdict blocks commit and ghost
}

// DefaultConfig returns the thresholds the agent ships with.
func DefaultConfig() Config {
	return Config{
		CommitThreshold:     0.7,
		GhostThreshold:      0.4,
		SplitBytes:          5000,
		VetoOnAnalyzerSplit: true,
	}
}

// #endregion gate-config

// #region gate-input
// Input is everything the gate looks at for one change set.
type Input struct {
	Score            float64
	AnalyzerDecision analyzer.Decision
	ChangeText       string
	Topology         *topology.Topology
}

// #endregion gate-input

// #region gate-decision
// Decision is the output of the gate evaluation.
type Decision struct {
	Action      string // "commit" | "ghost" | "split" | "wait"
	Reason      string
	Vetoed      bool
	VetoSignals []VetoSignal // non-empty if vetoed
	Score       float64
}

// #endregion gate-decision
