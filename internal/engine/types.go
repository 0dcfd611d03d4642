package engine

import (
	"github.com/danielpatrickdp/agit/internal/analyzer"
	"github.com/danielpatrickdp/agit/internal/changeset"
	"github.com/danielpatrickdp/agit/internal/eval"
	"github.com/danielpatrickdp/agit/internal/fusion"
	"github.com/danielpatrickdp/agit/internal/gate"
	"github.com/danielpatrickdp/agit/internal/history"
	"github.com/danielpatrickdp/agit/internal/logging"
	"github.com/danielpatrickdp/agit/internal/scl"
	"github.com/danielpatrickdp/agit/internal/topology"
	"github.com/danielpatrickdp/agit/internal/update"
)

// #region mode
// Mode selects which scorer produces the gate score.
type Mode string

const (
	ModeAnalyzer Mode = "analyzer" // multi-factor analyzer final score
	ModeFusion   Mode = "fusion"   // expert fusion score plus history bonus
)

// ParseMode maps a config string to a Mode. Unknown values are rejected.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeAnalyzer, ModeFusion:
		return Mode(s), true
	}
	return "", false
}

// #endregion mode

// #region config
// Config bundles everything a scoring context needs.
type Config struct {
	Mode      Mode
	Gate      gate.Config
	Update    update.Config
	Eval      eval.Config
	SCL       bool       // render commit messages from semantic tokens
	Locale    scl.Locale // locale used when SCL is on
	Author    string
	StateFile string // optional JSON snapshot of weights and history
}

// DefaultConfig scores with the analyzer and writes conventional messages.
func DefaultConfig() Config {
	return Config{
		Mode:   ModeAnalyzer,
		Gate:   gate.DefaultConfig(),
		Update: update.DefaultConfig(),
		Eval:   eval.DefaultConfig(),
		Locale: scl.English,
		Author: "agit",
	}
}

// #endregion config

// #region persister
// Persister stores what a scoring context produces. state.Store implements it.
type Persister interface {
	AppendHistory(e history.Entry) error
	SaveWeights(weights []float64, metricsJSON string) (string, error)
	LogDecision(entry logging.ProvenanceEntry) error
}

// #endregion persister

// #region outcome
// Outcome is the full result of scoring one change set.
type Outcome struct {
	TurnID   string
	Text     string
	Records  []changeset.Record
	Report   analyzer.Report
	Fusion   fusion.Result
	Bonus    float64 // history bonus, 0 when the history is too short
	Score    float64 // the score the gate saw
	Topology topology.Topology
	Commit   scl.Commit
	Message  string
	Gate     gate.Decision
}

// FileCount is the number of announced files.
func (o Outcome) FileCount() int {
	return len(o.Records)
}

// Verdict summarizes an Outcome for callers that only act on it, such as
// the agent loop and the scoring service.
type Verdict struct {
	TurnID      string   `json:"turn_id"`
	Action      string   `json:"action"`
	Reason      string   `json:"reason"`
	Vetoed      bool     `json:"vetoed"`
	Score       float64  `json:"score"`
	FileCount   int      `json:"file_count"`
	Topology    string   `json:"topology"`
	Canonical   string   `json:"canonical"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// Verdict extracts the summary.
func (o Outcome) Verdict() Verdict {
	return Verdict{
		TurnID:      o.TurnID,
		Action:      o.Gate.Action,
		Reason:      o.Gate.Reason,
		Vetoed:      o.Gate.Vetoed,
		Score:       o.Score,
		FileCount:   o.FileCount(),
		Topology:    o.Topology.String(),
		Canonical:   o.Commit.Canonical,
		Message:     o.Message,
		Suggestions: o.Report.Suggestions,
	}
}

// #endregion outcome

// #region feedback-result
// FeedbackResult reports one weight update.
type FeedbackResult struct {
	Update    update.Result
	Eval      eval.Result
	VersionID string // empty unless the update was committed and persisted
}

// #endregion feedback-result
