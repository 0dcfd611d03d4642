package logging

import "time"

// Trigger types written to provenance_log.trigger_type.
const (
	TriggerEvaluate = "evaluate"
	TriggerFeedback = "feedback"
	TriggerRollback = "rollback"
)

// #region provenance-entry
// ProvenanceEntry is a single row in the provenance_log table.
type ProvenanceEntry struct {
	VersionID    string
	ContextHash  string
	TriggerType  string
	SignalsJSON  string
	EvidenceRefs string
	Decision     string // "commit" | "ghost" | "split" | "wait" | "reject" | "no_op"
	Reason       string
	CreatedAt    time.Time
}

// #endregion provenance-entry

// #region decision-record
// DecisionRecord captures everything that fed one gate decision.
// Serialized as JSON into provenance_log.signals_json for deterministic replay.
type DecisionRecord struct {
	TurnID     string `json:"turn_id"`
	Mode       string `json:"mode"`
	ChangeText string `json:"change_text"`

	// Analyzer
	AnalyzerScore    float64            `json:"analyzer_score"`
	AnalyzerDecision string             `json:"analyzer_decision"`
	Components       map[string]float64 `json:"components"`
	FileCount        int                `json:"file_count"`
	LineChanges      int                `json:"line_changes"`

	// Fusion
	FusionScore float64            `json:"fusion_score"`
	Breakdown   map[string]float64 `json:"breakdown"`
	Energy      float64            `json:"energy"`
	Bonus       float64            `json:"bonus"`
	Weights     []float64          `json:"weights"`

	Score     float64 `json:"score"`
	Topology  string  `json:"topology,omitempty"`
	Canonical string  `json:"canonical,omitempty"`
	Message   string  `json:"message,omitempty"`

	Thresholds DecisionThresholds `json:"thresholds"`

	// Gate output
	GateAction string `json:"gate_action"`
	GateVetoed bool   `json:"gate_vetoed"`
	GateReason string `json:"gate_reason"`
}

// DecisionThresholds captures the gate config active at decision time.
type DecisionThresholds struct {
	Commit     float64 `json:"commit"`
	Ghost      float64 `json:"ghost"`
	SplitBytes int     `json:"split_bytes"`
}

// #endregion decision-record
