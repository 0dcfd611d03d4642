package rpc

import (
	"github.com/danielpatrickdp/agit/internal/analyzer"
	"github.com/danielpatrickdp/agit/internal/engine"
	"github.com/danielpatrickdp/agit/internal/fusion"
)

// #region messages

// TextRequest carries change-set text.
type TextRequest struct {
	Text string `json:"text"`
}

// AnalyzeResponse is an analyzer report.
type AnalyzeResponse struct {
	FinalScore  float64            `json:"final_score"`
	Decision    string             `json:"decision"`
	Components  map[string]float64 `json:"components"`
	Factors     map[string]float64 `json:"factors"`
	Reasons     []string           `json:"reasons"`
	Suggestions []string           `json:"suggestions"`
	FileCount   int                `json:"file_count"`
	LineChanges int                `json:"line_changes"`
	HasTests    bool               `json:"has_tests"`
	HasBreaking bool               `json:"has_breaking"`
}

// BraidResponse is a fused expert verdict.
type BraidResponse struct {
	Score     float64            `json:"score"`
	Reason    string             `json:"reason"`
	Breakdown map[string]float64 `json:"breakdown"`
	Energy    float64            `json:"energy"`
}

// RecordRequest asks the server to append a committed verdict to history.
type RecordRequest struct {
	Verdict engine.Verdict `json:"verdict"`
	Message string         `json:"message"`
}

// RecordResponse reports the history length after the append.
type RecordResponse struct {
	HistoryLen int `json:"history_len"`
}

// UpdateWeightsRequest carries one feedback value per expert.
type UpdateWeightsRequest struct {
	Feedback []float64 `json:"feedback"`
}

// UpdateWeightsResponse reports the weight update and its validation.
type UpdateWeightsResponse struct {
	Action     string    `json:"action"`
	Reason     string    `json:"reason"`
	Weights    []float64 `json:"weights"`
	DeltaNorm  float64   `json:"delta_norm"`
	EvalPassed bool      `json:"eval_passed"`
	EvalReason string    `json:"eval_reason"`
	VersionID  string    `json:"version_id"`
}

// #endregion messages

// #region conversions

func analyzeResponse(r analyzer.Report) AnalyzeResponse {
	return AnalyzeResponse{
		FinalScore:  r.FinalScore,
		Decision:    string(r.Decision),
		Components:  r.Components,
		Factors:     r.Factors,
		Reasons:     r.Reasons,
		Suggestions: r.Suggestions,
		FileCount:   r.Facts.FileCount,
		LineChanges: r.Facts.LineChanges,
		HasTests:    r.Facts.HasTests,
		HasBreaking: r.Facts.HasBreaking,
	}
}

func braidResponse(r fusion.Result) BraidResponse {
	return BraidResponse{
		Score:     r.Score,
		Reason:    r.Reason,
		Breakdown: r.Breakdown,
		Energy:    r.Energy,
	}
}

func updateWeightsResponse(r engine.FeedbackResult) UpdateWeightsResponse {
	return UpdateWeightsResponse{
		Action:     r.Update.Decision.Action,
		Reason:     r.Update.Decision.Reason,
		Weights:    r.Update.Weights,
		DeltaNorm:  r.Update.Metrics.DeltaNorm,
		EvalPassed: r.Eval.Passed,
		EvalReason: r.Eval.Reason,
		VersionID:  r.VersionID,
	}
}

// #endregion conversions
