package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

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
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// #region context

// Context owns every piece of mutable scoring state. All methods serialize
// on one mutex, so a Context may be shared by the agent loop and the RPC
// server.
type Context struct {
	mu sync.Mutex

	config    Config
	analyzer  *analyzer.Analyzer
	fusion    *fusion.Engine
	history   *history.Log
	renderer  *scl.Renderer
	gate      *gate.Gate
	harness   *eval.Harness
	persister Persister
	logger    *zap.Logger

	versionID string
	now       func() time.Time
}

// New builds a scoring context. persister and logger may be nil.
func New(config Config, persister Persister, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Mode == "" {
		config.Mode = ModeAnalyzer
	}
	f := fusion.New()
	f.SetLearning(config.Update)
	return &Context{
		config:    config,
		analyzer:  analyzer.New(),
		fusion:    f,
		history:   history.NewLog(),
		renderer:  scl.NewRenderer(),
		gate:      gate.NewGate(config.Gate),
		harness:   eval.NewHarness(config.Eval),
		persister: persister,
		logger:    logger,
		now:       time.Now,
	}
}

// #endregion context

// #region restore

// Restore installs persisted weights and history. versionID names the
// weight version the provenance log should reference. Weights of the wrong
// length are refused and the defaults stay in place.
func (c *Context) Restore(versionID string, weights update.Weights, entries []history.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(weights) > 0 && !c.fusion.SetWeights(weights) {
		return fmt.Errorf("restore: %d weights for %d experts", len(weights), len(c.fusion.Experts()))
	}
	c.history.Restore(entries)
	c.versionID = versionID
	return nil
}

// #endregion restore

// #region accessors

// Config returns the context's configuration.
func (c *Context) Config() Config {
	return c.config
}

// Weights returns a copy of the current attention weights.
func (c *Context) Weights() update.Weights {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fusion.Weights()
}

// History returns a copy of the decision history, oldest first.
func (c *Context) History() []history.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Entries()
}

// VersionID is the weight version currently in use.
func (c *Context) VersionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versionID
}

// Renderer exposes the SCL renderer for message rendering outside Evaluate.
func (c *Context) Renderer() *scl.Renderer {
	return c.renderer
}

// #endregion accessors

// #region evaluate

// Analyze runs only the multi-factor analyzer.
func (c *Context) Analyze(text string) analyzer.Report {
	return c.analyzer.Analyze(text)
}

// Braid runs only the expert fusion engine.
func (c *Context) Braid(text string) fusion.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fusion.Braid(text)
}

// Evaluate scores a change set end to end and asks the gate what to do with
// it. The decision is written to the provenance log when a persister is set;
// a logging failure is reported through the logger and does not fail the
// evaluation.
func (c *Context) Evaluate(text string) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := changeset.Parse(text)
	report := c.analyzer.AnalyzeRecords(records)
	fused := c.fusion.Braid(text)

	var bonus float64
	if b, ok := c.history.Bonus(report.Facts.FileCount); ok {
		bonus = b
	}

	score := report.FinalScore
	if c.config.Mode == ModeFusion {
		score = fusion.ApplyBonus(fused.Score, bonus)
	}

	f := report.Facts
	topo := topology.FromAnalysis(f.FileCount, f.LineChanges, f.HasTests, f.HasBreaking, score)
	commit := scl.WithTopology(scl.Infer(records), c.config.Author, topo)

	decision := c.gate.Evaluate(gate.Input{
		Score:            score,
		AnalyzerDecision: report.Decision,
		ChangeText:       text,
		Topology:         &topo,
	})

	out := Outcome{
		TurnID:   uuid.New().String(),
		Text:     text,
		Records:  records,
		Report:   report,
		Fusion:   fused,
		Bonus:    bonus,
		Score:    score,
		Topology: topo,
		Commit:   commit,
		Gate:     decision,
	}
	if len(records) > 0 {
		out.Message = c.message(records, commit)
	}

	c.logger.Debug("evaluated change set",
		zap.String("turn_id", out.TurnID),
		zap.Int("files", len(records)),
		zap.Float64("score", score),
		zap.String("topology", topo.String()),
		zap.String("action", decision.Action),
	)

	if c.persister != nil {
		if err := c.logOutcome(out); err != nil {
			c.logger.Warn("provenance write failed", zap.Error(err))
		}
	}
	return out
}

func (c *Context) logOutcome(o Outcome) error {
	rec := logging.DecisionRecord{
		TurnID:           o.TurnID,
		Mode:             string(c.config.Mode),
		ChangeText:       o.Text,
		AnalyzerScore:    o.Report.FinalScore,
		AnalyzerDecision: string(o.Report.Decision),
		Components:       o.Report.Components,
		FileCount:        o.Report.Facts.FileCount,
		LineChanges:      o.Report.Facts.LineChanges,
		FusionScore:      o.Fusion.Score,
		Breakdown:        o.Fusion.Breakdown,
		Energy:           o.Fusion.Energy,
		Bonus:            o.Bonus,
		Weights:          c.fusion.Weights(),
		Score:            o.Score,
		Topology:         o.Topology.String(),
		Canonical:        o.Commit.Canonical,
		Message:          o.Message,
		Thresholds: logging.DecisionThresholds{
			Commit:     c.config.Gate.CommitThreshold,
			Ghost:      c.config.Gate.GhostThreshold,
			SplitBytes: c.config.Gate.SplitBytes,
		},
		GateAction: o.Gate.Action,
		GateVetoed: o.Gate.Vetoed,
		GateReason: o.Gate.Reason,
	}
	entry, err := logging.RecordEntry(c.versionID, rec)
	if err != nil {
		return err
	}
	return c.persister.LogDecision(entry)
}

// #endregion evaluate

// #region record

// Record appends a committed outcome to the history. The in-memory append
// always stands; persistence errors are joined and returned.
func (c *Context) Record(o Outcome, message string) error {
	return c.record(o.Score, o.FileCount(), message)
}

// RecordVerdict is Record for callers holding only the summary.
func (c *Context) RecordVerdict(v Verdict, message string) error {
	return c.record(v.Score, v.FileCount, message)
}

func (c *Context) record(score float64, fileCount int, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := history.Entry{
		Timestamp: c.now().UTC(),
		Fitness:   score,
		FileCount: fileCount,
		Message:   message,
	}
	c.history.Add(entry)

	var errs []error
	if c.persister != nil {
		if err := c.persister.AppendHistory(entry); err != nil {
			errs = append(errs, fmt.Errorf("persist history: %w", err))
		}
	}
	if err := c.saveSnapshot(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Context) saveSnapshot() error {
	if c.config.StateFile == "" {
		return nil
	}
	return history.Save(c.config.StateFile, history.Snapshot{
		Weights: c.fusion.Weights(),
		History: c.history.Entries(),
	})
}

// #endregion record

// #region update-weights

// UpdateWeights applies feedback to the attention weights, validates the
// result and, when both pass, persists a new weight version. Weights that
// fail validation are rolled back and the update is reported as rejected.
func (c *Context) UpdateWeights(feedback []float64) (FeedbackResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.fusion.Weights()
	res := c.fusion.UpdateWeights(feedback)
	out := FeedbackResult{Update: res}
	if res.Decision.Action != "commit" {
		c.logger.Info("weight update skipped",
			zap.String("action", res.Decision.Action), zap.String("reason", res.Decision.Reason))
		return out, c.logFeedback(out, "")
	}

	out.Eval = c.harness.Run(res.Weights)
	if !out.Eval.Passed {
		c.fusion.SetWeights(prev)
		out.Update.Decision = update.Decision{Action: "reject", Reason: out.Eval.Reason}
		out.Update.Weights = prev
		c.logger.Warn("weight update rolled back", zap.String("reason", out.Eval.Reason))
		return out, c.logFeedback(out, "")
	}

	var errs []error
	if c.persister != nil {
		metrics, err := json.Marshal(res.Metrics)
		if err != nil {
			return out, fmt.Errorf("marshal metrics: %w", err)
		}
		id, err := c.persister.SaveWeights(res.Weights, string(metrics))
		if err != nil {
			errs = append(errs, fmt.Errorf("persist weights: %w", err))
		} else {
			c.versionID = id
			out.VersionID = id
		}
	}
	if err := c.saveSnapshot(); err != nil {
		errs = append(errs, err)
	}
	if err := c.logFeedback(out, out.VersionID); err != nil {
		errs = append(errs, err)
	}

	c.logger.Info("weights updated",
		zap.Float64s("weights", res.Weights),
		zap.Float64("delta_norm", res.Metrics.DeltaNorm),
		zap.String("version_id", out.VersionID),
	)
	return out, errors.Join(errs...)
}

func (c *Context) logFeedback(r FeedbackResult, versionID string) error {
	if c.persister == nil {
		return nil
	}
	data, err := json.Marshal(struct {
		Weights []float64      `json:"weights"`
		Metrics update.Metrics `json:"metrics"`
	}{r.Update.Weights, r.Update.Metrics})
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	return c.persister.LogDecision(logging.ProvenanceEntry{
		VersionID:   versionID,
		TriggerType: logging.TriggerFeedback,
		SignalsJSON: string(data),
		Decision:    r.Update.Decision.Action,
		Reason:      r.Update.Decision.Reason,
	})
}

// #endregion update-weights
