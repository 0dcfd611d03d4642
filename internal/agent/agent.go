package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/agit/internal/engine"
	"github.com/danielpatrickdp/agit/internal/gate"
)

// #region interfaces

// Workspace is where changes are perceived and committed.
type Workspace interface {
	Perceive(ctx context.Context) (string, error)
	Commit(ctx context.Context, message string) (string, error)
	Push(ctx context.Context) error
}

// Scorer turns change-set text into a gate verdict and records committed
// verdicts. A local scoring context and the RPC client both satisfy it.
type Scorer interface {
	Evaluate(ctx context.Context, text string) (engine.Verdict, error)
	Record(ctx context.Context, v engine.Verdict, message string) error
}

// Local adapts an in-process scoring context to Scorer.
func Local(c *engine.Context) Scorer {
	return localScorer{c: c}
}

type localScorer struct {
	c *engine.Context
}

func (l localScorer) Evaluate(_ context.Context, text string) (engine.Verdict, error) {
	return l.c.Evaluate(text).Verdict(), nil
}

func (l localScorer) Record(_ context.Context, v engine.Verdict, message string) error {
	return l.c.RecordVerdict(v, message)
}

// #endregion interfaces

// #region agent

// Config controls what the agent does with a commit verdict.
type Config struct {
	AutoPush bool
}

// StepResult reports one perceive-evaluate-act cycle.
type StepResult struct {
	Idle       bool // nothing to look at
	Verdict    engine.Verdict
	CommitHash string
	Pushed     bool
	PushErr    error
	RecordErr  error
}

// Action is the gate action taken, or wait when idle.
func (s StepResult) Action() string {
	if s.Idle {
		return gate.ActionWait
	}
	return s.Verdict.Action
}

// Agent watches a workspace and commits changes the scorer approves.
type Agent struct {
	ws     Workspace
	scorer Scorer
	config Config
	logger *zap.Logger
}

// New builds an agent. logger may be nil.
func New(ws Workspace, scorer Scorer, config Config, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{ws: ws, scorer: scorer, config: config, logger: logger}
}

// #endregion agent

// #region step

// Step runs one cycle. Commit failures are returned; push and history
// failures are reported in the result and never undo the commit.
func (a *Agent) Step(ctx context.Context) (StepResult, error) {
	text, err := a.ws.Perceive(ctx)
	if err != nil {
		return StepResult{}, fmt.Errorf("perceive: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return StepResult{Idle: true}, nil
	}

	v, err := a.scorer.Evaluate(ctx, text)
	if err != nil {
		return StepResult{}, fmt.Errorf("evaluate: %w", err)
	}
	res := StepResult{Verdict: v}
	log := a.logger.With(
		zap.String("turn_id", v.TurnID),
		zap.Float64("score", v.Score),
		zap.String("topology", v.Topology),
		zap.Int("files", v.FileCount),
	)

	switch v.Action {
	case gate.ActionCommit:
		hash, err := a.ws.Commit(ctx, v.Message)
		if err != nil {
			return res, fmt.Errorf("commit: %w", err)
		}
		res.CommitHash = hash
		log.Info("committed", zap.String("hash", hash), zap.String("message", v.Message))

		if err := a.scorer.Record(ctx, v, v.Message); err != nil {
			res.RecordErr = err
			log.Warn("history not recorded", zap.Error(err))
		}
		if a.config.AutoPush {
			if err := a.ws.Push(ctx); err != nil {
				res.PushErr = err
				log.Warn("push failed, commit kept locally", zap.Error(err))
			} else {
				res.Pushed = true
				log.Info("pushed")
			}
		}
	case gate.ActionGhost:
		log.Info("ghost checkpoint", zap.String("reason", v.Reason))
	case gate.ActionSplit:
		log.Warn("changes should be split", zap.String("reason", v.Reason),
			zap.Strings("suggestions", v.Suggestions))
	default:
		log.Info("waiting", zap.String("reason", v.Reason))
	}
	return res, nil
}

// #endregion step

// #region run

// Run steps immediately and then every interval until ctx is done. Step
// errors are logged and the loop continues. onStep, when set, sees every
// result.
func (a *Agent) Run(ctx context.Context, interval time.Duration, onStep func(StepResult, error)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res, err := a.Step(ctx)
		if err != nil {
			a.logger.Error("step failed", zap.Error(err))
		}
		if onStep != nil {
			onStep(res, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// #endregion run
