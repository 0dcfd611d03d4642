package fusion

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/agit/internal/signals"
	"github.com/danielpatrickdp/agit/internal/update"
)

// #region result

// Result is one fused verdict.
type Result struct {
	Score     float64            // logistic of Energy, strictly inside (0, 1)
	Reason    string
	Breakdown map[string]float64 // expert name -> opinion mean
	Energy    float64            // mean of the weighted opinion sum
}

// #endregion result

// #region engine

// Engine combines expert opinions with adaptive attention weights. It holds
// mutable weights and is not safe for concurrent use on its own.
type Engine struct {
	experts []signals.Expert
	weights update.Weights
	config  update.Config
}

// New builds an engine over experts with default weights when there are
// exactly three experts, and equal weights otherwise. With no experts the
// default set is used.
func New(experts ...signals.Expert) *Engine {
	if len(experts) == 0 {
		experts = signals.DefaultExperts()
	}
	w := update.DefaultWeights()
	if len(experts) != len(w) {
		w = make(update.Weights, len(experts))
		for i := range w {
			w[i] = 1 / float64(len(experts))
		}
	}
	return &Engine{experts: experts, weights: w, config: update.DefaultConfig()}
}

// Experts returns the experts in fusion order.
func (e *Engine) Experts() []signals.Expert {
	return append([]signals.Expert(nil), e.experts...)
}

// Weights returns a copy of the current attention weights.
func (e *Engine) Weights() update.Weights {
	return e.weights.Clone()
}

// SetWeights installs restored weights. A length mismatch leaves the current
// weights in place and reports false.
func (e *Engine) SetWeights(w update.Weights) bool {
	if len(w) != len(e.experts) {
		return false
	}
	e.weights = w.Clone()
	return true
}

// SetLearning replaces the update parameters used by UpdateWeights.
func (e *Engine) SetLearning(c update.Config) {
	e.config = c
}

// #endregion engine

// #region braid

// Braid asks every expert for an opinion, sums them elementwise under the
// attention weights, averages the fused vector and squashes it with the
// logistic function.
func (e *Engine) Braid(text string) Result {
	opinions := make([]signals.Opinion, len(e.experts))
	var g errgroup.Group
	for i, ex := range e.experts {
		g.Go(func() error {
			opinions[i] = ex.Opinion(text)
			return nil
		})
	}
	_ = g.Wait() // experts never fail

	breakdown := make(map[string]float64, len(e.experts))
	fused := make(signals.Opinion, signals.Width)
	for i, op := range opinions {
		breakdown[e.experts[i].Name()] = op.Mean()
		w := e.weights[i]
		for j := 0; j < len(fused) && j < len(op); j++ {
			fused[j] += op[j] * w
		}
	}

	energy := fused.Mean()
	score := logistic(energy)
	return Result{
		Score:     score,
		Reason:    reason(score),
		Breakdown: breakdown,
		Energy:    energy,
	}
}

// #endregion braid

// #region adapt

// UpdateWeights applies feedback to the attention weights. The engine keeps
// the new weights only when the update commits.
func (e *Engine) UpdateWeights(feedback []float64) update.Result {
	res := update.Apply(e.weights, feedback, e.config)
	if res.Decision.Action == "commit" {
		e.weights = res.Weights.Clone()
	}
	return res
}

// ApplyBonus adds a history bonus to a fused score, capped at 1.0. There is
// no lower cap, so a negative bonus may push the score below its usual range.
func ApplyBonus(score, bonus float64) float64 {
	return math.Min(score+bonus, 1.0)
}

// #endregion adapt

// #region helpers

// scoreEpsilon keeps logistic output off the interval's endpoints when
// float64 saturates on extreme energies.
const scoreEpsilon = 1e-12

func logistic(x float64) float64 {
	s := 1 / (1 + math.Exp(-x))
	return math.Min(math.Max(s, scoreEpsilon), 1-scoreEpsilon)
}

func reason(score float64) string {
	switch {
	case score > 0.8:
		return "High semantic cohesion, valid syntax, and optimal complexity."
	case score > 0.6:
		return "Good changes, but could be improved with tests or docs."
	case score > 0.4:
		return "Changes are ambiguous; waiting for more context."
	default:
		return "Detected syntax issues, incomplete logic, or poor coherence."
	}
}

// #endregion helpers
