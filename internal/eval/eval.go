package eval

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/agit/internal/update"
)

// #region eval-harness
// Harness validates attention weights after a feedback update.
type Harness struct {
	config Config
}

// NewHarness creates a harness with the given configuration.
func NewHarness(config Config) *Harness {
	return &Harness{config: config}
}

// Run checks the weights. Only the sum check blocks; the minimum-weight
// check is reported but never fails the run.
func (h *Harness) Run(weights update.Weights) Result {
	var metrics []Metric
	passed := true
	var failReasons []string

	// 1. Sum must stay at 1.0
	sum := weights.Sum()
	sumPass := len(weights) > 0 && math.Abs(sum-1) <= h.config.SumTolerance
	metrics = append(metrics, Metric{Name: "weight_sum", Value: sum, Pass: sumPass, Blocking: true})
	if !sumPass {
		passed = false
		failReasons = append(failReasons, fmt.Sprintf("weight sum %.6f is not 1.0", sum))
	}

	// 2. Every entry must be finite
	finite := true
	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			finite = false
			break
		}
	}
	metrics = append(metrics, Metric{Name: "weights_finite", Value: boolValue(finite), Pass: finite, Blocking: true})
	if !finite {
		passed = false
		failReasons = append(failReasons, "weights contain non-finite values")
	}

	// 3. Minimum weight: informational only
	minW := math.Inf(1)
	for _, w := range weights {
		minW = math.Min(minW, w)
	}
	if len(weights) == 0 {
		minW = 0
	}
	metrics = append(metrics, Metric{Name: "min_weight", Value: minW, Pass: minW >= h.config.MinWeight})

	reason := "all checks passed"
	if !passed {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}

	return Result{
		Passed:  passed,
		Metrics: metrics,
		Reason:  reason,
	}
}

// #endregion eval-harness

// #region helpers
func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Metric returns the named metric and whether it was recorded.
func (r Result) Metric(name string) (Metric, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// #endregion helpers
