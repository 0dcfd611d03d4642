package update

import (
	"fmt"
	"math"
)

// #region update-function
// Apply is a pure function that nudges each weight by LearningRate times its
// feedback entry and renormalizes the result to sum to 1.0. Feedback whose
// length differs from the weights is ignored, and so is feedback that would
// leave nothing to normalize by; in both cases the old weights come back
// untouched.
func Apply(old Weights, feedback []float64, config Config) Result {
	unchanged := func(action, reason string) Result {
		return Result{
			Weights:  old.Clone(),
			Decision: Decision{Action: action, Reason: reason},
			Metrics:  Metrics{Sum: old.Sum(), MinWeight: minOf(old)},
		}
	}

	if len(feedback) != len(old) {
		return unchanged("no_op", fmt.Sprintf("feedback length %d does not match %d weights", len(feedback), len(old)))
	}
	for i, fb := range feedback {
		if math.IsNaN(fb) || math.IsInf(fb, 0) {
			return unchanged("reject", fmt.Sprintf("feedback[%d] is not finite", i))
		}
	}

	next := old.Clone()
	for i, fb := range feedback {
		next[i] += config.LearningRate * fb
	}

	sum := next.Sum()
	if sum == 0 {
		return unchanged("no_op", "adjusted weights sum to zero")
	}
	for i := range next {
		next[i] /= sum
	}

	var deltaSq float64
	for i := range next {
		d := next[i] - old[i]
		deltaSq += d * d
	}
	deltaNorm := math.Sqrt(deltaSq)

	decision := Decision{Action: "no_op", Reason: "weights unchanged"}
	if deltaNorm > 0 {
		decision = Decision{
			Action: "commit",
			Reason: fmt.Sprintf("feedback %v, delta norm: %.6f", feedback, deltaNorm),
		}
	}

	return Result{
		Weights:  next,
		Decision: decision,
		Metrics: Metrics{
			DeltaNorm: deltaNorm,
			Sum:       next.Sum(),
			MinWeight: minOf(next),
		},
	}
}

// #endregion update-function

// #region helpers

func minOf(w Weights) float64 {
	if len(w) == 0 {
		return 0
	}
	m := w[0]
	for _, v := range w[1:] {
		m = math.Min(m, v)
	}
	return m
}

// #endregion helpers
