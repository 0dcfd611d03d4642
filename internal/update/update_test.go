package update

import (
	"math"
	"testing"
)

func TestApplyLengthMismatchIsNoOp(t *testing.T) {
	old := DefaultWeights()

	for _, fb := range [][]float64{nil, {1}, {1, 2}, {1, 2, 3, 4}} {
		result := Apply(old, fb, DefaultConfig())

		if result.Decision.Action != "no_op" {
			t.Fatalf("feedback %v: expected no_op, got %s", fb, result.Decision.Action)
		}
		for i := range old {
			if math.Float64bits(result.Weights[i]) != math.Float64bits(old[i]) {
				t.Fatalf("feedback %v: weight %d changed: %v != %v", fb, i, result.Weights[i], old[i])
			}
		}
		if result.Metrics.DeltaNorm != 0 {
			t.Fatalf("expected zero delta norm, got %f", result.Metrics.DeltaNorm)
		}
	}
}

func TestApplyRenormalizes(t *testing.T) {
	old := DefaultWeights()

	result := Apply(old, []float64{1, 0, 0}, DefaultConfig())

	if result.Decision.Action != "commit" {
		t.Fatalf("expected commit, got %s", result.Decision.Action)
	}
	if math.Abs(result.Weights.Sum()-1) > 1e-12 {
		t.Fatalf("weights sum to %f", result.Weights.Sum())
	}
	want := []float64{0.43 / 1.1, 0.33 / 1.1, 0.34 / 1.1}
	for i := range want {
		if math.Abs(result.Weights[i]-want[i]) > 1e-12 {
			t.Errorf("weight %d = %f, want %f", i, result.Weights[i], want[i])
		}
	}
	if result.Weights[0] <= old[0] {
		t.Error("rewarded expert should gain weight")
	}
	if result.Metrics.DeltaNorm <= 0 {
		t.Error("expected positive delta norm")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	old := DefaultWeights()
	_ = Apply(old, []float64{1, -1, 0.5}, DefaultConfig())

	want := DefaultWeights()
	for i := range want {
		if old[i] != want[i] {
			t.Fatalf("input mutated at %d: %f", i, old[i])
		}
	}
}

func TestApplyPreservesNegativeWeights(t *testing.T) {
	result := Apply(DefaultWeights(), []float64{-5, 0, 0}, DefaultConfig())

	if result.Decision.Action != "commit" {
		t.Fatalf("expected commit, got %s", result.Decision.Action)
	}
	if result.Weights[0] >= 0 {
		t.Fatalf("expected negative weight, got %f", result.Weights[0])
	}
	if result.Metrics.MinWeight >= 0 {
		t.Fatalf("expected negative min weight metric, got %f", result.Metrics.MinWeight)
	}
	if math.Abs(result.Weights.Sum()-1) > 1e-12 {
		t.Fatalf("weights sum to %f", result.Weights.Sum())
	}
}

func TestApplyZeroSumIsNoOp(t *testing.T) {
	old := Weights{0.5, 0.5}

	result := Apply(old, []float64{-5, -5}, DefaultConfig())

	if result.Decision.Action != "no_op" {
		t.Fatalf("expected no_op, got %s", result.Decision.Action)
	}
	if result.Weights[0] != 0.5 || result.Weights[1] != 0.5 {
		t.Fatalf("weights changed: %v", result.Weights)
	}
}

func TestApplyRejectsNonFiniteFeedback(t *testing.T) {
	result := Apply(DefaultWeights(), []float64{math.NaN(), 0, 0}, DefaultConfig())

	if result.Decision.Action != "reject" {
		t.Fatalf("expected reject, got %s", result.Decision.Action)
	}
	if result.Weights[0] != 0.33 {
		t.Fatalf("weights changed: %v", result.Weights)
	}
}

func TestApplyDeterministic(t *testing.T) {
	r1 := Apply(DefaultWeights(), []float64{0.2, -0.1, 0.3}, DefaultConfig())
	r2 := Apply(DefaultWeights(), []float64{0.2, -0.1, 0.3}, DefaultConfig())

	for i := range r1.Weights {
		if r1.Weights[i] != r2.Weights[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
	}
}
