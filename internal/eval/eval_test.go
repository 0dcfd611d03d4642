package eval

import (
	"math"
	"testing"

	"github.com/danielpatrickdp/agit/internal/update"
)

func TestEvalPassesOnDefaultWeights(t *testing.T) {
	h := NewHarness(DefaultConfig())

	result := h.Run(update.DefaultWeights())

	if !result.Passed {
		t.Fatalf("expected pass on default weights, got fail: %s", result.Reason)
	}
	if len(result.Metrics) != 3 {
		t.Fatalf("expected 3 metrics, got %d", len(result.Metrics))
	}
}

func TestEvalFailsOnSumDrift(t *testing.T) {
	h := NewHarness(DefaultConfig())

	result := h.Run(update.Weights{0.5, 0.5, 0.5})

	if result.Passed {
		t.Fatal("expected fail on weights summing to 1.5")
	}
	m, ok := result.Metric("weight_sum")
	if !ok || m.Pass || !m.Blocking {
		t.Fatalf("unexpected weight_sum metric: %+v", m)
	}
}

func TestEvalNegativeWeightIsInformational(t *testing.T) {
	h := NewHarness(DefaultConfig())
	weights := update.Apply(update.DefaultWeights(), []float64{-5, 0, 0}, update.DefaultConfig()).Weights

	result := h.Run(weights)

	if !result.Passed {
		t.Fatalf("negative weights must not fail the run: %s", result.Reason)
	}
	m, ok := result.Metric("min_weight")
	if !ok {
		t.Fatal("expected min_weight metric")
	}
	if m.Pass {
		t.Fatalf("min_weight should report failure for %f", m.Value)
	}
	if m.Blocking {
		t.Fatal("min_weight must not block")
	}
}

func TestEvalFailsOnNonFinite(t *testing.T) {
	h := NewHarness(DefaultConfig())

	result := h.Run(update.Weights{math.NaN(), 0.5, 0.5})

	if result.Passed {
		t.Fatal("expected fail on NaN weight")
	}
	if result.Reason == "" {
		t.Fatal("expected reason")
	}
}

func TestEvalFailsOnEmpty(t *testing.T) {
	h := NewHarness(DefaultConfig())

	result := h.Run(nil)

	if result.Passed {
		t.Fatal("expected fail on empty weights")
	}
}
