package fusion

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/agit/internal/signals"
	"github.com/danielpatrickdp/agit/internal/update"
)

type fixedExpert struct {
	name  string
	value float64
}

func (f fixedExpert) Name() string { return f.name }

func (f fixedExpert) Opinion(string) signals.Opinion { return signals.Broadcast(f.value) }

func TestBraid_KnownEnergy(t *testing.T) {
	e := New()
	text := "MODIFIED: src/a.x\n+/// doc\n+fn foo(){}\n+#[test]\n+fn test_foo(){assert(true)}\n"

	res := e.Braid(text)

	wantEnergy := 0.33*0.9 + 0.33*0.4 + 0.34*0.9
	assert.InDelta(t, wantEnergy, res.Energy, 1e-9)
	assert.InDelta(t, 1/(1+math.Exp(-wantEnergy)), res.Score, 1e-9)
	assert.Equal(t, "Good changes, but could be improved with tests or docs.", res.Reason)
	assert.InDelta(t, 0.9, res.Breakdown["syntax"], 1e-9)
	assert.InDelta(t, 0.4, res.Breakdown["logic"], 1e-9)
	assert.InDelta(t, 0.9, res.Breakdown["semantic"], 1e-9)
}

func TestBraid_ScoreStrictlyInsideUnitInterval(t *testing.T) {
	e := New()
	inputs := []string{
		"x",
		"TODO FIXME HACK XXX",
		strings.Repeat("MODIFIED: a/b/c.go\n", 50),
		"\x00\xff binary junk",
		"NEW: docs/readme.md\n+/// test_thing Test",
	}
	for _, in := range inputs {
		res := e.Braid(in)
		assert.Greater(t, res.Score, 0.0, "input %q", in)
		assert.Less(t, res.Score, 1.0, "input %q", in)
	}

	extreme := New(fixedExpert{"hot", 1e6}, fixedExpert{"cold", -1e6}, fixedExpert{"warm", 1e6})
	res := extreme.Braid("x")
	assert.Greater(t, res.Score, 0.0)
	assert.Less(t, res.Score, 1.0)
}

func TestBraid_ReasonBands(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{2.0, "High semantic cohesion, valid syntax, and optimal complexity."},
		{0.5, "Good changes, but could be improved with tests or docs."},
		{0.0, "Changes are ambiguous; waiting for more context."},
		{-1.0, "Detected syntax issues, incomplete logic, or poor coherence."},
	}
	for _, c := range cases {
		e := New(fixedExpert{"a", c.value}, fixedExpert{"b", c.value}, fixedExpert{"c", c.value})
		assert.Equal(t, c.want, e.Braid("x").Reason, "value %v", c.value)
	}
}

func TestUpdateWeights_MismatchLeavesWeightsBitForBit(t *testing.T) {
	e := New()
	before := e.Weights()

	res := e.UpdateWeights([]float64{1, 2})

	assert.Equal(t, "no_op", res.Decision.Action)
	after := e.Weights()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, math.Float64bits(before[i]), math.Float64bits(after[i]))
	}
}

func TestUpdateWeights_CommitChangesScores(t *testing.T) {
	e := New(fixedExpert{"good", 1}, fixedExpert{"bad", -1}, fixedExpert{"meh", 0})
	before := e.Braid("x").Score

	res := e.UpdateWeights([]float64{1, -1, 0})

	require.Equal(t, "commit", res.Decision.Action)
	assert.InDelta(t, 1.0, e.Weights().Sum(), 1e-12)
	assert.Greater(t, e.Braid("x").Score, before)
}

func TestSetWeights(t *testing.T) {
	e := New()
	assert.False(t, e.SetWeights(update.Weights{1}))
	assert.Equal(t, update.DefaultWeights(), e.Weights())

	assert.True(t, e.SetWeights(update.Weights{0.2, 0.3, 0.5}))
	assert.Equal(t, update.Weights{0.2, 0.3, 0.5}, e.Weights())
}

func TestNew_NonDefaultExpertCountUsesEqualWeights(t *testing.T) {
	e := New(fixedExpert{"a", 0}, fixedExpert{"b", 0})
	assert.Equal(t, update.Weights{0.5, 0.5}, e.Weights())
	assert.Len(t, e.Experts(), 2)
}

func TestApplyBonus(t *testing.T) {
	assert.InDelta(t, 0.75, ApplyBonus(0.7, 0.05), 1e-12)
	assert.Equal(t, 1.0, ApplyBonus(0.99, 0.05))
	assert.InDelta(t, 0.6, ApplyBonus(0.7, -0.1), 1e-12)
}
