package update

// #region weights

// Weights are the attention weights the fusion engine applies to its
// experts, in expert order. They are meant to sum to 1.0 but carry no floor,
// so individual entries may go negative.
type Weights []float64

// DefaultWeights starts every expert with roughly equal trust.
func DefaultWeights() Weights {
	return Weights{0.33, 0.33, 0.34}
}

// Sum adds all entries.
func (w Weights) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

// Clone returns an independent copy.
func (w Weights) Clone() Weights {
	return append(Weights(nil), w...)
}

// #endregion weights

// #region decision
// Decision records what the update function decided.
type Decision struct {
	Action string // "commit" | "reject" | "no_op"
	Reason string
}

// #endregion decision

// #region metrics
// Metrics captures telemetry from an update cycle.
type Metrics struct {
	DeltaNorm float64 // L2 distance between old and new weights
	Sum       float64 // sum of the new weights
	MinWeight float64
}

// #endregion metrics

// #region update-config
// Config holds the learning parameters for Apply.
type Config struct {
	LearningRate float64 // feedback scale per step (default 0.1)
}

// DefaultConfig returns the standard learning rate.
func DefaultConfig() Config {
	return Config{LearningRate: 0.1}
}

// #endregion update-config

// #region update-result
// Result bundles everything returned by Apply.
type Result struct {
	Weights  Weights
	Decision Decision
	Metrics  Metrics
}

// #endregion update-result
