package eval

// #region eval-config
// Config holds thresholds for post-update validation of attention weights.
type Config struct {
	SumTolerance float64 // |sum - 1| must stay within this
	MinWeight    float64 // informational floor; negative weights are allowed
}

// DefaultConfig returns the standard tolerances.
func DefaultConfig() Config {
	return Config{
		SumTolerance: 1e-6,
		MinWeight:    0,
	}
}

// #endregion eval-config

// #region eval-metric
// Metric captures a single validation check result.
type Metric struct {
	Name     string
	Value    float64
	Pass     bool
	Blocking bool
}

// #endregion eval-metric

// #region eval-result
// Result is the output of post-update validation.
type Result struct {
	Passed  bool
	Metrics []Metric
	Reason  string
}

// #endregion eval-result
