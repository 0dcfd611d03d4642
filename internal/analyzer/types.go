package analyzer

// #region decision

// Decision is the readiness verdict attached to a Report.
type Decision string

const (
	Commit Decision = "commit" // ready to commit
	Wait   Decision = "wait"   // needs more changes
	Split  Decision = "split"  // too large or scattered, needs splitting
	Ghost  Decision = "ghost"  // save locally but do not push; produced by the gate only
)

// #endregion decision

// #region factors

// Factor names, in combination order.
const (
	FactorFiles         = "file_metrics"
	FactorComplexity    = "complexity"
	FactorCoherence     = "coherence"
	FactorTests         = "tests"
	FactorRisk          = "risk"
	FactorDocumentation = "documentation"
)

// factorWeights sum to 1.0 so the final score never exceeds 1.0.
var factorWeights = [...]float64{0.15, 0.20, 0.25, 0.15, 0.15, 0.10}

var factorNames = [...]string{
	FactorFiles,
	FactorComplexity,
	FactorCoherence,
	FactorTests,
	FactorRisk,
	FactorDocumentation,
}

// Weight returns the combination weight of a factor, or 0 for unknown names.
func Weight(name string) float64 {
	for i, n := range factorNames {
		if n == name {
			return factorWeights[i]
		}
	}
	return 0
}

// #endregion factors

// #region report

// Facts are the raw change-set measurements topology derivation needs.
type Facts struct {
	FileCount     int
	LineChanges   int
	HasTests      bool
	HasBreaking   bool
	FunctionNames []string
}

// Report is produced fresh per analysis and never mutated by the analyzer
// after it is returned.
type Report struct {
	FinalScore  float64
	Components  map[string]float64 // weighted sub-scores
	Factors     map[string]float64 // raw sub-scores in [0, 1]
	Reasons     []string
	Suggestions []string
	Decision    Decision
	Facts       Facts
}

// #endregion report
