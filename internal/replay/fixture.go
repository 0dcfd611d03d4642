package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/agit/internal/engine"
	"github.com/danielpatrickdp/agit/internal/scl"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	Config          FixtureConfig           `json:"config"`
	StartWeights    []float64               `json:"start_weights,omitempty"`
	Interactions    []FixtureInteraction    `json:"interactions"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureConfig mirrors the scoring options a replay needs. Zero values
// fall back to the defaults.
type FixtureConfig struct {
	Mode                string  `json:"mode,omitempty"`
	CommitThreshold     float64 `json:"commit_threshold,omitempty"`
	GhostThreshold      float64 `json:"ghost_threshold,omitempty"`
	SplitBytes          int     `json:"split_bytes,omitempty"`
	VetoOnAnalyzerSplit *bool   `json:"veto_on_analyzer_split,omitempty"`
	LearningRate        float64 `json:"learning_rate,omitempty"`
	Locale              string  `json:"locale,omitempty"`
}

// FixtureInteraction mirrors Interaction with JSON tags.
type FixtureInteraction struct {
	TurnID     string    `json:"turn_id"`
	ChangeText string    `json:"change_text"`
	Feedback   []float64 `json:"feedback,omitempty"`
}

// FixtureExpectedResult captures the expected action per turn.
type FixtureExpectedResult struct {
	TurnID   string `json:"turn_id"`
	Action   string `json:"action"`
	Topology string `json:"topology,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToEngineConfig converts a FixtureConfig to a scoring context config.
func (fc *FixtureConfig) ToEngineConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if fc.Mode != "" {
		mode, ok := engine.ParseMode(fc.Mode)
		if !ok {
			return engine.Config{}, fmt.Errorf("unknown mode %q", fc.Mode)
		}
		cfg.Mode = mode
	}
	if fc.CommitThreshold > 0 {
		cfg.Gate.CommitThreshold = fc.CommitThreshold
	}
	if fc.GhostThreshold > 0 {
		cfg.Gate.GhostThreshold = fc.GhostThreshold
	}
	if fc.SplitBytes > 0 {
		cfg.Gate.SplitBytes = fc.SplitBytes
	}
	if fc.VetoOnAnalyzerSplit != nil {
		cfg.Gate.VetoOnAnalyzerSplit = *fc.VetoOnAnalyzerSplit
	}
	if fc.LearningRate > 0 {
		cfg.Update.LearningRate = fc.LearningRate
	}
	if fc.Locale != "" {
		cfg.Locale = scl.ParseLocale(fc.Locale)
	}
	return cfg, nil
}

// ToInteraction converts a FixtureInteraction to a domain Interaction.
func (fi *FixtureInteraction) ToInteraction() Interaction {
	return Interaction{
		TurnID:     fi.TurnID,
		ChangeText: fi.ChangeText,
		Feedback:   fi.Feedback,
	}
}

// Interactions converts every fixture interaction.
func (f *Fixture) ToInteractions() []Interaction {
	out := make([]Interaction, len(f.Interactions))
	for i := range f.Interactions {
		out[i] = f.Interactions[i].ToInteraction()
	}
	return out
}

// #endregion fixture-loader

// #region fixture-check

// Mismatch is one turn whose replayed result disagrees with the fixture.
type Mismatch struct {
	Index    int
	TurnID   string
	Expected FixtureExpectedResult
	Actual   Result
}

// RunFixture replays a fixture and reports every disagreement with its
// expected results. A length mismatch is an error.
func RunFixture(f *Fixture) ([]Result, []Mismatch, error) {
	cfg, err := f.Config.ToEngineConfig()
	if err != nil {
		return nil, nil, err
	}
	results := Replay(cfg, f.StartWeights, f.ToInteractions())
	if len(results) != len(f.ExpectedResults) {
		return results, nil, fmt.Errorf("fixture has %d expected results for %d interactions",
			len(f.ExpectedResults), len(results))
	}

	var mismatches []Mismatch
	for i, exp := range f.ExpectedResults {
		got := results[i]
		if got.TurnID != exp.TurnID || got.Action != exp.Action ||
			(exp.Topology != "" && got.Topology != exp.Topology) {
			mismatches = append(mismatches, Mismatch{Index: i, TurnID: exp.TurnID, Expected: exp, Actual: got})
		}
	}
	return results, mismatches, nil
}

// #endregion fixture-check
