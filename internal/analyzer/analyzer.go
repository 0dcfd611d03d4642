package analyzer

import (
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/agit/internal/changeset"
)

// #region analyzer

// Analyzer scores change sets on six independent factors. Patterns are
// compiled once; an Analyzer is safe for concurrent use.
type Analyzer struct {
	importPattern   *regexp.Regexp
	functionPattern *regexp.Regexp
	classPattern    *regexp.Regexp
	testPattern     *regexp.Regexp
	todoPattern     *regexp.Regexp
	breakingPattern *regexp.Regexp
	securityPattern *regexp.Regexp
}

// New compiles the analyzer's patterns.
func New() *Analyzer {
	return &Analyzer{
		importPattern:   regexp.MustCompile(`(?m)^(?:import|use|require|include|from .* import)`),
		functionPattern: regexp.MustCompile(`(?m)^(?:fn |def |function |const \w+ = |let \w+ = function)`),
		classPattern:    regexp.MustCompile(`(?m)^(?:class |struct |enum |trait |interface |type )`),
		testPattern:     regexp.MustCompile(`(?i)(?:#\[test\]|@test|describe\(|it\(|test\(|assert|expect)`),
		todoPattern:     regexp.MustCompile(`(?i)(?:TODO|FIXME|HACK|XXX|BUG|REFACTOR)`),
		breakingPattern: regexp.MustCompile(`(?i)(?:BREAKING|deprecated|removed|deleted)`),
		securityPattern: regexp.MustCompile(`(?i)(?:password|secret|token|api[_-]?key|private[_-]?key|auth|credential)`),
	}
}

// #endregion analyzer

// #region analyze

// Analyze parses change text and scores it.
func (a *Analyzer) Analyze(text string) Report {
	return a.AnalyzeRecords(changeset.Parse(text))
}

// AnalyzeRecords scores an already parsed change set. Sub-scorers run
// concurrently; each writes only its own slot so the weighted sum is always
// combined in factor order.
func (a *Analyzer) AnalyzeRecords(records []changeset.Record) Report {
	scorers := [...]func([]changeset.Record) float64{
		a.fileMetrics,
		a.complexity,
		a.coherence,
		a.testImpact,
		a.risk,
		a.documentation,
	}

	var raw [len(factorNames)]float64
	var g errgroup.Group
	for i, score := range scorers {
		g.Go(func() error {
			raw[i] = clamp(score(records))
			return nil
		})
	}
	_ = g.Wait() // scorers never fail

	report := Report{
		Components: make(map[string]float64, len(factorNames)),
		Factors:    make(map[string]float64, len(factorNames)),
		Facts:      a.facts(records),
	}
	for i, name := range factorNames {
		weighted := raw[i] * factorWeights[i]
		report.Factors[name] = raw[i]
		report.Components[name] = weighted
		report.FinalScore += weighted
	}

	recommend(&report)
	return report
}

// #endregion analyze

// #region file-metrics

// fileMetrics favors two to five files per change.
func (a *Analyzer) fileMetrics(records []changeset.Record) float64 {
	n := len(records)
	switch {
	case n == 0:
		return 0
	case n >= 2 && n <= 5:
		return 1.0
	case n == 1:
		return 0.7
	case n <= 10:
		return 0.8 - float64(n-5)*0.1
	default:
		return 0.3
	}
}

// #endregion file-metrics

// #region complexity

func (a *Analyzer) complexity(records []changeset.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var worst int
	for _, r := range records {
		worst = max(worst, decisionPoints(r))
	}
	switch {
	case worst > 10:
		return 0.3
	case worst > 7:
		return 0.6
	case worst > 4:
		return 0.8
	default:
		return 1.0
	}
}

// decisionPoints starts at 1 and adds one for every branching, looping,
// short-circuit or fallible construct found on an added line.
func decisionPoints(r changeset.Record) int {
	n := 1
	for _, line := range r.Added {
		if containsAny(line, "if ", "if(") {
			n++
		}
		if containsAny(line, "else if", "elif") {
			n++
		}
		if containsAny(line, "for ", "for(") {
			n++
		}
		if containsAny(line, "while ", "while(") {
			n++
		}
		if containsAny(line, "match ", "switch") {
			n++
		}
		if containsAny(line, " && ", " || ") {
			n++
		}
		if containsAny(line, ".unwrap()", "?") {
			n++
		}
	}
	return n
}

// #endregion complexity

// #region coherence

func (a *Analyzer) coherence(records []changeset.Record) float64 {
	if len(records) == 0 {
		return 0
	}

	score := 1.0

	dirs := make(map[string]struct{})
	for _, r := range records {
		if d, ok := changeset.Dir(r.Path); ok {
			dirs[d] = struct{}{}
		}
	}
	switch {
	case len(dirs) > 3:
		score *= 0.7
	case len(dirs) == 1:
		score *= 1.2
	}

	var hasTests, hasSource, hasDocs, hasConfig bool
	for _, r := range records {
		if strings.Contains(r.Path, "test") {
			hasTests = true
		} else {
			hasSource = true
		}
		if changeset.IsMarkdownPath(r.Path) {
			hasDocs = true
		}
		if changeset.IsConfigPath(r.Path) {
			hasConfig = true
		}
	}
	if countTrue(hasTests, hasSource, hasDocs, hasConfig) > 2 {
		score *= 0.8
	}

	score *= nameSimilarity(a.functionNames(records))

	return min(score, 1.0)
}

// functionNames extracts the identifier following a function keyword on
// every added line that declares one.
func (a *Analyzer) functionNames(records []changeset.Record) []string {
	var names []string
	for _, r := range records {
		for _, line := range r.Added {
			if !a.functionPattern.MatchString(line) {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			names = append(names, strings.Trim(fields[1], "{(:="))
		}
	}
	return names
}

// nameSimilarity is 0.5 plus half the mean common-prefix ratio over every
// pair of names. It compares all pairs, so cost grows with the square of
// the number of extracted names; very large change sets pay for it here.
func nameSimilarity(names []string) float64 {
	if len(names) < 2 {
		return 1.0
	}
	var total float64
	var comparisons int
	for i := 0; i < len(names); i++ {
		a := []rune(names[i])
		for j := i + 1; j < len(names); j++ {
			b := []rune(names[j])
			longest := max(len(a), len(b))
			if longest == 0 {
				continue
			}
			total += float64(commonPrefix(a, b)) / float64(longest)
			comparisons++
		}
	}
	if comparisons == 0 {
		return 1.0
	}
	return 0.5 + (total/float64(comparisons))*0.5
}

// #endregion coherence

// #region test-impact

func (a *Analyzer) testImpact(records []changeset.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var hasTests, hasSource bool
	var sourceCount int
	for _, r := range records {
		switch {
		case changeset.IsTestPath(r.Path):
			hasTests = true
		case changeset.IsSourcePath(r.Path):
			hasSource = true
			sourceCount++
		}
	}
	switch {
	case hasSource && hasTests:
		return 1.0
	case hasTests:
		return 0.9
	case hasSource && sourceCount <= 3:
		return 0.6
	default:
		return 0.3
	}
}

// #endregion test-impact

// #region risk

// risk is inverted: a change with no risk markers scores 1.0.
func (a *Analyzer) risk(records []changeset.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var units, critical int
	for _, r := range records {
		for _, line := range r.Added {
			if a.breakingPattern.MatchString(line) {
				units += 3
			}
			if a.securityPattern.MatchString(line) {
				units += 2
			}
			if a.todoPattern.MatchString(line) {
				units++
			}
			if containsAny(line, ".unwrap()", "unsafe") {
				units += 2
			}
		}
		if changeset.IsCriticalPath(r.Path) {
			critical++
		}
		if len(r.Removed) > len(r.Added)*2 {
			units++
		}
	}
	switch {
	case units == 0 && critical == 0:
		return 1.0
	case units <= 2 && critical == 0:
		return 0.8
	case units <= 5 && critical <= 1:
		return 0.6
	case units <= 10:
		return 0.4
	default:
		return 0.2
	}
}

// #endregion risk

// #region documentation

func (a *Analyzer) documentation(records []changeset.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var docLines, codeLines int
	var docPath bool
	for _, r := range records {
		if changeset.IsDocPath(r.Path) {
			docPath = true
		}
		for _, line := range r.Added {
			trimmed := strings.TrimSpace(line)
			switch {
			case isDocLine(trimmed, line):
				docLines++
			case trimmed != "":
				codeLines++
			}
		}
	}
	if docPath {
		return 1.0
	}
	var ratio float64
	if codeLines > 0 {
		ratio = float64(docLines) / float64(codeLines)
	}
	switch {
	case ratio > 0.2:
		return 0.9
	case ratio > 0.1:
		return 0.7
	case ratio > 0.05:
		return 0.5
	default:
		return 0.3
	}
}

func isDocLine(trimmed, line string) bool {
	for _, prefix := range []string{"//", "#", "/**", "///"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return containsAny(line, "TODO", "NOTE")
}

// #endregion documentation

// #region facts

func (a *Analyzer) facts(records []changeset.Record) Facts {
	f := Facts{
		FileCount:     len(records),
		LineChanges:   changeset.TotalLines(records),
		FunctionNames: a.functionNames(records),
	}
	for _, r := range records {
		if changeset.IsTestPath(r.Path) {
			f.HasTests = true
		}
		for _, line := range r.Added {
			if a.testPattern.MatchString(line) {
				f.HasTests = true
			}
			if a.breakingPattern.MatchString(line) {
				f.HasBreaking = true
			}
		}
	}
	return f
}

// #endregion facts

// #region helpers

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func countTrue(flags ...bool) int {
	var n int
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

func commonPrefix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// clamp restricts v to [0, 1].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
