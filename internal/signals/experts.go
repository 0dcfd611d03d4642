package signals

import "strings"

// #region defaults

// DefaultExperts returns the built-in experts in fusion order.
func DefaultExperts() []Expert {
	return []Expert{SyntaxExpert{}, LogicExpert{}, SemanticExpert{}}
}

// #endregion defaults

// #region syntax

// SyntaxExpert reads quality markers: unfinished-work tags pull its opinion
// negative, tests and doc comments push it up.
type SyntaxExpert struct{}

func (SyntaxExpert) Name() string { return "syntax" }

func (SyntaxExpert) Opinion(text string) Opinion {
	unfinished := containsAny(text, "TODO", "FIXME", "HACK", "XXX")
	hasTests := containsAny(text, "test_", "Test")
	hasDocs := containsAny(text, "///", "/**")

	switch {
	case unfinished:
		return Broadcast(-0.8)
	case hasTests && hasDocs:
		return Broadcast(0.9)
	case hasTests || hasDocs:
		return Broadcast(0.6)
	default:
		return Broadcast(0.3)
	}
}

// #endregion syntax

// #region logic

// LogicExpert prefers changes touching three to seven files.
type LogicExpert struct{}

func (LogicExpert) Name() string { return "logic" }

func (LogicExpert) Opinion(text string) Opinion {
	files := strings.Count(text, "MODIFIED:") + strings.Count(text, "NEW:")
	switch {
	case files >= 3 && files <= 7:
		return Broadcast(0.8)
	case files < 3:
		return Broadcast(0.4)
	default:
		return Broadcast(0.3)
	}
}

// #endregion logic

// #region semantic

// SemanticExpert rewards modified and new files that share few directories.
type SemanticExpert struct{}

func (SemanticExpert) Name() string { return "semantic" }

func (SemanticExpert) Opinion(text string) Opinion {
	var paths []string
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, "MODIFIED:") && !strings.HasPrefix(line, "NEW:") {
			continue
		}
		if fields := strings.Fields(line); len(fields) > 1 {
			paths = append(paths, fields[1])
		}
	}
	if len(paths) == 0 {
		return Broadcast(0)
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		if i := strings.LastIndexByte(p, '/'); i >= 0 {
			dirs[p[:i]] = struct{}{}
		}
	}
	switch n := len(dirs); {
	case n <= 2:
		return Broadcast(0.9)
	case n <= 4:
		return Broadcast(0.6)
	default:
		return Broadcast(0.3)
	}
}

// #endregion semantic

// #region helpers

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// #endregion helpers
