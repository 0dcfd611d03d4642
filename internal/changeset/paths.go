package changeset

import "strings"

// #region classifiers

var sourceExtensions = []string{".rs", ".py", ".js", ".ts", ".go"}

var configExtensions = []string{".toml", ".json", ".yml", ".yaml"}

var criticalPathTerms = []string{"auth", "security", "payment", "database"}

// IsTestPath reports whether a path looks like test or spec code.
func IsTestPath(path string) bool {
	return strings.Contains(path, "test") || strings.Contains(path, "spec")
}

// IsSourcePath reports whether a path has a recognized source extension.
func IsSourcePath(path string) bool {
	return hasAnySuffix(path, sourceExtensions)
}

// IsMarkdownPath reports whether a path is a markdown document.
func IsMarkdownPath(path string) bool {
	return strings.HasSuffix(path, ".md")
}

// IsDocPath reports README changes and anything under a doc-like path.
func IsDocPath(path string) bool {
	return strings.HasSuffix(path, "README.md") || strings.Contains(path, "doc")
}

// IsConfigPath reports whether a path is a structured config file.
func IsConfigPath(path string) bool {
	return hasAnySuffix(path, configExtensions)
}

// IsCriticalPath reports paths that touch authentication, security,
// payments or persistence.
func IsCriticalPath(path string) bool {
	for _, term := range criticalPathTerms {
		if strings.Contains(path, term) {
			return true
		}
	}
	return false
}

// Dir returns the parent directory of path. Top-level paths have none.
func Dir(path string) (string, bool) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", false
	}
	return path[:i], true
}

// TotalLines sums added and removed lines across records.
func TotalLines(records []Record) int {
	var n int
	for _, r := range records {
		n += r.LineChanges()
	}
	return n
}

// #endregion classifiers

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
