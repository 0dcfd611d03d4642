package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/danielpatrickdp/agit/internal/changeset"
	"github.com/danielpatrickdp/agit/internal/scl"
)

// #region message

type commitType struct {
	name string
	icon string
}

var (
	typeTest = commitType{"test", "🧪"}
	typeDocs = commitType{"docs", "📝"}
	typeFix  = commitType{"fix", "🐛"}
	typeFeat = commitType{"feat", "✨"}
)

// message renders the commit message for an outcome. With SCL on it is the
// localized token sentence followed by the canonical string; otherwise it is
// a conventional message naming the file, or the file count, and the time.
func (c *Context) message(records []changeset.Record, commit scl.Commit) string {
	if c.config.SCL {
		return c.renderer.Render(commit, c.config.Locale) + " " + commit.Canonical
	}
	return ConventionalMessage(records, c.now())
}

// ConventionalMessage builds "<icon> <type>: update <file|N files> [HH:MM]".
func ConventionalMessage(records []changeset.Record, now time.Time) string {
	paths := make([]string, len(records))
	for i, r := range records {
		paths[i] = r.Path
	}
	t := classify(paths)
	stamp := now.UTC().Format("15:04")
	if len(paths) == 1 {
		return fmt.Sprintf("%s %s: update %s [%s]", t.icon, t.name, paths[0], stamp)
	}
	return fmt.Sprintf("%s %s: update %d files [%s]", t.icon, t.name, len(paths), stamp)
}

func classify(paths []string) commitType {
	switch {
	case anyPath(paths, func(p string) bool { return strings.Contains(p, "test") }):
		return typeTest
	case anyPath(paths, changeset.IsMarkdownPath):
		return typeDocs
	case anyPath(paths, func(p string) bool { return strings.Contains(p, "fix") || strings.Contains(p, "bug") }):
		return typeFix
	default:
		return typeFeat
	}
}

func anyPath(paths []string, pred func(string) bool) bool {
	for _, p := range paths {
		if pred(p) {
			return true
		}
	}
	return false
}

// #endregion message
