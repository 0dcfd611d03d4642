package scl

import (
	"strings"

	"github.com/danielpatrickdp/agit/internal/changeset"
)

// #region keywords

var fixKeywords = []string{"fix", "bug", "patch", "hotfix", "regression"}

var refactorKeywords = []string{"refactor", "rename", "cleanup", "restructure", "extract"}

var authKeywords = []string{"auth", "login", "logout", "oauth", "session", "jwt"}

var securityKeywords = []string{"security", "secret", "crypto", "password", "credential", "sanitize", "csrf", "xss"}

var performanceKeywords = []string{"perf", "cache", "bench", "optimiz", "latency", "pool"}

var edgeCaseKeywords = []string{"edge", "corner", "boundary", "overflow", "nil check", "empty"}

// #endregion keywords

// #region infer

// Infer classifies a change set into at most one action, one domain and one
// modifier token via keyword heuristics over paths and added lines. The
// action is always present.
func Infer(records []changeset.Record) []Token {
	paths := make([]string, 0, len(records))
	var content strings.Builder
	for _, r := range records {
		paths = append(paths, strings.ToLower(r.Path))
		for _, line := range r.Added {
			content.WriteString(strings.ToLower(line))
			content.WriteByte('\n')
		}
	}
	pathText := strings.Join(paths, "\n")
	all := pathText + "\n" + content.String()

	tokens := []Token{inferAction(records, all)}
	if d, ok := inferDomain(paths, pathText, all); ok {
		tokens = append(tokens, d)
	}
	if m, ok := inferModifier(records, all); ok {
		tokens = append(tokens, m)
	}
	return tokens
}

// #endregion infer

// #region classify-action

func inferAction(records []changeset.Record, all string) Token {
	if len(records) > 0 && allKind(records, changeset.KindDeleted) {
		return Remove
	}
	if containsKeyword(all, fixKeywords) {
		return Fix
	}
	if containsKeyword(all, refactorKeywords) {
		return Refactor
	}
	if len(records) > 0 && allKind(records, changeset.KindNew) {
		return Add
	}
	return Update
}

// #endregion classify-action

// #region classify-domain

// inferDomain checks paths before content so a test-only or docs-only
// change is not pulled toward whatever its lines happen to mention.
func inferDomain(paths []string, pathText, all string) (Token, bool) {
	if len(paths) > 0 && allPaths(paths, changeset.IsTestPath) {
		return Testing, true
	}
	if len(paths) > 0 && allPaths(paths, changeset.IsMarkdownPath) {
		return Documentation, true
	}
	switch {
	case containsKeyword(pathText, authKeywords):
		return Authentication, true
	case containsKeyword(pathText, securityKeywords):
		return Security, true
	case containsKeyword(all, authKeywords):
		return Authentication, true
	case containsKeyword(all, securityKeywords):
		return Security, true
	case containsKeyword(all, performanceKeywords):
		return Performance, true
	}
	for _, p := range paths {
		if changeset.IsTestPath(p) {
			return Testing, true
		}
	}
	return 0, false
}

// #endregion classify-domain

// #region classify-modifier

func inferModifier(records []changeset.Record, all string) (Token, bool) {
	switch {
	case containsKeyword(all, edgeCaseKeywords):
		return EdgeCase, true
	case containsKeyword(all, []string{"bug"}):
		return Bug, true
	case anyKind(records, changeset.KindNew):
		return Feature, true
	case len(records) > 0:
		return Enhancement, true
	}
	return 0, false
}

// #endregion classify-modifier

// #region helpers

func containsKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func allKind(records []changeset.Record, k changeset.Kind) bool {
	for _, r := range records {
		if r.Kind != k {
			return false
		}
	}
	return true
}

func anyKind(records []changeset.Record, k changeset.Kind) bool {
	for _, r := range records {
		if r.Kind == k {
			return true
		}
	}
	return false
}

func allPaths(paths []string, pred func(string) bool) bool {
	for _, p := range paths {
		if !pred(p) {
			return false
		}
	}
	return true
}

// #endregion helpers
