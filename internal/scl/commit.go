package scl

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielpatrickdp/agit/internal/topology"
)

// Separator joins segments of a canonical string.
const Separator = "."

// #region commit

// Commit is a compressed, locale-independent commit description.
type Commit struct {
	Tokens    []Token
	Canonical string
	Topology  *topology.Topology
	Author    string
	CreatedAt time.Time
}

// New builds a commit without a topology suffix.
func New(tokens []Token, author string) Commit {
	return build(tokens, author, nil)
}

// WithTopology builds a commit whose canonical string ends in the topology symbol.
func WithTopology(tokens []Token, author string, topo topology.Topology) Commit {
	return build(tokens, author, &topo)
}

func build(tokens []Token, author string, topo *topology.Topology) Commit {
	own := append([]Token(nil), tokens...)
	codes := make([]string, 0, len(own)+1)
	for _, t := range own {
		codes = append(codes, t.Code())
	}
	if topo != nil {
		codes = append(codes, topo.String())
	}
	return Commit{
		Tokens:    own,
		Canonical: strings.Join(codes, Separator),
		Topology:  topo,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}
}

// #endregion commit

// #region parse

// Parse decodes a canonical string. Segments that match a token code become
// tokens; a single-rune segment is tried as a topology symbol; everything
// else is dropped. ok is false when no token was recognized, even if a
// topology symbol was. A malformed topology leaves Topology nil.
//
// Telling tokens from topology by segment length only works while every
// token code is longer than one rune.
func Parse(canonical, author string) (Commit, bool) {
	var tokens []Token
	var topo *topology.Topology

	for _, part := range strings.Split(canonical, Separator) {
		if t, ok := TokenFromCode(part); ok {
			tokens = append(tokens, t)
			continue
		}
		if utf8.RuneCountInString(part) == 1 {
			r, _ := utf8.DecodeRuneInString(part)
			if decoded, ok := topology.FromSymbol(r); ok {
				topo = &decoded
			} else {
				topo = nil
			}
		}
	}

	if len(tokens) == 0 {
		return Commit{}, false
	}
	return Commit{
		Tokens:    tokens,
		Canonical: canonical,
		Topology:  topo,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}, true
}

// #endregion parse
