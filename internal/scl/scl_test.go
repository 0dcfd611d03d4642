package scl

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/agit/internal/changeset"
	"github.com/danielpatrickdp/agit/internal/topology"
)

func TestTokenCodeRoundTrip(t *testing.T) {
	codes := make(map[string]Token)
	for _, tok := range Tokens() {
		code := tok.Code()
		require.NotEmpty(t, code)
		assert.Greater(t, utf8.RuneCountInString(code), 1, "a one-rune code would parse as topology")
		_, dup := codes[code]
		require.False(t, dup, "code %q shared", code)
		codes[code] = tok

		got, ok := TokenFromCode(code)
		require.True(t, ok)
		assert.Equal(t, tok, got)

		byNameTok, ok := TokenFromName(tok.String())
		require.True(t, ok)
		assert.Equal(t, tok, byNameTok)
	}
	assert.Len(t, codes, 14)

	_, ok := TokenFromCode("⠿⠿")
	assert.False(t, ok)
}

func TestTokenClasses(t *testing.T) {
	assert.Equal(t, ClassAction, Fix.Class())
	assert.Equal(t, ClassAction, Refactor.Class())
	assert.Equal(t, ClassDomain, Authentication.Class())
	assert.Equal(t, ClassDomain, Documentation.Class())
	assert.Equal(t, ClassModifier, EdgeCase.Class())
	assert.Equal(t, ClassModifier, Enhancement.Class())
}

func TestCanonicalEncoding(t *testing.T) {
	c := New([]Token{Fix, Authentication, EdgeCase}, "dev@example.com")

	assert.Equal(t, "⠋⠊⠭.⠁⠥⠞⠓.⠑⠙⠛⠑", c.Canonical)
	assert.Nil(t, c.Topology)
	assert.Equal(t, "dev@example.com", c.Author)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestParse_PreservesTokenOrder(t *testing.T) {
	c := New([]Token{Fix, Authentication}, "a")

	got, ok := Parse(c.Canonical, "b")

	require.True(t, ok)
	assert.Equal(t, []Token{Fix, Authentication}, got.Tokens)
	assert.Nil(t, got.Topology)
	assert.Equal(t, "b", got.Author)
}

func TestParse_WithTopology(t *testing.T) {
	topo := topology.New(7, 5, 3)
	c := WithTopology([]Token{Add, Testing}, "a", topo)
	assert.Equal(t, "⠁⠙⠙.⠞⠑⠎⠞.⣯", c.Canonical)

	got, ok := Parse(c.Canonical, "a")

	require.True(t, ok)
	assert.Equal(t, []Token{Add, Testing}, got.Tokens)
	require.NotNil(t, got.Topology)
	assert.Equal(t, topo, *got.Topology)
}

func TestParse_NoTokensFails(t *testing.T) {
	_, ok := Parse("⣯", "a")
	assert.False(t, ok)

	_, ok = Parse("", "a")
	assert.False(t, ok)

	_, ok = Parse("garbage.more", "a")
	assert.False(t, ok)
}

func TestParse_DropsUnknownSegmentsAndBadTopology(t *testing.T) {
	got, ok := Parse("⠋⠊⠭.zz.⣯", "a")
	require.True(t, ok)
	assert.Equal(t, []Token{Fix}, got.Tokens)
	require.NotNil(t, got.Topology)

	got, ok = Parse("⠋⠊⠭.a", "a")
	require.True(t, ok)
	assert.Equal(t, []Token{Fix}, got.Tokens)
	assert.Nil(t, got.Topology)
}

func TestRender(t *testing.T) {
	r := NewRenderer()
	c := New([]Token{Fix, Authentication, EdgeCase}, "a")

	tests := []struct {
		name   string
		locale Locale
		want   string
	}{
		{"english", English, "fix: authentication edge case"},
		{"spanish", Spanish, "corregir: autenticación caso límite"},
		{"chinese", Chinese, "修复: 身份验证 边缘情况"},
		{"japanese", Japanese, "修正: 認証 エッジケース"},
		{"unconfigured-dutch", Dutch, "Fix: Authentication EdgeCase"},
		{"unknown-locale", Locale("xx"), "Fix: Authentication EdgeCase"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Render(c, tt.locale))
		})
	}
}

func TestRender_MissingTokenFallsBack(t *testing.T) {
	r := NewRenderer()
	r.Register(Locale("pirate"), Dictionary{"Fix": "patch up"})

	got := r.Render(New([]Token{Fix, Security}, "a"), Locale("pirate"))

	assert.Equal(t, "patch up: Security", got)
}

func TestRender_SingleAndEmpty(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, "add", r.Render(New([]Token{Add}, "a"), English))
	assert.Equal(t, "", r.Render(Commit{}, English))
}

func TestParseLocale(t *testing.T) {
	assert.Equal(t, Spanish, ParseLocale("es"))
	assert.Equal(t, Chinese, ParseLocale(" ZH "))
	assert.Equal(t, Dutch, ParseLocale("nl"))
	assert.Equal(t, English, ParseLocale("klingon"))
	assert.Equal(t, English, ParseLocale(""))
}

func TestInfer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Token
	}{
		{
			"auth-fix-edge",
			"MODIFIED: internal/auth/login.go\n+if token == \"\" { return errEmpty } // fix empty token\n",
			[]Token{Fix, Authentication, EdgeCase},
		},
		{
			"new-docs",
			"NEW: docs/guide.md\n+# Guide\n",
			[]Token{Add, Documentation, Feature},
		},
		{
			"deletion",
			"DELETED: old/legacy.go\n-package legacy\n",
			[]Token{Remove, Enhancement},
		},
		{
			"cache-update",
			"MODIFIED: pkg/cache/lru.go\n+func (c *LRU) Get(k string) {}\n",
			[]Token{Update, Performance, Enhancement},
		},
		{
			"tests-only",
			"MODIFIED: pkg/x_test.go\n+func TestX(t *testing.T) {}\n",
			[]Token{Update, Testing, Enhancement},
		},
		{
			"empty",
			"",
			[]Token{Update},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Infer(changeset.Parse(tt.text)))
		})
	}
}
