package scl

// #region token

// Token is one word of the closed commit vocabulary.
type Token uint8

const (
	// actions
	Fix Token = iota
	Add
	Remove
	Update
	Refactor

	// domains
	Authentication
	Security
	Performance
	Testing
	Documentation

	// modifiers
	EdgeCase
	Feature
	Bug
	Enhancement

	tokenCount
)

// Class groups tokens by the role they play in a message.
type Class string

const (
	ClassAction   Class = "action"
	ClassDomain   Class = "domain"
	ClassModifier Class = "modifier"
)

var tokenNames = [tokenCount]string{
	"Fix", "Add", "Remove", "Update", "Refactor",
	"Authentication", "Security", "Performance", "Testing", "Documentation",
	"EdgeCase", "Feature", "Bug", "Enhancement",
}

var tokenCodes = [tokenCount]string{
	"⠋⠊⠭", "⠁⠙⠙", "⠗⠑⠍", "⠥⠏⠙", "⠗⠑⠋",
	"⠁⠥⠞⠓", "⠎⠑⠉", "⠏⠑⠗⠋", "⠞⠑⠎⠞", "⠙⠕⠉",
	"⠑⠙⠛⠑", "⠋⠑⠁⠞", "⠃⠥⠛", "⠑⠝⠓",
}

var (
	byCode = make(map[string]Token, tokenCount)
	byName = make(map[string]Token, tokenCount)
)

func init() {
	for t := Token(0); t < tokenCount; t++ {
		byCode[tokenCodes[t]] = t
		byName[tokenNames[t]] = t
	}
}

// Tokens returns the full vocabulary in declaration order.
func Tokens() []Token {
	out := make([]Token, 0, tokenCount)
	for t := Token(0); t < tokenCount; t++ {
		out = append(out, t)
	}
	return out
}

// String returns the symbolic name, which is also the dictionary key.
func (t Token) String() string {
	if t >= tokenCount {
		return "Unknown"
	}
	return tokenNames[t]
}

// Code returns the fixed cell string for t.
func (t Token) Code() string {
	if t >= tokenCount {
		return ""
	}
	return tokenCodes[t]
}

// Class reports whether t is an action, a domain or a modifier.
func (t Token) Class() Class {
	switch {
	case t <= Refactor:
		return ClassAction
	case t <= Documentation:
		return ClassDomain
	default:
		return ClassModifier
	}
}

// TokenFromCode reverses Code.
func TokenFromCode(code string) (Token, bool) {
	t, ok := byCode[code]
	return t, ok
}

// TokenFromName reverses String.
func TokenFromName(name string) (Token, bool) {
	t, ok := byName[name]
	return t, ok
}

// #endregion token
