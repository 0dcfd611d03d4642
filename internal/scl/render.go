package scl

import "strings"

// #region locale

// Locale selects a rendering dictionary.
type Locale string

const (
	English  Locale = "en"
	Spanish  Locale = "es"
	Chinese  Locale = "zh"
	Japanese Locale = "ja"
	French   Locale = "fr"
	German   Locale = "de"
	Dutch    Locale = "nl"
)

// ParseLocale maps a language code to a Locale. Unknown codes render in English.
func ParseLocale(code string) Locale {
	switch l := Locale(strings.ToLower(strings.TrimSpace(code))); l {
	case Spanish, Chinese, Japanese, French, German, Dutch:
		return l
	default:
		return English
	}
}

// #endregion locale

// #region dictionaries

// Dictionary maps symbolic token names to words.
type Dictionary map[string]string

var builtinDictionaries = map[Locale]Dictionary{
	English: {
		"Fix": "fix", "Add": "add", "Remove": "remove", "Update": "update", "Refactor": "refactor",
		"Authentication": "authentication", "Security": "security", "Performance": "performance",
		"Testing": "testing", "Documentation": "documentation",
		"EdgeCase": "edge case", "Feature": "feature", "Bug": "bug", "Enhancement": "enhancement",
	},
	Spanish: {
		"Fix": "corregir", "Add": "añadir", "Remove": "eliminar", "Update": "actualizar", "Refactor": "refactorizar",
		"Authentication": "autenticación", "Security": "seguridad", "Performance": "rendimiento",
		"Testing": "pruebas", "Documentation": "documentación",
		"EdgeCase": "caso límite", "Feature": "característica", "Bug": "error", "Enhancement": "mejora",
	},
	Chinese: {
		"Fix": "修复", "Add": "添加", "Remove": "删除", "Update": "更新", "Refactor": "重构",
		"Authentication": "身份验证", "Security": "安全", "Performance": "性能",
		"Testing": "测试", "Documentation": "文档",
		"EdgeCase": "边缘情况", "Feature": "功能", "Bug": "错误", "Enhancement": "增强",
	},
	Japanese: {
		"Fix": "修正", "Add": "追加", "Remove": "削除", "Update": "更新", "Refactor": "リファクタリング",
		"Authentication": "認証", "Security": "セキュリティ", "Performance": "パフォーマンス",
		"Testing": "テスト", "Documentation": "ドキュメント",
		"EdgeCase": "エッジケース", "Feature": "機能", "Bug": "バグ", "Enhancement": "改善",
	},
	French: {
		"Fix": "corriger", "Add": "ajouter", "Remove": "supprimer", "Update": "mettre à jour", "Refactor": "refactoriser",
		"Authentication": "authentification", "Security": "sécurité", "Performance": "performance",
		"Testing": "tests", "Documentation": "documentation",
		"EdgeCase": "cas limite", "Feature": "fonctionnalité", "Bug": "bogue", "Enhancement": "amélioration",
	},
	German: {
		"Fix": "beheben", "Add": "hinzufügen", "Remove": "entfernen", "Update": "aktualisieren", "Refactor": "umstrukturieren",
		"Authentication": "Authentifizierung", "Security": "Sicherheit", "Performance": "Leistung",
		"Testing": "Tests", "Documentation": "Dokumentation",
		"EdgeCase": "Grenzfall", "Feature": "Funktion", "Bug": "Fehler", "Enhancement": "Verbesserung",
	},
}

// #endregion dictionaries

// #region renderer

// Renderer turns commits into natural-language messages.
type Renderer struct {
	dictionaries map[Locale]Dictionary
}

// NewRenderer returns a renderer loaded with the built-in dictionaries.
// Dutch is deliberately left without one.
func NewRenderer() *Renderer {
	r := &Renderer{dictionaries: make(map[Locale]Dictionary, len(builtinDictionaries))}
	for l, d := range builtinDictionaries {
		r.Register(l, d)
	}
	return r
}

// Register installs or replaces the dictionary for a locale.
func (r *Renderer) Register(l Locale, d Dictionary) {
	own := make(Dictionary, len(d))
	for k, v := range d {
		own[k] = v
	}
	r.dictionaries[l] = own
}

// Locales lists the locales that have a dictionary.
func (r *Renderer) Locales() []Locale {
	out := make([]Locale, 0, len(r.dictionaries))
	for l := range r.dictionaries {
		out = append(out, l)
	}
	return out
}

// Render composes "first: rest..." from the commit's tokens. A token the
// locale has no word for, or a locale without a dictionary, renders as the
// token's symbolic name.
func (r *Renderer) Render(c Commit, l Locale) string {
	dict := r.dictionaries[l]
	words := make([]string, 0, len(c.Tokens))
	for _, t := range c.Tokens {
		key := t.String()
		if w, ok := dict[key]; ok {
			words = append(words, w)
		} else {
			words = append(words, key)
		}
	}
	if len(words) >= 2 {
		return words[0] + ": " + strings.Join(words[1:], " ")
	}
	return strings.Join(words, " ")
}

// #endregion renderer
