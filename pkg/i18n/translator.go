package i18n

import (
	"fmt"
	"regexp"
	"slices"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when nothing in the request matches.
const DefaultLanguage = "pt-BR"

var placeholder = regexp.MustCompile(`%\{([^}]+)\}`)

// Translator resolves message keys for the supported languages.
// It is immutable after construction and safe for concurrent use.
type Translator struct {
	catalog     Catalog
	defaultLang string
	langs       []string
	matcher     language.Matcher
}

// NewTranslator builds a Translator over cat. defaultLang must be one of
// the catalog languages.
func NewTranslator(cat Catalog, defaultLang string) (*Translator, error) {
	if len(cat) == 0 {
		return nil, ErrNoTranslations
	}
	def, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLanguage, defaultLang)
	}
	if _, ok := cat[def.String()]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDefault, def)
	}

	// The default goes first so the matcher falls back to it.
	langs := []string{def.String()}
	for lang := range cat {
		if lang != def.String() {
			langs = append(langs, lang)
		}
	}
	slices.Sort(langs[1:])

	tags := make([]language.Tag, len(langs))
	for i, l := range langs {
		tags[i] = language.MustParse(l)
	}

	return &Translator{
		catalog:     cat,
		defaultLang: def.String(),
		langs:       langs,
		matcher:     language.NewMatcher(tags),
	}, nil
}

func (t *Translator) DefaultLanguage() string { return t.defaultLang }

// Languages lists the supported languages, default first.
func (t *Translator) Languages() []string { return slices.Clone(t.langs) }

// Has reports whether lang defines key, without fallback.
func (t *Translator) Has(lang, key string) bool {
	_, ok := t.catalog[lang][key]
	return ok
}

// T translates key into lang, substituting %{name} placeholders from the
// name/value pairs in args. Missing keys fall back to the default language
// and then to the key itself.
func (t *Translator) T(lang, key string, args ...any) string {
	params := make(map[string]any, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[fmt.Sprint(args[i])] = args[i+1]
	}
	return t.Tm(lang, key, params)
}

// Tm is T with the placeholder values given as a map.
func (t *Translator) Tm(lang, key string, params map[string]any) string {
	tmpl, ok := t.catalog[lang][key]
	if !ok {
		tmpl, ok = t.catalog[t.defaultLang][key]
	}
	if !ok {
		return key
	}
	if len(params) == 0 {
		return tmpl
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		if v, ok := params[m[2:len(m)-1]]; ok {
			return fmt.Sprint(v)
		}
		return m
	})
}

// Match picks the supported language closest to the given BCP 47 codes or
// Accept-Language header values, in order of preference.
func (t *Translator) Match(prefs ...string) string {
	var tags []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		if parsed, _, err := language.ParseAcceptLanguage(p); err == nil {
			tags = append(tags, parsed...)
		}
	}
	if len(tags) == 0 {
		return t.defaultLang
	}
	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No {
		return t.defaultLang
	}
	return t.langs[idx]
}
