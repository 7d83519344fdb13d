package game

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed replies.yaml
var repliesYAML []byte

var placeholderPattern = regexp.MustCompile(`\{\{\s*\.([A-Za-z][A-Za-z0-9_]*)\s*\}\}`)

// Replies renders localized reply templates keyed by message name.
type Replies struct {
	templates map[Language]map[string]*template.Template
}

// LoadReplies parses the embedded reply table and checks it for
// consistency: every locale must carry the same keys, and a key's
// placeholders must agree across locales. A broken table fails startup
// rather than surfacing mid-conversation.
func LoadReplies() (*Replies, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(repliesYAML, &raw); err != nil {
		return nil, fmt.Errorf("parse replies: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("parse replies: no locales")
	}

	r := &Replies{templates: make(map[Language]map[string]*template.Template)}
	placeholders := make(map[string]map[string]string)
	for locale, messages := range raw {
		parsed := make(map[string]*template.Template, len(messages))
		for key, text := range messages {
			tpl, err := template.New(locale + "/" + key).Option("missingkey=error").Parse(text)
			if err != nil {
				return nil, fmt.Errorf("parse reply %s/%s: %w", locale, key, err)
			}
			parsed[key] = tpl
			if placeholders[key] == nil {
				placeholders[key] = make(map[string]string)
			}
			placeholders[key][locale] = placeholderSet(text)
		}
		r.templates[Language(locale)] = parsed
	}

	locales := make([]string, 0, len(raw))
	for locale := range raw {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	for key, byLocale := range placeholders {
		want := byLocale[locales[0]]
		for _, locale := range locales {
			got, ok := byLocale[locale]
			if !ok {
				return nil, fmt.Errorf("reply %q missing from locale %q", key, locale)
			}
			if got != want {
				return nil, fmt.Errorf("reply %q placeholders differ: %s has [%s], %s has [%s]",
					key, locales[0], want, locale, got)
			}
		}
	}
	return r, nil
}

func placeholderSet(text string) string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// Render produces the reply for key in the given locale. Unknown locales
// fall back to Polish; an unknown key is an error.
func (r *Replies) Render(lang Language, key string, data map[string]any) (string, error) {
	table, ok := r.templates[lang]
	if !ok {
		table = r.templates[LangPolish]
	}
	tpl, ok := table[key]
	if !ok {
		return "", fmt.Errorf("no reply template %q", key)
	}
	var b strings.Builder
	if err := tpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render reply %q: %w", key, err)
	}
	return b.String(), nil
}
