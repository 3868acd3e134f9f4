// Package render projects catalog entries through placeholder templates and
// builds install manifests.
package render

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnknownPlaceholder is returned in strict mode for a token without a value.
var ErrUnknownPlaceholder = errors.New("unknown placeholder")

var placeholderRe = regexp.MustCompile(`\$[A-Z]+`)

// Mode controls how tokens without a value are handled.
type Mode int

const (
	// Lenient leaves unknown tokens untouched.
	Lenient Mode = iota
	// Strict fails on the first unknown token.
	Strict
)

// Values maps a placeholder name (without '$') to its value.
type Values map[string]any

// Template is a markup fragment containing $NAME placeholders.
type Template struct {
	text string
	mode Mode
}

// NewTemplate creates a template from text.
func NewTemplate(text string, mode Mode) *Template {
	return &Template{text: text, mode: mode}
}

// String returns the raw template text.
func (t *Template) String() string { return t.text }

// Placeholders returns the distinct placeholder names in order of first use.
func (t *Template) Placeholders() []string {
	var names []string
	seen := make(map[string]bool)
	for _, tok := range placeholderRe.FindAllString(t.text, -1) {
		if name := tok[1:]; !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Render substitutes every known token with its value.
func (t *Template) Render(values Values) (string, error) {
	var missing string
	out := placeholderRe.ReplaceAllStringFunc(t.text, func(tok string) string {
		v, ok := values[tok[1:]]
		if !ok {
			if missing == "" {
				missing = tok
			}
			return tok
		}
		return toText(v)
	})
	if t.mode == Strict && missing != "" {
		return "", fmt.Errorf("%w %s", ErrUnknownPlaceholder, missing)
	}
	return out, nil
}

func toText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
