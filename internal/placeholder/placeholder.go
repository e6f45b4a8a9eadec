// Package placeholder implements dollar-sign templates: `$name` and
// `${name}` are replaced by named values and `$$` yields a literal dollar.
// Names match [_a-zA-Z][_a-zA-Z0-9]*. A reference to a name without a value
// is an error, as is a `$` that starts no valid placeholder.
package placeholder

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/nne/internal/apperr"
)

var (
	// ErrMissingKey is wrapped when a template references a name that has no value.
	ErrMissingKey = errors.New("no value supplied")
	// ErrInvalidPlaceholder is wrapped when a `$` starts no valid placeholder.
	ErrInvalidPlaceholder = errors.New("invalid placeholder")
)

// groups: 1 escaped, 2 named, 3 braced, 4 invalid
var pattern = regexp.MustCompile(`\$(?:(\$)|([_a-zA-Z][_a-zA-Z0-9]*)|\{([_a-zA-Z][_a-zA-Z0-9]*)\}|())`)

type segment struct {
	literal string
	key     string
}

// Template is a parsed dollar-sign template.
type Template struct {
	name     string
	segments []segment
}

// Parse splits src into literal text and placeholders. name identifies the
// template in errors.
func Parse(name, src string) (*Template, error) {
	t := &Template{name: name}
	var lit strings.Builder
	last := 0
	for _, m := range pattern.FindAllStringSubmatchIndex(src, -1) {
		lit.WriteString(src[last:m[0]])
		last = m[1]
		switch {
		case m[2] >= 0:
			lit.WriteByte('$')
		case m[4] >= 0:
			t.push(&lit, src[m[4]:m[5]])
		case m[6] >= 0:
			t.push(&lit, src[m[6]:m[7]])
		default:
			line, col := position(src, m[0])
			return nil, &apperr.TemplateError{
				Template: name,
				Err:      fmt.Errorf("%w at line %d, col %d", ErrInvalidPlaceholder, line, col),
			}
		}
	}
	lit.WriteString(src[last:])
	if lit.Len() > 0 {
		t.segments = append(t.segments, segment{literal: lit.String()})
	}
	return t, nil
}

func (t *Template) push(lit *strings.Builder, key string) {
	if lit.Len() > 0 {
		t.segments = append(t.segments, segment{literal: lit.String()})
		lit.Reset()
	}
	t.segments = append(t.segments, segment{key: key})
}

// Name returns the name the template was parsed with.
func (t *Template) Name() string {
	return t.name
}

// Keys returns the distinct placeholder names in order of first appearance.
func (t *Template) Keys() []string {
	var keys []string
	seen := make(map[string]struct{})
	for _, s := range t.segments {
		if s.key == "" {
			continue
		}
		if _, ok := seen[s.key]; ok {
			continue
		}
		seen[s.key] = struct{}{}
		keys = append(keys, s.key)
	}
	return keys
}

// Has reports whether the template references key.
func (t *Template) Has(key string) bool {
	for _, s := range t.segments {
		if s.key == key {
			return true
		}
	}
	return false
}

// Execute substitutes values into the template. Extra values are ignored.
func (t *Template) Execute(values map[string]string) (string, error) {
	var out strings.Builder
	for _, s := range t.segments {
		if s.key == "" {
			out.WriteString(s.literal)
			continue
		}
		v, ok := values[s.key]
		if !ok {
			return "", &apperr.TemplateError{Template: t.name, Key: s.key, Err: ErrMissingKey}
		}
		out.WriteString(v)
	}
	return out.String(), nil
}

// Substitute parses src and executes it with values in one step.
func Substitute(name, src string, values map[string]string) (string, error) {
	t, err := Parse(name, src)
	if err != nil {
		return "", err
	}
	return t.Execute(values)
}

func position(src string, offset int) (line, col int) {
	before := src[:offset]
	line = strings.Count(before, "\n") + 1
	col = offset - strings.LastIndex(before, "\n")
	return line, col
}
