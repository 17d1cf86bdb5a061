package compiler

import (
	"regexp"
	"strings"

	"github.com/vango-dev/vbind/pkg/reactive"
)

// markerPattern matches {{expr}} interpolation markers.
var markerPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Template is text with {{path}} interpolation markers.
type Template struct {
	text  string
	spans [][]int
	paths []string
}

// ParseTemplate finds every marker in s. Marker paths are trimmed.
func ParseTemplate(s string) Template {
	t := Template{text: s}
	for _, m := range markerPattern.FindAllStringSubmatchIndex(s, -1) {
		t.spans = append(t.spans, m[:2])
		t.paths = append(t.paths, strings.TrimSpace(s[m[2]:m[3]]))
	}
	return t
}

// HasMarkers reports whether the template has any marker.
func (t Template) HasMarkers() bool { return len(t.paths) > 0 }

// Paths returns the marker paths in order.
func (t Template) Paths() []string { return t.paths }

// String returns the unrendered text.
func (t Template) String() string { return t.text }

// Render substitutes every marker with the stringified value returned for
// it. The first error stops rendering.
func (t Template) Render(value func(i int, path string) (any, error)) (string, error) {
	var b strings.Builder
	last := 0
	for i, span := range t.spans {
		b.WriteString(t.text[last:span[0]])
		v, err := value(i, t.paths[i])
		if err != nil {
			return "", err
		}
		b.WriteString(reactive.Stringify(v))
		last = span[1]
	}
	b.WriteString(t.text[last:])
	return b.String(), nil
}

// Interpolate renders s, resolving every marker through r.
func Interpolate(s string, r reactive.Resolver) (string, error) {
	return ParseTemplate(s).Render(func(_ int, path string) (any, error) {
		return r.Resolve(path)
	})
}
