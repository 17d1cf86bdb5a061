package vtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/pkg/render"
	"github.com/vango-dev/vbind/pkg/vdom"
	"github.com/vango-dev/vbind/pkg/view"
)

// Harness is a mounted template.
type Harness struct {
	t    testing.TB
	VM   *vbind.VM
	Root *vdom.VNode
}

// Mount parses markup and creates a VM over it. When opts.El is nil the
// whole parsed fragment is the compile root. opts.Document defaults to the
// parsed tree.
func Mount(t testing.TB, markup string, opts vbind.Options) *Harness {
	t.Helper()
	root, err := vdom.ParseString(markup)
	if err != nil {
		t.Fatalf("vtest: parse: %v", err)
	}
	if opts.Document == nil {
		opts.Document = vdom.NewDocument(root)
	}
	if opts.El == nil {
		opts.El = vdom.Node(root)
	}
	vm, err := vbind.New(opts)
	if err != nil {
		t.Fatalf("vtest: mount: %v", err)
	}
	return &Harness{t: t, VM: vm, Root: root}
}

// Query returns the first node matching sel and fails the test when there
// is none.
func (h *Harness) Query(sel string) *vdom.VNode {
	h.t.Helper()
	n := vdom.Query(h.Root, sel)
	if n == nil {
		h.t.Fatalf("vtest: no element matches %q", sel)
	}
	return n
}

// Fire dispatches event on the element matching sel and returns the
// listeners' error.
func (h *Harness) Fire(sel, event, value string) error {
	h.t.Helper()
	return vdom.Dispatch(h.Query(sel), view.Event{Type: event, Value: value})
}

// Input types value into the element matching sel.
func (h *Harness) Input(sel, value string) {
	h.t.Helper()
	if err := h.Fire(sel, "input", value); err != nil {
		h.t.Fatalf("vtest: input %s: %v", sel, err)
	}
}

// Click clicks the element matching sel.
func (h *Harness) Click(sel string) {
	h.t.Helper()
	if err := vdom.Click(h.Query(sel)); err != nil {
		h.t.Fatalf("vtest: click %s: %v", sel, err)
	}
}

// Set writes path and fails the test on error.
func (h *Harness) Set(path string, value any) {
	h.t.Helper()
	if err := h.VM.SetPath(path, value); err != nil {
		h.t.Fatalf("vtest: set %s: %v", path, err)
	}
}

// Get reads path and fails the test on error.
func (h *Harness) Get(path string) any {
	h.t.Helper()
	v, err := h.VM.Resolve(path)
	if err != nil {
		h.t.Fatalf("vtest: get %s: %v", path, err)
	}
	return v
}

// Text returns the text content of the element matching sel.
func (h *Harness) Text(sel string) string {
	h.t.Helper()
	return h.Query(sel).TextContent()
}

// Value returns the value slot of the element matching sel.
func (h *Harness) Value(sel string) string {
	h.t.Helper()
	return h.Query(sel).Value
}

// HTML renders the mounted tree without directive attributes.
func (h *Harness) HTML() string {
	return RenderToString(h.Root)
}

// ExpectText asserts the text content of the element matching sel.
func (h *Harness) ExpectText(sel, want string) {
	h.t.Helper()
	if got := h.Text(sel); got != want {
		h.t.Errorf("text of %s = %q, want %q", sel, got, want)
	}
}

// ExpectValue asserts the value slot of the element matching sel.
func (h *Harness) ExpectValue(sel, want string) {
	h.t.Helper()
	if got := h.Value(sel); got != want {
		h.t.Errorf("value of %s = %q, want %q", sel, got, want)
	}
}

// RenderToString renders a VNode without directive attributes and returns
// the HTML string. Render errors yield "".
func RenderToString(node *vdom.VNode) string {
	r := render.NewRenderer(render.RendererConfig{StripDirectives: true})
	html, err := r.RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
