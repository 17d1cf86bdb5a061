package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/vbind/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output. Whitespace-only text nodes are skipped
	// in pretty mode.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// StripDirectives omits binding directive and event attributes from the
	// output so the markup reads as plain HTML.
	StripDirectives bool

	// DirectivePrefix and EventPrefix name the attributes StripDirectives
	// removes. Default "v-" and "@".
	DirectivePrefix string
	EventPrefix     string

	// HydrationAttrs emits data-hid and data-on-<event> markers on elements
	// that carry a HID, so a client can route events back.
	HydrationAttrs bool
}

// Renderer writes vdom trees as HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	if config.DirectivePrefix == "" {
		config.DirectivePrefix = "v-"
	}
	if config.EventPrefix == "" {
		config.EventPrefix = "@"
	}
	return &Renderer{config: config}
}

// RenderToString renders a tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	return r.renderNode(w, node, 0)
}

// RenderToString renders node with a default renderer.
func RenderToString(node *vdom.VNode) (string, error) {
	return NewRenderer(RendererConfig{}).RenderToString(node)
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth)
	case vdom.KindText:
		return r.renderText(w, node, depth)
	case vdom.KindFragment:
		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode, depth int) error {
	tag := node.Tag

	if r.config.Pretty {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}

	if isVoidElement(tag) {
		if r.config.Pretty {
			w.Write([]byte{'\n'})
		}
		return nil
	}

	if tag == "textarea" && node.HasValue {
		// A textarea's value is its content.
		if _, err := io.WriteString(w, html.EscapeString(node.Value)); err != nil {
			return err
		}
	} else {
		block := r.config.Pretty && len(node.Children) > 0 && !isInlineElement(tag)
		if block {
			w.Write([]byte{'\n'})
		}
		for _, child := range node.Children {
			childDepth := depth + 1
			if !block {
				childDepth = -1
			}
			if err := r.renderNode(w, child, childDepth); err != nil {
				return err
			}
		}
		if block {
			r.writeIndent(w, depth)
		}
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty && depth >= 0 {
		w.Write([]byte{'\n'})
	}
	return nil
}

// renderText renders a text node with HTML escaping.
func (r *Renderer) renderText(w io.Writer, node *vdom.VNode, depth int) error {
	text := node.Text
	if r.config.Pretty && depth >= 0 {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
		r.writeIndent(w, depth)
		_, err := io.WriteString(w, html.EscapeString(text)+"\n")
		return err
	}
	_, err := io.WriteString(w, html.EscapeString(text))
	return err
}

// renderAttributes renders attributes in declaration order. The value slot,
// when written, replaces any value attribute from the template.
func (r *Renderer) renderAttributes(w io.Writer, node *vdom.VNode) error {
	wroteValue := false
	for _, a := range node.Attrs {
		if r.config.StripDirectives && r.isDirective(a.Name) {
			continue
		}
		value := a.Value
		if a.Name == "value" && node.HasValue {
			value = node.Value
			wroteValue = true
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(value)); err != nil {
			return err
		}
	}

	if node.HasValue && !wroteValue && node.Tag != "textarea" {
		if _, err := fmt.Fprintf(w, ` value="%s"`, escapeAttr(node.Value)); err != nil {
			return err
		}
	}

	if r.config.HydrationAttrs && node.HID != "" {
		if _, err := fmt.Fprintf(w, ` data-hid="%s"`, node.HID); err != nil {
			return err
		}
		for _, event := range node.Events() {
			if _, err := fmt.Fprintf(w, ` data-on-%s="true"`, escapeAttr(event)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) isDirective(name string) bool {
	return strings.HasPrefix(name, r.config.DirectivePrefix) || strings.HasPrefix(name, r.config.EventPrefix)
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}
