package vdom

import "github.com/vango-dev/vbind/pkg/view"

// Node adapts v to the view interfaces. Elements and fragments satisfy
// view.Element and view.Host; text nodes satisfy view.Text.
func Node(v *VNode) view.Node {
	if v == nil {
		return nil
	}
	if v.Kind == KindText {
		return textNode{v}
	}
	return elementNode{v}
}

// Unwrap returns the VNode behind a view.Node created by this package.
func Unwrap(n view.Node) (*VNode, bool) {
	switch t := n.(type) {
	case elementNode:
		return t.v, true
	case textNode:
		return t.v, true
	}
	return nil, false
}

type elementNode struct {
	v *VNode
}

func (e elementNode) Kind() view.Kind { return view.KindElement }

func (e elementNode) ChildNodes() []view.Node {
	return childNodes(e.v)
}

func (e elementNode) Attributes() []view.Attr {
	attrs := make([]view.Attr, len(e.v.Attrs))
	copy(attrs, e.v.Attrs)
	return attrs
}

func (e elementNode) SetValue(value string) {
	e.v.SetValue(value)
}

func (e elementNode) AddEventListener(event string, fn view.Listener) {
	e.v.AddEventListener(event, fn)
}

func (e elementNode) DetachChildren() view.Node {
	return elementNode{e.v.DetachChildren()}
}

func (e elementNode) AppendChildren(holder view.Node) {
	if h, ok := Unwrap(holder); ok {
		e.v.AppendChildren(h)
	}
}

type textNode struct {
	v *VNode
}

func (t textNode) Kind() view.Kind { return view.KindText }

func (t textNode) ChildNodes() []view.Node { return nil }

func (t textNode) TextContent() string { return t.v.Text }

func (t textNode) SetTextContent(text string) { t.v.Text = text }

func childNodes(v *VNode) []view.Node {
	if len(v.Children) == 0 {
		return nil
	}
	nodes := make([]view.Node, len(v.Children))
	for i, child := range v.Children {
		nodes[i] = Node(child)
	}
	return nodes
}

// Document resolves selectors against a parsed tree.
type Document struct {
	Root *VNode
}

// NewDocument returns a Document over root.
func NewDocument(root *VNode) *Document {
	return &Document{Root: root}
}

// QuerySelector implements view.Document.
func (d *Document) QuerySelector(selector string) (view.Node, bool) {
	found := Query(d.Root, selector)
	if found == nil {
		return nil, false
	}
	return Node(found), true
}
