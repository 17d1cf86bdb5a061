package vdom

import (
	"sort"
	"strings"

	"github.com/vango-dev/vbind/pkg/view"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <input>, etc.
	KindText                  // Plain text node
	KindFragment              // Detached holder, grouping without wrapper
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// VNode is a view tree node.
type VNode struct {
	Kind     VKind       // Node type
	Tag      string      // Element tag name (e.g., "div")
	Attrs    []view.Attr // Attributes in declaration order
	Value    string      // Element value slot
	HasValue bool        // Whether Value has been written
	Text     string      // For KindText
	Children []*VNode    // Child nodes
	HID      string      // Hydration ID (assigned after compile)

	listeners map[string][]view.Listener
}

// GetAttr returns the value of the first attribute called name.
func (v *VNode) GetAttr(name string) (string, bool) {
	for _, a := range v.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetValue writes the element value slot.
func (v *VNode) SetValue(value string) {
	v.Value = value
	v.HasValue = true
}

// AddEventListener registers fn for event.
func (v *VNode) AddEventListener(event string, fn view.Listener) {
	if v.listeners == nil {
		v.listeners = make(map[string][]view.Listener)
	}
	v.listeners[event] = append(v.listeners[event], fn)
}

// Listeners returns the listeners registered for event.
func (v *VNode) Listeners(event string) []view.Listener {
	return v.listeners[event]
}

// Events returns the names of events with at least one listener.
func (v *VNode) Events() []string {
	events := make([]string, 0, len(v.listeners))
	for name := range v.listeners {
		events = append(events, name)
	}
	sort.Strings(events)
	return events
}

// IsInteractive returns true if this node has event listeners and needs a HID.
func (v *VNode) IsInteractive() bool {
	return v != nil && v.Kind == KindElement && len(v.listeners) > 0
}

// DetachChildren moves the children into a new fragment and returns it.
func (v *VNode) DetachChildren() *VNode {
	holder := &VNode{Kind: KindFragment, Children: v.Children}
	v.Children = nil
	return holder
}

// AppendChildren moves the children of holder onto v.
func (v *VNode) AppendChildren(holder *VNode) {
	v.Children = append(v.Children, holder.Children...)
	holder.Children = nil
}

// TextContent returns the concatenated text of the node and its descendants.
func (v *VNode) TextContent() string {
	if v == nil {
		return ""
	}
	if v.Kind == KindText {
		return v.Text
	}
	var b strings.Builder
	for _, child := range v.Children {
		b.WriteString(child.TextContent())
	}
	return b.String()
}

// Element creates an element node.
func Element(tag string, attrs []view.Attr, children ...*VNode) *VNode {
	return &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Attrs:    attrs,
		Children: children,
	}
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...*VNode) *VNode {
	return &VNode{
		Kind:     KindFragment,
		Children: children,
	}
}

// Attr creates an attribute.
func Attr(name, value string) view.Attr {
	return view.Attr{Name: name, Value: value}
}
