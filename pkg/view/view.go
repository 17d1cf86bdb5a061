package view

// Kind is the node type discriminator. The binding engine only ever sees two
// kinds of node.
type Kind uint8

const (
	KindElement Kind = iota + 1 // element carrying attributes, a value slot and listeners
	KindText                    // text carrying a content slot
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Node is any position in the view tree.
type Node interface {
	// Kind reports whether the node is an Element or a Text.
	Kind() Kind

	// ChildNodes returns the node's children in document order.
	// Text nodes return nil.
	ChildNodes() []Node
}

// Attr is a single element attribute as written in the template.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of KindElement.
type Element interface {
	Node

	// Attributes returns the attributes in declaration order.
	Attributes() []Attr

	// SetValue writes the element's current value slot.
	SetValue(value string)

	// AddEventListener registers fn for the named native event.
	AddEventListener(event string, fn Listener)
}

// Text is a node of KindText.
type Text interface {
	Node

	TextContent() string
	SetTextContent(text string)
}

// Host is a node whose children can be moved into a detached holder and
// appended back.
type Host interface {
	Node

	// DetachChildren moves every child, in order, into a new detached holder
	// and returns it. The host is left empty.
	DetachChildren() Node

	// AppendChildren moves every child of holder, in order, onto the host.
	AppendChildren(holder Node)
}

// Document resolves selector strings to root nodes.
type Document interface {
	QuerySelector(selector string) (Node, bool)
}

// Event is a native event delivered to a listener.
type Event struct {
	// Type is the event name without any prefix (e.g. "input", "click").
	Type string

	// Value is the target's value at dispatch time.
	Value string

	// Target is the node the event was dispatched on.
	Target Node
}

// Listener handles a native event. A non-nil error is returned to whoever
// dispatched the event.
type Listener func(ev Event) error

// AsElement returns n as an Element when its kind is KindElement.
func AsElement(n Node) (Element, bool) {
	if n == nil || n.Kind() != KindElement {
		return nil, false
	}
	el, ok := n.(Element)
	return el, ok
}

// AsText returns n as a Text when its kind is KindText.
func AsText(n Node) (Text, bool) {
	if n == nil || n.Kind() != KindText {
		return nil, false
	}
	t, ok := n.(Text)
	return t, ok
}
