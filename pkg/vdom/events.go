package vdom

import (
	"errors"

	"github.com/vango-dev/vbind/pkg/view"
)

// Dispatch delivers a native event to every listener node has for ev.Type,
// in registration order. For input and change events the node's value slot
// is updated to ev.Value first. Listener errors are joined and returned;
// a failing listener does not stop the ones after it.
func Dispatch(node *VNode, ev view.Event) error {
	if node == nil {
		return nil
	}
	if ev.Type == "input" || ev.Type == "change" {
		node.SetValue(ev.Value)
	}
	ev.Target = Node(node)

	var errs []error
	for _, fn := range node.Listeners(ev.Type) {
		if err := fn(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Input dispatches an input event carrying value.
func Input(node *VNode, value string) error {
	return Dispatch(node, view.Event{Type: "input", Value: value})
}

// Click dispatches a click event. The event carries the node's current value.
func Click(node *VNode) error {
	if node == nil {
		return nil
	}
	return Dispatch(node, view.Event{Type: "click", Value: node.Value})
}
