// Package vdom provides the in-memory view tree that vbind binds against.
//
// VNode is the concrete node: an element with ordered attributes, a value
// slot and event listeners, a text node, or a fragment used as a detached
// holder. Node adapts a VNode to the view interfaces the compiler consumes.
//
// # Building Trees
//
// Trees come from template markup:
//
//	root, err := vdom.Parse(strings.NewReader(`<div id="app"><p>{{msg}}</p></div>`))
//
// or from the builder functions:
//
//	vdom.Element("div", []view.Attr{vdom.Attr("id", "app")},
//	    vdom.Element("p", nil, vdom.Text("{{msg}}")),
//	)
//
// # Events
//
// Dispatch delivers a native event to an element's listeners. An input event
// writes the element's value slot before listeners run, as a browser does.
//
// # Hydration
//
// AssignHIDs gives every element with listeners a hydration ID so a remote
// client can address it. The live server uses these IDs to route browser
// events back to the bound element.
package vdom
