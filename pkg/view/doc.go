// Package view defines the narrow view-tree interface the binding engine
// consumes.
//
// The engine never depends on how nodes are represented or rendered. It needs
// ordered child enumeration, a two-case node kind (Element or Text), element
// attributes, a settable element value, event listener registration, a text
// content slot, and a host that can park its children in a detached holder
// while they are being bound.
//
// Package vdom provides the in-memory implementation used by the CLI, the
// live server and the tests.
package view
