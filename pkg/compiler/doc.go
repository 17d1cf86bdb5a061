// Package compiler binds a view tree to a reactive scope.
//
// Compile parks the root's children in a detached holder, walks them once,
// and reattaches them when every binding is in place. During the walk:
//
//   - every element attribute starting with the directive prefix ("v-") is a
//     value binding: the element's value slot shows the attribute's path and
//     is re-rendered on every notify. The two-way directive ("v-model") also
//     writes input events back to the path.
//   - every element attribute starting with the event prefix ("@") attaches a
//     listener that calls a method with one literal argument:
//     @click="add(5)" calls add("5", event).
//   - every {{expr}} marker in a text node is a text binding.
//
// If anything fails the walk stops and the children are not reattached.
// There is no rollback.
package compiler
