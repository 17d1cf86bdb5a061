// Package render writes vdom trees as HTML.
//
// The renderer handles text and attribute escaping, void elements, and the
// element value slot: once a binding has written an element's value, the
// rendered value attribute (or textarea content) reflects it.
//
//	r := render.NewRenderer(render.RendererConfig{StripDirectives: true})
//	out, err := r.RenderToString(root)
//
// With HydrationAttrs set, elements that carry a HID also get data-hid and
// data-on-<event> markers for the live preview client.
package render
