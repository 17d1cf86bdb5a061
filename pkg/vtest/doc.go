// Package vtest provides testing helpers for bound templates.
//
// Mount parses markup, builds a VM over it and fails the test on any error:
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.Mount(t, `<button @click="inc()">+</button><span>{{count}}</span>`, vbind.Options{
//	        Data:    map[string]any{"count": 0},
//	        Methods: map[string]vbind.Method{"inc": inc},
//	    })
//	    h.Click("button")
//	    h.ExpectText("span", "1")
//	}
//
// # Firing Events
//
// Input and Click dispatch native events the way a browser would: an input
// event updates the element's value slot before listeners run. Fire returns
// the listener error instead of failing the test, for asserting on method
// failures.
//
// # Render Assertions
//
//	vtest.ExpectContains(t, h.Root, "Welcome")
//	vtest.ExpectNotContains(t, h.Root, "{{")
package vtest
