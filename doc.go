// Package vbind binds a plain nested data map to a view tree.
//
// A VM owns the reactive data, the computed properties, the methods and the
// subscriber registry for one root node:
//
//	root, _ := vdom.ParseString(`<div id="app"><input v-model="msg"><p>{{ msg }}</p></div>`)
//	vm, err := vbind.New(vbind.Options{
//	    El:       "#app",
//	    Document: vdom.NewDocument(root),
//	    Data:     map[string]any{"msg": "hello"},
//	})
//
// Writes through VM.Set or VM.SetPath re-render every binding. Input events
// on v-model elements write back into the data.
//
// A VM is not safe for concurrent use. Callers that share one across
// goroutines serialize access themselves.
package vbind
