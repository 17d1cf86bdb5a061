package vbind

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vbind/pkg/compiler"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/view"
)

// Options configures a VM. Every field is optional.
type Options struct {
	// El is the compile root: a view.Node, or a selector string resolved
	// through Document. Nil skips compiling.
	El any

	// Document resolves a selector El.
	Document view.Document

	// Data is the initial data. It is copied, never aliased. Nil means no
	// data keys.
	Data map[string]any

	// Computed are read-only names evaluated on every access.
	Computed map[string]Computed

	// Methods are callable from event directives and VM.Call.
	Methods map[string]Method

	// Mode selects broadcast (default) or path-filtered notification.
	Mode reactive.Mode

	// DirectivePrefix and EventPrefix override "v-" and "@".
	DirectivePrefix string
	EventPrefix     string

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Tracer traces the compile. If nil, the global provider is used.
	Tracer trace.Tracer

	// Observer is told about every notify pass.
	Observer reactive.Observer

	// CompileObserver is told about the compile.
	CompileObserver compiler.Observer
}

// Computed is a read-only property. It is evaluated on every read and never
// cached.
type Computed interface {
	Evaluate(vm *VM) (any, error)
}

// ComputedFunc adapts a function to Computed.
type ComputedFunc func(vm *VM) (any, error)

// Evaluate calls f.
func (f ComputedFunc) Evaluate(vm *VM) (any, error) {
	return f(vm)
}

// ComputedProperty is the record form of a computed property.
type ComputedProperty struct {
	Get ComputedFunc
}

// Evaluate calls p.Get. A property without a getter evaluates to nil.
func (p ComputedProperty) Evaluate(vm *VM) (any, error) {
	if p.Get == nil {
		return nil, nil
	}
	return p.Get(vm)
}

// Method is invoked with the literal argument written in the template and
// the native event. Calls from Go pass a zero Event.
type Method func(vm *VM, arg string, ev view.Event) error
