package vbind

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	verrors "github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/compiler"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/view"
)

// VM is a view model: one namespace over data, computed properties and
// methods, plus the registry of bindings compiled against it.
type VM struct {
	id       string
	data     *reactive.Object
	computed map[string]Computed
	methods  map[string]Method
	registry *reactive.Registry
	root     view.Node
	result   *compiler.Result
	logger   *slog.Logger
}

// =============================================================================
// Construction
// =============================================================================

// New creates a VM. See NewContext.
func New(opts Options) (*VM, error) {
	return NewContext(context.Background(), opts)
}

// NewContext creates a VM in order: wrap data, install computed properties,
// install methods, compile El. ctx parents the compile span.
//
// On a compile error the VM is returned alongside the error; the root is
// left without children.
func NewContext(ctx context.Context, opts Options) (*VM, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	vm := &VM{
		id:       uuid.NewString(),
		computed: make(map[string]Computed, len(opts.Computed)),
		methods:  make(map[string]Method, len(opts.Methods)),
		logger:   logger,
	}
	vm.registry = reactive.NewRegistry(vm,
		reactive.WithMode(opts.Mode),
		reactive.WithObserver(opts.Observer),
		reactive.WithLogger(logger),
	)

	if opts.Data != nil {
		vm.data = reactive.Observe(opts.Data, vm.registry)
	}
	for name, c := range opts.Computed {
		vm.computed[name] = c
	}
	for name, m := range opts.Methods {
		vm.methods[name] = m
	}

	if opts.El == nil {
		return vm, nil
	}

	root, err := findRoot(opts.El, opts.Document)
	if err != nil {
		return vm, err
	}
	vm.root = root

	c := compiler.New(vm, vm.registry, compiler.Config{
		DirectivePrefix: opts.DirectivePrefix,
		EventPrefix:     opts.EventPrefix,
		Logger:          logger,
		Tracer:          opts.Tracer,
		Observer:        opts.CompileObserver,
	})
	res, err := c.Compile(ctx, root)
	vm.result = res
	if err != nil {
		return vm, err
	}

	logger.Debug("vm mounted",
		"id", vm.id,
		"bindings", len(res.Bindings),
		"handlers", len(res.Handlers),
		"mode", opts.Mode.String(),
	)
	return vm, nil
}

func findRoot(el any, doc view.Document) (view.Node, error) {
	switch el := el.(type) {
	case string:
		if doc == nil {
			return nil, verrors.New("E012").
				WithTarget(el).
				WithSuggestion("set Options.Document to resolve selector roots").
				Wrap(ErrRootNotFound)
		}
		node, ok := doc.QuerySelector(el)
		if !ok {
			return nil, rootNotFound(el)
		}
		return node, nil
	case view.Node:
		return el, nil
	default:
		return nil, rootNotFound(fmt.Sprintf("%T", el))
	}
}

// =============================================================================
// Namespace
// =============================================================================

// Get reads a top-level name. Methods are looked up first, then computed
// properties, then data keys. A method name yields a func(arg string, ev
// view.Event) error bound to vm.
func (vm *VM) Get(name string) (any, error) {
	if m, ok := vm.methods[name]; ok {
		return vm.bind(m), nil
	}
	if c, ok := vm.computed[name]; ok {
		return c.Evaluate(vm)
	}
	if vm.data != nil && vm.data.Has(name) {
		return vm.data.Get(name)
	}
	return nil, noSuchName(name)
}

// Set writes a top-level data key. Writes to computed or method names are
// discarded.
func (vm *VM) Set(name string, value any) error {
	if _, ok := vm.methods[name]; ok {
		return nil
	}
	if _, ok := vm.computed[name]; ok {
		return nil
	}
	if vm.data == nil || !vm.data.Has(name) {
		return noSuchName(name)
	}
	return vm.data.Set(name, value)
}

// Resolve reads a dotted path, starting from the namespace.
func (vm *VM) Resolve(path string) (any, error) {
	return reactive.Resolve(vm, path)
}

// SetPath writes a dotted path, starting from the namespace.
func (vm *VM) SetPath(path string, value any) error {
	return reactive.Assign(vm, path, value)
}

// IsDerived reports whether name is a computed property. Filtered
// notification always re-runs bindings on computed names.
func (vm *VM) IsDerived(name string) bool {
	_, ok := vm.computed[name]
	return ok
}

// Method returns a method bound to vm for the compiler.
func (vm *VM) Method(name string) (compiler.MethodFunc, bool) {
	m, ok := vm.methods[name]
	if !ok {
		return nil, false
	}
	return vm.bind(m), true
}

// Call invokes a method by name.
func (vm *VM) Call(name, arg string, ev view.Event) error {
	m, ok := vm.methods[name]
	if !ok {
		return verrors.New("E011").WithTarget(name).Wrap(compiler.ErrUnknownMethod)
	}
	return m(vm, arg, ev)
}

// Has reports whether name is a method, computed property or data key.
func (vm *VM) Has(name string) bool {
	if _, ok := vm.methods[name]; ok {
		return true
	}
	if _, ok := vm.computed[name]; ok {
		return true
	}
	return vm.data != nil && vm.data.Has(name)
}

func (vm *VM) bind(m Method) compiler.MethodFunc {
	return func(arg string, ev view.Event) error {
		return m(vm, arg, ev)
	}
}

// =============================================================================
// Accessors
// =============================================================================

// ID returns the VM's unique id.
func (vm *VM) ID() string { return vm.id }

// Data returns the reactive data root, or nil when no data was given.
func (vm *VM) Data() *reactive.Object { return vm.data }

// Registry returns the subscriber registry.
func (vm *VM) Registry() *reactive.Registry { return vm.registry }

// Root returns the compiled root, or nil.
func (vm *VM) Root() view.Node { return vm.root }

// Bindings returns the bindings created by the compile in document order.
func (vm *VM) Bindings() []compiler.Binding {
	if vm.result == nil {
		return nil
	}
	return vm.result.Bindings
}

// Handlers returns the event handlers attached by the compile.
func (vm *VM) Handlers() []compiler.Handler {
	if vm.result == nil {
		return nil
	}
	return vm.result.Handlers
}

// Notify re-renders every binding.
func (vm *VM) Notify() error {
	return vm.registry.Notify()
}
