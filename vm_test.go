package vbind

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	verrors "github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/compiler"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/render"
	"github.com/vango-dev/vbind/pkg/vdom"
	"github.com/vango-dev/vbind/pkg/view"
)

func mount(t *testing.T, markup string, opts Options) (*VM, *vdom.VNode) {
	t.Helper()
	root, err := vdom.ParseString(markup)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if opts.El == nil {
		opts.El = "#app"
	}
	opts.Document = vdom.NewDocument(root)
	vm, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return vm, root
}

func text(t *testing.T, root *vdom.VNode, sel string) string {
	t.Helper()
	n := vdom.Query(root, sel)
	if n == nil {
		t.Fatalf("%s not found", sel)
	}
	return n.TextContent()
}

// =============================================================================
// Binding behaviour
// =============================================================================

func TestEndToEndCounter(t *testing.T) {
	vm, root := mount(t, `<div id="app"><span>{{count}}</span></div>`, Options{
		Data: map[string]any{"count": 0},
	})

	if got := text(t, root, "span"); got != "0" {
		t.Errorf("initial = %q, want 0", got)
	}
	if err := vm.Set("count", 5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := text(t, root, "span"); got != "5" {
		t.Errorf("after set = %q, want 5", got)
	}

	out, err := render.RenderToString(vdom.Query(root, "#app"))
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	if out != `<div id="app"><span>5</span></div>` {
		t.Errorf("html = %q", out)
	}
}

func TestEveryWriteRunsEveryCallback(t *testing.T) {
	vm, _ := mount(t, `<div id="app"><p>{{a}}</p><p>{{b}}</p></div>`, Options{
		Data: map[string]any{"a": 1, "b": 2},
	})

	calls := map[string]int{}
	for _, path := range []string{"a", "b"} {
		path := path
		vm.Registry().Add(path, func(any) error {
			calls[path]++
			return nil
		})
	}

	if err := vm.Set("a", 10); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if calls["a"] != 1 || calls["b"] != 1 {
		t.Errorf("calls = %v, want both subscribers run once", calls)
	}
}

func TestFilteredModeSkipsUnrelated(t *testing.T) {
	vm, _ := mount(t, `<div id="app"><p>{{a}}</p></div>`, Options{
		Data: map[string]any{"a": 1, "b": 2},
		Mode: reactive.ModeFiltered,
	})

	ran := 0
	vm.Registry().Add("b", func(any) error { ran++; return nil })

	if err := vm.Set("a", 3); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ran != 0 {
		t.Errorf("subscriber on b ran %d times after writing a", ran)
	}
}

func TestFilteredModeRerunsComputed(t *testing.T) {
	vm, root := mount(t, `<div id="app"><p>{{full}}</p><span>{{other}}</span></div>`, Options{
		Data: map[string]any{"first": "a", "other": 1},
		Computed: map[string]Computed{
			"full": ComputedFunc(func(vm *VM) (any, error) {
				first, err := vm.Get("first")
				if err != nil {
					return nil, err
				}
				return "x-" + first.(string), nil
			}),
		},
		Mode: reactive.ModeFiltered,
	})

	ran := 0
	vm.Registry().Add("other", func(any) error { ran++; return nil })

	if err := vm.Set("first", "b"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := text(t, root, "p"); got != "x-b" {
		t.Errorf("computed text = %q, want %q", got, "x-b")
	}
	if ran != 0 {
		t.Errorf("subscriber on other ran %d times after writing first", ran)
	}
}

func TestDeepWrite(t *testing.T) {
	vm, root := mount(t, `<div id="app"><p>{{a.b}}</p></div>`, Options{
		Data: map[string]any{"a": map[string]any{"b": 1}},
	})

	if err := vm.Set("a", map[string]any{"b": 2}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := text(t, root, "p"); got != "2" {
		t.Errorf("after replacing a = %q, want 2", got)
	}

	ran := 0
	vm.Registry().Add("a.b", func(any) error { ran++; return nil })
	if err := vm.SetPath("a.b", 3); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	if ran != 1 {
		t.Errorf("nested write notified %d times, want 1", ran)
	}
	if got := text(t, root, "p"); got != "3" {
		t.Errorf("after a.b=3 = %q, want 3", got)
	}
}

func TestComputedIsNeverCached(t *testing.T) {
	evals := 0
	vm, root := mount(t, `<div id="app"><p>{{double}}</p></div>`, Options{
		Data: map[string]any{"n": 2},
		Computed: map[string]Computed{
			"double": ComputedFunc(func(vm *VM) (any, error) {
				evals++
				n, err := vm.Get("n")
				if err != nil {
					return nil, err
				}
				return n.(int) * 2, nil
			}),
		},
	})

	if got := text(t, root, "p"); got != "4" {
		t.Errorf("initial = %q, want 4", got)
	}
	before := evals
	for i := 0; i < 3; i++ {
		if _, err := vm.Get("double"); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if evals-before != 3 {
		t.Errorf("three reads evaluated %d times, want 3", evals-before)
	}

	if err := vm.Set("n", 5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := text(t, root, "p"); got != "10" {
		t.Errorf("after n=5 = %q, want 10", got)
	}
}

func TestComputedPropertyRecord(t *testing.T) {
	vm, err := New(Options{
		Data: map[string]any{"first": "Ada", "last": "Lovelace"},
		Computed: map[string]Computed{
			"full": ComputedProperty{Get: func(vm *VM) (any, error) {
				f, _ := vm.Get("first")
				l, _ := vm.Get("last")
				return f.(string) + " " + l.(string), nil
			}},
			"empty": ComputedProperty{},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if v, _ := vm.Get("full"); v != "Ada Lovelace" {
		t.Errorf("full = %v", v)
	}
	if v, err := vm.Get("empty"); v != nil || err != nil {
		t.Errorf("empty = %v, %v; want nil, nil", v, err)
	}
}

func TestWritesToComputedAndMethodsAreDiscarded(t *testing.T) {
	vm, err := New(Options{
		Computed: map[string]Computed{
			"c": ComputedFunc(func(*VM) (any, error) { return 1, nil }),
		},
		Methods: map[string]Method{
			"m": func(*VM, string, view.Event) error { return nil },
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := vm.Set("c", 99); err != nil {
		t.Errorf("Set(c) = %v, want nil", err)
	}
	if v, _ := vm.Get("c"); v != 1 {
		t.Errorf("c = %v after write, want 1", v)
	}
	if err := vm.Set("m", 99); err != nil {
		t.Errorf("Set(m) = %v, want nil", err)
	}
	if v, _ := vm.Get("m"); v == nil {
		t.Error("m should still be a method")
	}
}

func TestTwoWayRoundTrip(t *testing.T) {
	vm, root := mount(t, `<div id="app"><input v-model="msg"><p>{{msg}}</p><textarea v-bind="msg"></textarea></div>`, Options{
		Data: map[string]any{"msg": "hi"},
	})

	if err := vdom.Input(vdom.Query(root, "input"), "X"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if v, _ := vm.Get("msg"); v != "X" {
		t.Errorf("msg = %v, want X", v)
	}
	if got := text(t, root, "p"); got != "X" {
		t.Errorf("p = %q, want X", got)
	}
	if got := vdom.Query(root, "textarea").Value; got != "X" {
		t.Errorf("textarea value = %q, want X", got)
	}
}

func TestDottedModelTarget(t *testing.T) {
	vm, root := mount(t, `<div id="app"><input v-model="form.name"></div>`, Options{
		Data: map[string]any{"form": map[string]any{"name": ""}},
	})

	if err := vdom.Input(vdom.Query(root, "input"), "Ann"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if v, _ := vm.Resolve("form.name"); v != "Ann" {
		t.Errorf("form.name = %v, want Ann", v)
	}
	if vm.Data().Has("form.name") {
		t.Error("a stray top-level key was created")
	}
}

func TestEventDirectiveCallsMethod(t *testing.T) {
	var got []string
	vm, root := mount(t, `<div id="app"><button @click="foo(bar)">go</button></div>`, Options{
		Methods: map[string]Method{
			"foo": func(vm *VM, arg string, ev view.Event) error {
				got = append(got, arg, ev.Type)
				return nil
			},
		},
	})

	if err := vdom.Click(vdom.Query(root, "button")); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if strings.Join(got, ",") != "bar,click" {
		t.Errorf("foo got %v, want [bar click]", got)
	}
	if len(vm.Handlers()) != 1 {
		t.Errorf("handlers = %d, want 1", len(vm.Handlers()))
	}
}

func TestCounterMethod(t *testing.T) {
	_, root := mount(t, `<div id="app"><button @click="inc(2)">+</button><span>{{count}}</span></div>`, Options{
		Data: map[string]any{"count": 0},
		Methods: map[string]Method{
			"inc": func(vm *VM, arg string, _ view.Event) error {
				cur, err := vm.Get("count")
				if err != nil {
					return err
				}
				step, err := strconv.Atoi(arg)
				if err != nil {
					return err
				}
				return vm.Set("count", cur.(int)+step)
			},
		},
	})

	btn := vdom.Query(root, "button")
	for i := 0; i < 3; i++ {
		if err := vdom.Click(btn); err != nil {
			t.Fatalf("Click: %v", err)
		}
	}
	if got := text(t, root, "span"); got != "6" {
		t.Errorf("count = %q, want 6", got)
	}
}

// =============================================================================
// Namespace and errors
// =============================================================================

func TestLookupOrder(t *testing.T) {
	vm, err := New(Options{
		Data: map[string]any{"x": "data", "y": "data"},
		Computed: map[string]Computed{
			"x": ComputedFunc(func(*VM) (any, error) { return "computed", nil }),
			"y": ComputedFunc(func(*VM) (any, error) { return "computed", nil }),
		},
		Methods: map[string]Method{
			"x": func(*VM, string, view.Event) error { return nil },
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if v, _ := vm.Get("x"); v == nil {
		t.Error("x should resolve to the method")
	} else if _, ok := v.(compiler.MethodFunc); !ok {
		t.Errorf("x = %T, want compiler.MethodFunc", v)
	}
	if v, _ := vm.Get("y"); v != "computed" {
		t.Errorf("y = %v, want computed", v)
	}
}

func TestNoSuchProperty(t *testing.T) {
	vm, err := New(Options{Data: map[string]any{"a": 1}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name string
		do   func() error
	}{
		{"get", func() error { _, err := vm.Get("nope"); return err }},
		{"set", func() error { return vm.Set("nope", 1) }},
		{"resolve", func() error { _, err := vm.Resolve("nope.x"); return err }},
		{"set path", func() error { return vm.SetPath("nope", 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.do()
			if !errors.Is(err, reactive.ErrNoSuchProperty) {
				t.Errorf("error = %v, want ErrNoSuchProperty", err)
			}
			var coded *verrors.Error
			if !errors.As(err, &coded) || coded.Code != "E001" {
				t.Errorf("error = %v, want E001", err)
			}
		})
	}
}

func TestResolveThroughUndefined(t *testing.T) {
	vm, err := New(Options{Data: map[string]any{"a": nil, "n": 1}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := vm.Resolve("a.b"); !errors.Is(err, reactive.ErrUndefined) {
		t.Errorf("Resolve(a.b) = %v, want ErrUndefined", err)
	}
	if _, err := vm.Resolve("n.b"); !errors.Is(err, reactive.ErrNotComposite) {
		t.Errorf("Resolve(n.b) = %v, want ErrNotComposite", err)
	}
}

func TestNotifyFailurePropagatesToWriter(t *testing.T) {
	vm, root := mount(t, `<div id="app"><p>{{a.b}}</p><span>{{c}}</span></div>`, Options{
		Data: map[string]any{"a": map[string]any{"b": 1}, "c": "x"},
	})

	err := vm.Set("a", nil)
	if !errors.Is(err, reactive.ErrUndefined) {
		t.Fatalf("Set error = %v, want ErrUndefined", err)
	}
	if v, _ := vm.Get("a"); v != nil {
		t.Errorf("a = %v, want the write kept", v)
	}
	if got := text(t, root, "p"); got != "1" {
		t.Errorf("failed binding = %q, want its last rendered value 1", got)
	}
}

func TestRootSelection(t *testing.T) {
	t.Run("node handle", func(t *testing.T) {
		root := vdom.Element("div", nil, vdom.Text("{{a}}"))
		vm, err := New(Options{El: vdom.Node(root), Data: map[string]any{"a": "x"}})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if root.TextContent() != "x" || vm.Root() == nil {
			t.Errorf("text = %q", root.TextContent())
		}
	})

	t.Run("selector not found", func(t *testing.T) {
		root, _ := vdom.ParseString(`<div id="other"></div>`)
		_, err := New(Options{El: "#app", Document: vdom.NewDocument(root)})
		if !errors.Is(err, ErrRootNotFound) {
			t.Errorf("error = %v, want ErrRootNotFound", err)
		}
	})

	t.Run("selector without document", func(t *testing.T) {
		_, err := New(Options{El: "#app"})
		if !errors.Is(err, ErrRootNotFound) {
			t.Errorf("error = %v, want ErrRootNotFound", err)
		}
	})

	t.Run("no el", func(t *testing.T) {
		vm, err := New(Options{Data: map[string]any{"a": 1}})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if vm.Bindings() != nil || vm.Registry().Len() != 0 {
			t.Error("no bindings expected without el")
		}
	})
}

func TestCompileErrorSurfaces(t *testing.T) {
	root, _ := vdom.ParseString(`<div id="app"><button @click="missing()">x</button></div>`)
	_, err := New(Options{El: "#app", Document: vdom.NewDocument(root)})
	if !errors.Is(err, compiler.ErrUnknownMethod) {
		t.Errorf("error = %v, want ErrUnknownMethod", err)
	}
}

func TestCall(t *testing.T) {
	var got string
	vm, err := New(Options{Methods: map[string]Method{
		"echo": func(_ *VM, arg string, _ view.Event) error { got = arg; return nil },
	}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := vm.Call("echo", "hi", view.Event{}); err != nil || got != "hi" {
		t.Errorf("Call(echo) = %v, got %q", err, got)
	}
	if err := vm.Call("nope", "", view.Event{}); !errors.Is(err, compiler.ErrUnknownMethod) {
		t.Errorf("Call(nope) = %v, want ErrUnknownMethod", err)
	}
}

func TestDataIsNotAliased(t *testing.T) {
	shared := map[string]any{"v": 1}
	vm, err := New(Options{Data: map[string]any{"x": shared, "y": shared}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := vm.SetPath("x.v", 2); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	if v, _ := vm.Resolve("y.v"); v != 1 {
		t.Errorf("y.v = %v, want 1", v)
	}
	if shared["v"] != 1 {
		t.Errorf("caller's map was mutated: %v", shared)
	}
}

func TestIDsAreUnique(t *testing.T) {
	a, _ := New(Options{})
	b, _ := New(Options{})
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("ids = %q, %q", a.ID(), b.ID())
	}
}
