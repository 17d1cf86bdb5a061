// Package builtin provides the methods and computed properties available to
// templates run from the command line, where no Go code is supplied.
//
// Methods take a data path as their argument:
//
//	<button @click="inc(count)">+</button>
//	<input type="checkbox" @change="toggle(done)">
//	<select @change="set(choice)">...</select>
package builtin

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/pkg/compiler"
	"github.com/vango-dev/vbind/pkg/view"
)

// Methods returns the built-in method table. Every call returns a new map.
//
//	inc(path)    adds 1 to the number at path
//	dec(path)    subtracts 1 from the number at path
//	toggle(path) negates the boolean at path
//	set(path)    writes the event value to path
//	clear(path)  writes "" to path
//	log(text)    logs text and the event at info level
func Methods(logger *slog.Logger) map[string]vbind.Method {
	if logger == nil {
		logger = slog.Default()
	}
	return map[string]vbind.Method{
		"inc":    step(1),
		"dec":    step(-1),
		"toggle": toggle,
		"set": func(vm *vbind.VM, path string, ev view.Event) error {
			return vm.SetPath(path, ev.Value)
		},
		"clear": func(vm *vbind.VM, path string, _ view.Event) error {
			return vm.SetPath(path, "")
		},
		"log": func(vm *vbind.VM, text string, ev view.Event) error {
			logger.Info("template log", "vm", vm.ID(), "text", text, "event", ev.Type, "value", ev.Value)
			return nil
		},
	}
}

// Names returns the built-in method names in sorted order.
func Names() []string {
	names := make([]string, 0, 6)
	for name := range Methods(nil) {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Computed turns name → interpolation template pairs into computed
// properties. Each evaluation resolves the template's markers afresh.
func Computed(templates map[string]string) map[string]vbind.Computed {
	out := make(map[string]vbind.Computed, len(templates))
	for name, text := range templates {
		out[name] = Interpolation(text)
	}
	return out
}

// Interpolation returns a computed property rendering text.
func Interpolation(text string) vbind.ComputedFunc {
	tmpl := compiler.ParseTemplate(text)
	return func(vm *vbind.VM) (any, error) {
		return tmpl.Render(func(_ int, path string) (any, error) {
			return vm.Resolve(path)
		})
	}
}

func step(delta int64) vbind.Method {
	return func(vm *vbind.VM, path string, _ view.Event) error {
		cur, err := vm.Resolve(path)
		if err != nil {
			return err
		}
		next, err := add(cur, delta)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return vm.SetPath(path, next)
	}
}

func toggle(vm *vbind.VM, path string, _ view.Event) error {
	cur, err := vm.Resolve(path)
	if err != nil {
		return err
	}
	b, ok := cur.(bool)
	if !ok && cur != nil {
		return fmt.Errorf("%s: toggle needs a boolean, have %T", path, cur)
	}
	return vm.SetPath(path, !b)
}

// add returns v+delta keeping v's numeric type. nil counts as int 0.
func add(v any, delta int64) (any, error) {
	if v == nil {
		return int(delta), nil
	}
	rv := reflect.ValueOf(v)
	out := reflect.New(rv.Type()).Elem()
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.SetInt(rv.Int() + delta)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if delta < 0 {
			if u < uint64(-delta) {
				return nil, fmt.Errorf("cannot decrement unsigned %d below zero", u)
			}
			u -= uint64(-delta)
		} else {
			u += uint64(delta)
		}
		out.SetUint(u)
	case reflect.Float32, reflect.Float64:
		out.SetFloat(rv.Float() + float64(delta))
	default:
		return nil, fmt.Errorf("inc/dec needs a number, have %T", v)
	}
	return out.Interface(), nil
}
