package reactive

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Getter is anything a path segment can be read from.
type Getter interface {
	Get(key string) (any, error)
}

// Setter is anything a path segment can be written to.
type Setter interface {
	Set(key string, value any) error
}

// Composite is a reactive container: an Object or a List.
type Composite interface {
	Getter
	Setter

	// Keys returns the container's keys in a stable order.
	Keys() []string

	// Len returns the number of keys.
	Len() int

	// Path returns the dotted path the container was wrapped at.
	Path() string

	// Snapshot returns a plain, non-reactive deep copy.
	Snapshot() any
}

// Notifier is told about every effective write.
type Notifier interface {
	NotifyPath(path string) error
}

// Observe wraps data in a reactive Object whose writes are reported to n.
// A nil n gives a store that accepts writes without notifying anyone.
func Observe(data map[string]any, n Notifier) *Object {
	return newObject("", reflect.ValueOf(data), n)
}

// wrap converts composite values into owned reactive containers rooted at
// path. Scalars are returned unchanged.
func wrap(path string, v any, n Notifier) any {
	switch c := v.(type) {
	case nil:
		return nil
	case Composite:
		// A container from anywhere else is copied, never shared.
		return wrap(path, c.Snapshot(), n)
	case []byte:
		return c
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return newObject(path, rv, n)
		}
	case reflect.Slice, reflect.Array:
		return newList(path, rv, n)
	}
	return v
}

// strictEqual reports whether a write of b over a is a no-op. Composites and
// other reference values compare by identity; numbers compare by value
// regardless of their Go type.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if fa, ok := asFloat(ra); ok {
		fb, ok := asFloat(rb)
		return ok && fa == fb
	}
	if ra.Type() != rb.Type() {
		return false
	}

	switch ra.Kind() {
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	case reflect.Map, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	}
	return comparableEqual(a, b)
}

func comparableEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}

func asFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

// Stringify renders a value the way bindings display it: nil as the empty
// string, integral floats without a fraction, composites as JSON.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case Composite:
		return marshalText(val.Snapshot())
	case interface{ String() string }:
		return val.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.Func:
		return "function"
	}
	return marshalText(v)
}

func marshalText(v any) string {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// SplitPath splits a dotted expression into trimmed segments.
func SplitPath(path string) []string {
	parts := strings.Split(path, ".")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// JoinPath appends key to a dotted prefix.
func JoinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Resolve walks path from root one segment at a time and returns the value at
// the end. Walking through nil fails with ErrUndefined, through a scalar
// with ErrNotComposite.
func Resolve(root Getter, path string) (any, error) {
	segs := SplitPath(path)
	var cur any = root
	for i, seg := range segs {
		switch c := cur.(type) {
		case nil:
			return nil, undefinedAt(strings.Join(segs[:i], "."))
		case Getter:
			v, err := c.Get(seg)
			if err != nil {
				return nil, err
			}
			cur = v
		default:
			return nil, notComposite(strings.Join(segs[:i], "."))
		}
	}
	return cur, nil
}

// Assign writes value at path, resolving every segment but the last from
// root. Single-segment paths are written on root directly.
func Assign(root interface {
	Getter
	Setter
}, path string, value any) error {
	segs := SplitPath(path)
	if len(segs) == 1 {
		return root.Set(segs[0], value)
	}

	parentPath := strings.Join(segs[:len(segs)-1], ".")
	parent, err := Resolve(root, parentPath)
	if err != nil {
		return err
	}
	switch p := parent.(type) {
	case nil:
		return undefinedAt(parentPath)
	case Setter:
		return p.Set(segs[len(segs)-1], value)
	default:
		return notComposite(parentPath)
	}
}

// sortedKeys returns the string keys of a map value in sorted order.
func sortedKeys(rv reflect.Value) []string {
	keys := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)
	return keys
}
