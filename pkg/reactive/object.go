package reactive

import (
	"reflect"
)

// Object is a reactive mapping. Its key set is fixed when it is wrapped;
// Set on an unknown key fails with ErrNoSuchProperty.
type Object struct {
	path   string
	keys   []string
	values map[string]any
	notify Notifier
}

// newObject wraps the string-keyed map rv. Nested composites are wrapped
// depth-first before the object is returned.
func newObject(path string, rv reflect.Value, n Notifier) *Object {
	o := &Object{
		path:   path,
		values: make(map[string]any),
		notify: n,
	}
	if !rv.IsValid() || rv.IsNil() {
		return o
	}

	o.keys = sortedKeys(rv)
	for _, key := range o.keys {
		raw := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key())).Interface()
		o.values[key] = wrap(JoinPath(path, key), raw, n)
	}
	return o
}

// Get returns the current value of key.
func (o *Object) Get(key string) (any, error) {
	v, ok := o.values[key]
	if !ok {
		return nil, noSuchProperty(JoinPath(o.path, key))
	}
	return v, nil
}

// Has reports whether key is one of the object's keys.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Set replaces the value of key. If the new value is strictly equal to the
// cached one nothing happens. Otherwise composites are wrapped, the cache is
// updated and the notifier runs; its error is returned.
func (o *Object) Set(key string, value any) error {
	old, ok := o.values[key]
	if !ok {
		return noSuchProperty(JoinPath(o.path, key))
	}
	if strictEqual(old, value) {
		return nil
	}

	path := JoinPath(o.path, key)
	o.values[key] = wrap(path, value, o.notify)
	if o.notify == nil {
		return nil
	}
	return o.notify.NotifyPath(path)
}

// Keys returns the object's keys in sorted order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Path returns the dotted path the object was wrapped at ("" for the root).
func (o *Object) Path() string {
	return o.path
}

// Snapshot returns a plain deep copy of the object.
func (o *Object) Snapshot() any {
	return o.Map()
}

// Map returns a plain deep copy of the object as a map.
func (o *Object) Map() map[string]any {
	out := make(map[string]any, len(o.keys))
	for _, key := range o.keys {
		out[key] = snapshot(o.values[key])
	}
	return out
}

func snapshot(v any) any {
	if c, ok := v.(Composite); ok {
		return c.Snapshot()
	}
	return v
}
