package reactive

import (
	"reflect"
	"strconv"
)

// List is a reactive sequence. Each index is a slot; "length" reads the
// number of items. Its length is fixed when it is wrapped.
type List struct {
	path   string
	items  []any
	notify Notifier
}

// newList wraps the slice or array rv, wrapping composite items depth-first.
func newList(path string, rv reflect.Value, n Notifier) *List {
	l := &List{
		path:   path,
		items:  make([]any, rv.Len()),
		notify: n,
	}
	for i := 0; i < rv.Len(); i++ {
		l.items[i] = wrap(JoinPath(path, strconv.Itoa(i)), rv.Index(i).Interface(), n)
	}
	return l
}

func (l *List) index(key string) (int, error) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= len(l.items) {
		return 0, badIndex(JoinPath(l.path, key))
	}
	return i, nil
}

// Get returns the item at the decimal index key, or the length for "length".
func (l *List) Get(key string) (any, error) {
	if key == "length" {
		return len(l.items), nil
	}
	i, err := l.index(key)
	if err != nil {
		return nil, err
	}
	return l.items[i], nil
}

// Set replaces the item at the decimal index key with the same rules as
// Object.Set.
func (l *List) Set(key string, value any) error {
	i, err := l.index(key)
	if err != nil {
		return err
	}
	if strictEqual(l.items[i], value) {
		return nil
	}

	path := JoinPath(l.path, key)
	l.items[i] = wrap(path, value, l.notify)
	if l.notify == nil {
		return nil
	}
	return l.notify.NotifyPath(path)
}

// Keys returns the indexes as strings.
func (l *List) Keys() []string {
	keys := make([]string, len(l.items))
	for i := range l.items {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}

// Path returns the dotted path the list was wrapped at.
func (l *List) Path() string {
	return l.path
}

// Snapshot returns a plain deep copy of the list.
func (l *List) Snapshot() any {
	out := make([]any, len(l.items))
	for i, v := range l.items {
		out[i] = snapshot(v)
	}
	return out
}
