package reactive

import "time"

// objectResolver resolves paths from a root Object.
type objectResolver struct {
	root *Object
}

func (o *objectResolver) Resolve(path string) (any, error) {
	return Resolve(o.root, path)
}

// newTestStore wires an Object and a Registry together the way the facade does.
func newTestStore(data map[string]any, opts ...RegistryOption) (*Object, *Registry) {
	res := &objectResolver{}
	reg := NewRegistry(res, opts...)
	res.root = Observe(data, reg)
	return res.root, reg
}

// recorder collects callback values.
type recorder struct {
	values []any
}

func (r *recorder) callback(v any) error {
	r.values = append(r.values, v)
	return nil
}

func (r *recorder) count() int {
	return len(r.values)
}

func (r *recorder) last() any {
	if len(r.values) == 0 {
		return nil
	}
	return r.values[len(r.values)-1]
}

type passRecord struct {
	changed string
	ran     int
	err     error
}

// countingObserver records every notify pass.
type countingObserver struct {
	passes []passRecord
}

func (c *countingObserver) ObserveNotify(changed string, ran int, _ time.Duration, err error) {
	c.passes = append(c.passes, passRecord{changed: changed, ran: ran, err: err})
}
