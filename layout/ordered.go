package layout

import "slices"

// ordered is a map remembering insertion order of its keys.
type ordered[K comparable, V any] struct {
	keys  []K
	items map[K]V
}

func newOrdered[K comparable, V any]() *ordered[K, V] {
	return &ordered[K, V]{items: make(map[K]V)}
}

func (o *ordered[K, V]) Len() int  { return len(o.keys) }
func (o *ordered[K, V]) Keys() []K { return slices.Clone(o.keys) }

func (o *ordered[K, V]) Has(k K) bool {
	_, ok := o.items[k]
	return ok
}

func (o *ordered[K, V]) Get(k K) (V, bool) {
	v, ok := o.items[k]
	return v, ok
}

// Set stores value, new keys are appended, existing keep their position.
func (o *ordered[K, V]) Set(k K, v V) {
	if _, ok := o.items[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.items[k] = v
}

// Push stores value moving its key to the end.
func (o *ordered[K, V]) Push(k K, v V) {
	if _, ok := o.items[k]; ok {
		o.removeKey(k)
	}
	o.keys = append(o.keys, k)
	o.items[k] = v
}

func (o *ordered[K, V]) Delete(k K) (V, bool) {
	v, ok := o.items[k]
	if ok {
		delete(o.items, k)
		o.removeKey(k)
	}
	return v, ok
}

func (o *ordered[K, V]) removeKey(k K) {
	if i := slices.Index(o.keys, k); i >= 0 {
		o.keys = slices.Delete(o.keys, i, i+1)
	}
}

func (o *ordered[K, V]) Values() []V {
	out := make([]V, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, o.items[k])
	}
	return out
}
