package analytics

import (
	"reflect"
	"sync"
)

// Memo caches one derived value and recomputes it only when one of its inputs changes
// identity. Slices and maps are compared by backing array and length, not by content, so
// a hook that replaces its rows after a fetch invalidates the cache while repeated renders
// over the same rows do not recompute.
type Memo[V any] struct {
	mu    sync.Mutex
	deps  []any
	value V
	valid bool
}

// Get returns the cached value for deps, calling compute when deps differ from the last call.
func (m *Memo[V]) Get(compute func() V, deps ...any) V {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && sameDeps(m.deps, deps) {
		return m.value
	}

	m.value = compute()
	m.deps = deps
	m.valid = true

	return m.value
}

// Reset drops the cached value.
func (m *Memo[V]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V

	m.value = zero
	m.deps = nil
	m.valid = false
}

func sameDeps(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !identical(a[i], b[i]) {
			return false
		}
	}

	return true
}

func identical(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}

	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && (va.Len() == 0 || va.Pointer() == vb.Pointer())
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan:
		return va.Pointer() == vb.Pointer()
	}

	if va.Type().Comparable() {
		return a == b
	}

	return false
}
