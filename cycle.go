package json

import "reflect"

// guardKey identifies one referent on the active recursion path. Identity is
// the referent's storage address, never structural equality, so two distinct
// but equal containers are never confused. The type is part of the key
// because a struct and its first field share an address.
type guardKey struct {
	addr uintptr
	typ  reflect.Type
}

// cycleGuard tracks the referents currently being visited on the active
// recursion path. It is a stack discipline, not a permanent visited set:
// entries are removed on the way back up, so the same object appearing twice
// in an acyclic graph is expanded fully at each occurrence. One guard lives
// for exactly one top-level call and must be empty again when it returns.
type cycleGuard struct {
	active map[guardKey]struct{}
}

func newCycleGuard() *cycleGuard {
	return &cycleGuard{active: make(map[guardKey]struct{}, 8)}
}

// enter registers key on the active path. It returns false if the key is
// already present, which means the descent has looped back onto itself.
func (g *cycleGuard) enter(key guardKey) bool {
	if _, seen := g.active[key]; seen {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

// leave removes key from the active path.
func (g *cycleGuard) leave(key guardKey) {
	delete(g.active, key)
}

// size reports the number of referents currently on the path.
func (g *cycleGuard) size() int {
	return len(g.active)
}

// identityOf returns the guard key for values that can participate in a
// reference cycle: maps, slices, and pointers. Everything else (scalars,
// plain structs, arrays) is copied by value in Go and cannot alias itself,
// so it is never guarded. Zero-length slices are skipped because empty
// backing stores may share a sentinel address and cannot hold a cycle.
func identityOf(rv reflect.Value) (guardKey, bool) {
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return guardKey{}, false
		}
		return guardKey{addr: rv.Pointer(), typ: rv.Type()}, true
	case reflect.Slice:
		if rv.IsNil() || rv.Len() == 0 {
			return guardKey{}, false
		}
		return guardKey{addr: rv.Pointer(), typ: rv.Type()}, true
	case reflect.Pointer:
		if rv.IsNil() {
			return guardKey{}, false
		}
		return guardKey{addr: rv.Pointer(), typ: rv.Type()}, true
	default:
		return guardKey{}, false
	}
}

// guardTypeName is the diagnostic name embedded in the lenient cycle marker
// string. Plain containers collapse to "map" and "slice" so the marker is
// stable regardless of the concrete key and element types; everything else
// uses the Go type name of the referent.
func guardTypeName(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Map:
		return "map"
	case reflect.Slice:
		return "slice"
	case reflect.Pointer:
		return rv.Type().Elem().String()
	default:
		return rv.Type().String()
	}
}
