package arbor

import "reflect"

// Query invokes fn for every entity in the scene holding a component of type
// A. Iteration order is unspecified. The callback must not add or remove
// components of the listed types; structural changes mid-iteration are
// undefined (mark entities and mutate afterwards instead).
func Query[A any](s *Scene, fn func(Entity, *A)) {
	st := s.mustStore()
	set, ok := st.comps[reflect.TypeFor[A]()]
	if !ok {
		return
	}
	sa := set.(*typedSet[A])
	for _, idx := range sa.dense {
		fn(st.entityAt(idx), sa.get(idx))
	}
}

// Query2 invokes fn for every entity holding both A and B. The smaller of
// the two type sets drives the iteration, so cost is O(min(|A|, |B|)).
func Query2[A, B any](s *Scene, fn func(Entity, *A, *B)) {
	st := s.mustStore()
	csa, oka := st.comps[reflect.TypeFor[A]()]
	csb, okb := st.comps[reflect.TypeFor[B]()]
	if !oka || !okb {
		return
	}
	sa := csa.(*typedSet[A])
	sb := csb.(*typedSet[B])
	for _, idx := range smallest(sa, sb).rowIDs() {
		pa := sa.get(idx)
		pb := sb.get(idx)
		if pa == nil || pb == nil {
			continue
		}
		fn(st.entityAt(idx), pa, pb)
	}
}

// Query3 invokes fn for every entity holding A, B, and C, driven by the
// smallest of the three type sets.
func Query3[A, B, C any](s *Scene, fn func(Entity, *A, *B, *C)) {
	st := s.mustStore()
	csa, oka := st.comps[reflect.TypeFor[A]()]
	csb, okb := st.comps[reflect.TypeFor[B]()]
	csc, okc := st.comps[reflect.TypeFor[C]()]
	if !oka || !okb || !okc {
		return
	}
	sa := csa.(*typedSet[A])
	sb := csb.(*typedSet[B])
	sc := csc.(*typedSet[C])
	for _, idx := range smallest(smallest(sa, sb), sc).rowIDs() {
		pa := sa.get(idx)
		pb := sb.get(idx)
		pc := sc.get(idx)
		if pa == nil || pb == nil || pc == nil {
			continue
		}
		fn(st.entityAt(idx), pa, pb, pc)
	}
}

// QueryTagged invokes fn for every entity carrying tag T.
func QueryTagged[T Tag](s *Scene, fn func(Entity)) {
	st := s.mustStore()
	set, ok := st.tags[reflect.TypeFor[T]()]
	if !ok {
		return
	}
	for _, idx := range set.dense {
		fn(st.entityAt(idx))
	}
}

func smallest(a, b componentSet) componentSet {
	if b.count() < a.count() {
		return b
	}
	return a
}
