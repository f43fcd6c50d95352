package ecs

// Each2 iterates over entities that have both component A and B, in the
// insertion order of store A.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	for i, id := range sa.ids {
		if b, ok := sb.Get(id); ok {
			fn(id, sa.data[i], b)
		}
	}
}

// Each3 iterates over entities that have components A, B, and C, in the
// insertion order of store A.
func Each3[A, B, C any](sa *Store[A], sb *Store[B], sc *Store[C], fn func(EntityID, *A, *B, *C)) {
	for i, id := range sa.ids {
		b, ok := sb.Get(id)
		if !ok {
			continue
		}
		if c, ok := sc.Get(id); ok {
			fn(id, sa.data[i], b, c)
		}
	}
}

// Filter returns the IDs of store s whose entity satisfies keep, in order.
func Filter[T any](s *Store[T], keep func(EntityID, *T) bool) []EntityID {
	out := make([]EntityID, 0, len(s.ids))
	for i, id := range s.ids {
		if keep(id, s.data[i]) {
			out = append(out, id)
		}
	}
	return out
}
