package results

// RetainFirst removes later elements whose identity key repeats an earlier
// one. The caller orders the input by display key first; the walk is stable,
// so within one identity class the element with the smallest display key
// survives and display-key ties fall back to input order.
func RetainFirst[T any, K comparable](items []T, identity func(T) K) []T {
	seen := make(map[K]struct{}, len(items))

	kept := make([]T, 0, len(items))
	for _, item := range items {
		key := identity(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		kept = append(kept, item)
	}

	return kept
}

// SeenFilter admits each identity key once across its whole lifetime and
// preserves first-occurrence order. It covers the cases RetainFirst cannot:
// candidates arriving in batches, where the duplicate horizon must span all
// of them.
type SeenFilter[K comparable] struct {
	seen map[K]struct{}
}

func NewSeenFilter[K comparable]() *SeenFilter[K] {
	return &SeenFilter[K]{seen: make(map[K]struct{})}
}

// Admit reports whether the key was never seen before, recording it either
// way. A rejected key is never re-admitted.
func (f *SeenFilter[K]) Admit(key K) bool {
	if _, ok := f.seen[key]; ok {
		return false
	}
	f.seen[key] = struct{}{}

	return true
}
