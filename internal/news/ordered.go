package news

// OrderedSet is an insertion-ordered collection unique by key.
// The first value added for a key wins; later values with the same key are dropped.
type OrderedSet[K comparable, V any] struct {
	key   func(V) K
	seen  map[K]struct{}
	items []V
}

// NewOrderedSet creates an empty set that derives keys with key.
func NewOrderedSet[K comparable, V any](key func(V) K) *OrderedSet[K, V] {
	return &OrderedSet[K, V]{
		key:  key,
		seen: make(map[K]struct{}),
	}
}

// Add appends v unless its key is already present. It reports whether v was added.
func (s *OrderedSet[K, V]) Add(v V) bool {
	k := s.key(v)
	if _, ok := s.seen[k]; ok {
		return false
	}
	s.seen[k] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Contains reports whether a value with key k was added.
func (s *OrderedSet[K, V]) Contains(k K) bool {
	_, ok := s.seen[k]
	return ok
}

// Len returns the number of values in the set.
func (s *OrderedSet[K, V]) Len() int {
	return len(s.items)
}

// Items returns the values in insertion order. The result is never nil.
func (s *OrderedSet[K, V]) Items() []V {
	out := make([]V, len(s.items))
	copy(out, s.items)
	return out
}
