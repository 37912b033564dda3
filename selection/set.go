package selection

// Set is a generic set of comparable values.
type Set[T comparable] struct {
	items map[T]struct{}
}

// NewSet creates a new empty set.
func NewSet[T comparable]() *Set[T] {
	return &Set[T]{
		items: make(map[T]struct{}),
	}
}

// NewSetFromSlice creates a new set with values from the given slice.
func NewSetFromSlice[T comparable](values []T) *Set[T] {
	set := NewSet[T]()
	set.AddValues(values)
	return set
}

// Add adds a value to the set.
func (s *Set[T]) Add(value T) {
	s.items[value] = struct{}{}
}

// AddValues adds multiple values to the set.
func (s *Set[T]) AddValues(values []T) {
	for _, value := range values {
		s.Add(value)
	}
}

// Contains checks if the set contains a value.
func (s *Set[T]) Contains(value T) bool {
	_, exists := s.items[value]
	return exists
}

// Len returns the number of elements in the set.
func (s *Set[T]) Len() int {
	return len(s.items)
}

// Values returns a slice containing all values in the set (in no particular order).
func (s *Set[T]) Values() []T {
	values := make([]T, 0, len(s.items))
	for value := range s.items {
		values = append(values, value)
	}
	return values
}

// Difference returns a new set with elements in this set that are not in the other set.
func (s *Set[T]) Difference(other *Set[T]) *Set[T] {
	result := NewSet[T]()
	for value := range s.items {
		if !other.Contains(value) {
			result.Add(value)
		}
	}
	return result
}
