package discord

// Int64Set is a simple map-based set of unique int64 values.
type Int64Set struct {
	backingMap map[int64]struct{}
}

// NewInt64Set creates a new Int64Set from the specified array of int64.
func NewInt64Set(s []int64) *Int64Set {
	set := &Int64Set{make(map[int64]struct{}, len(s))}
	for _, i := range s {
		set.backingMap[i] = struct{}{}
	}
	return set
}

// Contains checks if this Int64Set contains the specified int64.
func (s *Int64Set) Contains(i int64) bool {
	_, exists := s.backingMap[i]
	return exists
}

// Len returns the number of values in this Int64Set.
func (s *Int64Set) Len() int {
	return len(s.backingMap)
}

// Values return values contained by this Int64Set as array.
func (s *Int64Set) Values() []int64 {
	v := make([]int64, 0, len(s.backingMap))
	for k := range s.backingMap {
		v = append(v, k)
	}

	return v
}
