package docdb

import "fmt"

// Ordered is the set of Go types a Comparable can be built from.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 |
		~float32 | ~float64 |
		~string
}

// Equatable holds a query-time value and tests document values for equality
// with it. A candidate of a different kind, or an absent candidate, is never
// equal.
type Equatable struct {
	val Value
}

// EqualTo wraps any value supported by ValueOf.
func EqualTo(v any) Equatable {
	return Equatable{ValueOf(v)}
}

func (e Equatable) Value() Value { return e.val }

func (e Equatable) Equals(candidate Value) bool {
	return e.val.Equal(candidate)
}

func (e Equatable) String() string { return e.val.String() }

// Comparable is an Equatable over an ordered kind (int, float or string)
// which can also test whether a candidate is less than the held value.
type Comparable struct {
	Equatable
}

// CompareTo wraps an ordered Go value.
func CompareTo[T Ordered](v T) Comparable {
	return Comparable{Equatable{ValueOf(v)}}
}

// ComparableOf wraps a Value that was built at run time, for instance parsed
// from user input. Fails unless the value is of an ordered kind.
func ComparableOf(v Value) (Comparable, error) {
	if !v.Kind().Ordered() {
		return Comparable{}, fmt.Errorf("docdb: %v values cannot be ordered", v.Kind())
	}
	return Comparable{Equatable{v}}, nil
}

// Less reports whether candidate < the held value. False when the candidate
// is absent or of a different kind.
func (c Comparable) Less(candidate Value) bool {
	return candidate.Less(c.val)
}

// EquatableSet is a materialized list of query-time values for membership
// tests.
type EquatableSet []Equatable

func SetOf[T any](values ...T) EquatableSet {
	set := make(EquatableSet, len(values))
	for i, v := range values {
		set[i] = EqualTo(v)
	}
	return set
}

// SetOfValue builds a set from the items of an array value. Any other kind
// gives a single-element set.
func SetOfValue(v Value) EquatableSet {
	if v.Kind() != KindArray {
		return EquatableSet{{v}}
	}
	set := make(EquatableSet, len(v.arr))
	for i, item := range v.arr {
		set[i] = Equatable{item}
	}
	return set
}

// Contains reports whether any member equals candidate.
func (s EquatableSet) Contains(candidate Value) bool {
	for _, e := range s {
		if e.Equals(candidate) {
			return true
		}
	}
	return false
}

func (s EquatableSet) String() string {
	vals := make([]Value, len(s))
	for i, e := range s {
		vals[i] = e.val
	}
	return Array(vals...).String()
}
