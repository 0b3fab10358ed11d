package date

import (
	"iter"
	"slices"
	"sort"
)

// Value is the set of types a History can hold.
type Value interface{ float32 | float64 | string }

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T Value] struct {
	days   []Date
	values []T
}

// First returns the earliest date and value in the history.
func (h *History[T]) First() (day Date, value T) {
	if h == nil || len(h.days) == 0 {
		return Date{}, *new(T)
	}
	return h.days[0], h.values[0]
}

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) Latest() (day Date, value T) {
	if h == nil || len(h.days) == 0 {
		return Date{}, *new(T)
	}
	last := len(h.days) - 1
	return h.days[last], h.values[last]
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int {
	if h == nil {
		return 0
	}
	return len(h.days)
}

// chronological is a private implementation to make this history chronologically sorted.
type chronological[T Value] struct{ *History[T] }

func (s chronological[T]) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }

func (s chronological[T]) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

// Append adds a point to the history.
//
// Existing value at that date are overwritten.
func (h *History[T]) Append(on Date, q T) *History[T] {
	// Upstream series are mostly chronological: keep that path linear.
	if n := len(h.days); n == 0 || h.days[n-1].Before(on) {
		h.days, h.values = append(h.days, on), append(h.values, q)
		return h
	}
	if i := slices.Index(h.days, on); i >= 0 {
		h.values[i] = q
		return h
	}
	h.days, h.values = append(h.days, on), append(h.values, q)
	sort.Sort(chronological[T]{h})
	return h
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		if h == nil {
			return
		}
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	if h == nil {
		return *new(T), false
	}
	i, found := slices.BinarySearchFunc(h.days, day, Date.Compare)
	if !found {
		return *new(T), false
	}
	return h.values[i], true
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
// It returns the value and true if found, otherwise it returns the zero value and false.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	if h == nil {
		return *new(T), false
	}
	i, found := slices.BinarySearchFunc(h.days, day, Date.Compare)
	if found {
		return h.values[i], true
	}
	// i is where day would be inserted, the previous entry is the last one before it.
	if i == 0 {
		return *new(T), false
	}
	return h.values[i-1], true
}

// Since returns a new history with the points dated on or after day.
func (h *History[T]) Since(day Date) *History[T] {
	out := new(History[T])
	if h == nil {
		return out
	}
	i, _ := slices.BinarySearchFunc(h.days, day, Date.Compare)
	out.days = slices.Clone(h.days[i:])
	out.values = slices.Clone(h.values[i:])
	return out
}

// Tail returns a new history with the last n points.
func (h *History[T]) Tail(n int) *History[T] {
	out := new(History[T])
	if h == nil || n <= 0 {
		return out
	}
	i := max(len(h.days)-n, 0)
	out.days = slices.Clone(h.days[i:])
	out.values = slices.Clone(h.values[i:])
	return out
}

// Sum is a numeric History able to aggregate its values.
type Sum interface{ float32 | float64 }

// YearlySums returns the sum of the values for each calendar year present in h, ordered by year.
func YearlySums[T Sum](h *History[T]) (years []int, sums []T) {
	for on, v := range h.Values() {
		if n := len(years); n > 0 && years[n-1] == on.Year() {
			sums[n-1] += v
			continue
		}
		years = append(years, on.Year())
		sums = append(sums, v)
	}
	return years, sums
}
