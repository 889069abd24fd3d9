package date

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a specific date.
// Dates are unique and the series is always sorted.
type History[T float64 | string] struct {
	days   []Date
	values []T
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Append adds a point to the history.
//
// Existing value at that date is overwritten, the last data wins.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := slices.BinarySearchFunc(h.days, on, Date.Compare)
	if found {
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	i, found := slices.BinarySearchFunc(h.days, day, Date.Compare)
	if !found {
		var zero T
		return zero, false
	}
	return h.values[i], true
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Changes returns the fractional change between consecutive values.
//
// The first point has no predecessor and is set to 0, so the result has the
// same dates as h. A 0 previous value yields a 0 change.
func (h *History[T]) Changes() *History[float64] {
	res := &History[float64]{
		days:   slices.Clone(h.days),
		values: make([]float64, len(h.values)),
	}
	vals, ok := any(h.values).([]float64)
	if !ok {
		return res // strings have no change
	}
	for i := 1; i < len(vals); i++ {
		if vals[i-1] != 0 {
			res.values[i] = vals[i]/vals[i-1] - 1
		}
	}
	return res
}

// Iterate returns an iterator over all unique, sorted dates from multiple History objects.
func Iterate[T float64 | string](histories ...*History[T]) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		indexes := make([]int, len(histories))
		for {
			var (
				m     Date
				found bool
			)
			// find the min among the heads
			for i, h := range histories {
				if indexes[i] < len(h.days) {
					if on := h.days[indexes[i]]; !found || on.Before(m) {
						m, found = on, true
					}
				}
			}
			if !found {
				// All timeseries have been consumed.
				return
			}
			// consume the heads equal to the min
			for i, h := range histories {
				if indexes[i] < len(h.days) && h.days[indexes[i]] == m {
					indexes[i]++
				}
			}
			if !yield(m) {
				return
			}
		}
	}
}
