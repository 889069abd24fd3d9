package date

import "fmt"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// ParseRange parses both boundaries of a range.
func ParseRange(from, to string) (Range, error) {
	f, err := Parse(from)
	if err != nil {
		return Range{}, err
	}
	t, err := Parse(to)
	if err != nil {
		return Range{}, err
	}
	if t.Before(f) {
		return Range{}, fmt.Errorf("invalid range %s..%s: end is before start", f, t)
	}
	return Range{From: f, To: t}, nil
}

// Contains reports whether d is in the range, boundaries included.
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
