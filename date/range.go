package date

import "fmt"

// Range represents a range of dates.
type Range struct{ From, To Date }

// NewRange parses a range from two strings. From must not be after To.
func NewRange(from, to string) (Range, error) {
	f, err := Parse(from)
	if err != nil {
		return Range{}, fmt.Errorf("invalid start date: %w", err)
	}
	t, err := Parse(to)
	if err != nil {
		return Range{}, fmt.Errorf("invalid end date: %w", err)
	}
	if f.After(t) {
		return Range{}, fmt.Errorf("start date %s is after end date %s", f, t)
	}
	return Range{From: f, To: t}, nil
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days returns the number of calendar days between From and To.
func (r Range) Days() int { return r.To.Sub(r.From) }

// Extend returns the range with From moved days earlier.
func (r Range) Extend(days int) Range { return Range{From: r.From.Add(-days), To: r.To} }

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
