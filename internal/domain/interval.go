package domain

// Interval is a half-open [Start, End) range in minutes since midnight
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether [start, end) intersects the interval.
// Touching ranges do not overlap.
func (i Interval) Overlaps(start, end int) bool {
	return start < i.End && end > i.Start
}
