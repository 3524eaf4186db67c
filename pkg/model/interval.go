package model

import "time"

// Interval is a half-open time range [Start, End). A booking occupies its
// start instant but not its end instant, so back-to-back meetings on the
// same room never collide.
type Interval struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

// IsValid reports whether the interval has positive duration.
// Zero-length and inverted ranges are rejected at the boundary.
func (i Interval) IsValid() bool {
	return i.End.After(i.Start)
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching intervals (i.End == other.Start) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Clip returns the intersection of i with bounds. The second return value
// is false when the intersection is empty.
func (i Interval) Clip(bounds Interval) (Interval, bool) {
	out := i
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	if !out.End.After(out.Start) {
		return Interval{}, false
	}
	return out, true
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}
