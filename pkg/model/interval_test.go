package model

import (
	"testing"
	"time"
)

func ts(hour, min int) time.Time {
	return time.Date(2030, 6, 10, hour, min, 0, 0, time.UTC)
}

func TestIntervalIsValid(t *testing.T) {
	tests := []struct {
		name     string
		interval Interval
		want     bool
	}{
		{name: "positive duration", interval: Interval{Start: ts(10, 0), End: ts(11, 0)}, want: true},
		{name: "zero length", interval: Interval{Start: ts(10, 0), End: ts(10, 0)}, want: false},
		{name: "inverted", interval: Interval{Start: ts(11, 0), End: ts(10, 0)}, want: false},
		{name: "one nanosecond", interval: Interval{Start: ts(10, 0), End: ts(10, 0).Add(time.Nanosecond)}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.interval.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntervalOverlaps(t *testing.T) {
	base := Interval{Start: ts(10, 0), End: ts(11, 0)}

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{name: "identical", other: base, want: true},
		{name: "partial overlap right", other: Interval{Start: ts(10, 30), End: ts(11, 30)}, want: true},
		{name: "partial overlap left", other: Interval{Start: ts(9, 30), End: ts(10, 30)}, want: true},
		{name: "contained", other: Interval{Start: ts(10, 15), End: ts(10, 45)}, want: true},
		{name: "containing", other: Interval{Start: ts(9, 0), End: ts(12, 0)}, want: true},
		{name: "back to back after", other: Interval{Start: ts(11, 0), End: ts(12, 0)}, want: false},
		{name: "back to back before", other: Interval{Start: ts(9, 0), End: ts(10, 0)}, want: false},
		{name: "disjoint", other: Interval{Start: ts(14, 0), End: ts(15, 0)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// overlap is symmetric
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Errorf("reverse Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntervalClip(t *testing.T) {
	bounds := Interval{Start: ts(9, 0), End: ts(17, 0)}

	tests := []struct {
		name     string
		interval Interval
		want     Interval
		wantOK   bool
	}{
		{
			name:     "inside bounds",
			interval: Interval{Start: ts(10, 0), End: ts(11, 0)},
			want:     Interval{Start: ts(10, 0), End: ts(11, 0)},
			wantOK:   true,
		},
		{
			name:     "spills over both ends",
			interval: Interval{Start: ts(8, 0), End: ts(18, 0)},
			want:     bounds,
			wantOK:   true,
		},
		{
			name:     "clipped at start",
			interval: Interval{Start: ts(8, 0), End: ts(10, 0)},
			want:     Interval{Start: ts(9, 0), End: ts(10, 0)},
			wantOK:   true,
		},
		{
			name:     "entirely before",
			interval: Interval{Start: ts(7, 0), End: ts(8, 0)},
			wantOK:   false,
		},
		{
			name:     "touching the start boundary",
			interval: Interval{Start: ts(8, 0), End: ts(9, 0)},
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.interval.Clip(bounds)
			if ok != tt.wantOK {
				t.Fatalf("Clip() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Clip() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntervalDuration(t *testing.T) {
	iv := Interval{Start: ts(10, 0), End: ts(11, 30)}
	if got := iv.Duration(); got != 90*time.Minute {
		t.Errorf("Duration() = %v, want 90m", got)
	}
}
