package availability

import (
	"roomly/pkg/model"
	"testing"
	"time"
)

var day = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func iv(startHour, startMin, endHour, endMin int) model.Interval {
	return model.Interval{Start: at(startHour, startMin), End: at(endHour, endMin)}
}

func booking(id string, interval model.Interval, status model.BookingStatus) *model.Booking {
	return &model.Booking{
		ID:        id,
		RoomID:    "room-1",
		StartTime: interval.Start,
		EndTime:   interval.End,
		Status:    status,
	}
}

func collect(seq func(func(model.Interval) bool)) []model.Interval {
	var out []model.Interval
	for w := range seq {
		out = append(out, w)
	}
	return out
}

func TestFindConflicts(t *testing.T) {
	ix := NewIndex()
	ix.ReplaceRoom("room-1", []*model.Booking{
		booking("b1", iv(10, 0, 11, 0), model.BookingConfirmed),
		booking("b2", iv(13, 0, 14, 0), model.BookingPending),
		booking("b3", iv(15, 0, 16, 0), model.BookingCancelled),
	})

	tests := []struct {
		name    string
		query   model.Interval
		exclude string
		wantIDs []string
	}{
		{
			name:    "overlapping confirmed booking",
			query:   iv(10, 30, 11, 30),
			wantIDs: []string{"b1"},
		},
		{
			name:    "pending booking still blocks",
			query:   iv(13, 30, 13, 45),
			wantIDs: []string{"b2"},
		},
		{
			name:    "cancelled booking does not block",
			query:   iv(15, 0, 16, 0),
			wantIDs: nil,
		},
		{
			name:    "back-to-back is not a conflict",
			query:   iv(11, 0, 12, 0),
			wantIDs: nil,
		},
		{
			name:    "self exclusion for reschedule",
			query:   iv(10, 30, 11, 30),
			exclude: "b1",
			wantIDs: nil,
		},
		{
			name:    "spanning query hits both active bookings",
			query:   iv(9, 0, 17, 0),
			wantIDs: []string{"b1", "b2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ix.FindConflicts("room-1", tt.query, tt.exclude)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("expected %v, got %v", tt.wantIDs, got)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Errorf("expected %v, got %v", tt.wantIDs, got)
				}
			}
		})
	}
}

func TestBusyWindows_MergesAndClips(t *testing.T) {
	ix := NewIndex()
	ix.ReplaceRoom("room-1", []*model.Booking{
		booking("b1", iv(9, 0, 10, 0), model.BookingConfirmed),
		booking("b2", iv(10, 0, 11, 0), model.BookingConfirmed), // contiguous with b1
		booking("b3", iv(12, 0, 13, 0), model.BookingConfirmed),
		booking("b4", iv(17, 0, 18, 0), model.BookingConfirmed), // outside query window
	})

	got := collect(ix.BusyWindows("room-1", iv(9, 30, 16, 0)))

	want := []model.Interval{
		iv(9, 30, 11, 0), // b1+b2 merged, clipped at window start
		iv(12, 0, 13, 0),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d busy windows, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Errorf("window %d: expected %v-%v, got %v-%v", i, want[i].Start, want[i].End, got[i].Start, got[i].End)
		}
	}
}

func TestFreeWindows_IncludesOpenEnds(t *testing.T) {
	ix := NewIndex()
	ix.ReplaceRoom("room-1", []*model.Booking{
		booking("b1", iv(10, 0, 11, 0), model.BookingConfirmed),
		booking("b2", iv(13, 0, 14, 0), model.BookingConfirmed),
	})

	got := collect(ix.FreeWindows("room-1", iv(8, 0, 18, 0)))

	want := []model.Interval{
		iv(8, 0, 10, 0),
		iv(11, 0, 13, 0),
		iv(14, 0, 18, 0),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d free windows, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Errorf("window %d: expected %v-%v, got %v-%v", i, want[i].Start, want[i].End, got[i].Start, got[i].End)
		}
	}
}

func TestFreeWindows_FullyBookedAndEmptyRoom(t *testing.T) {
	ix := NewIndex()
	ix.ReplaceRoom("room-1", []*model.Booking{
		booking("b1", iv(8, 0, 18, 0), model.BookingConfirmed),
	})

	if got := collect(ix.FreeWindows("room-1", iv(9, 0, 17, 0))); len(got) != 0 {
		t.Errorf("expected no free windows for fully booked room, got %v", got)
	}

	ix.ReplaceRoom("room-2", nil)
	got := collect(ix.FreeWindows("room-2", iv(9, 0, 17, 0)))
	if len(got) != 1 || !got[0].Start.Equal(at(9, 0)) || !got[0].End.Equal(at(17, 0)) {
		t.Errorf("expected the whole window free for empty room, got %v", got)
	}
}

func TestFreeWindows_LazyAndRestartable(t *testing.T) {
	ix := NewIndex()
	ix.ReplaceRoom("room-1", []*model.Booking{
		booking("b1", iv(10, 0, 11, 0), model.BookingConfirmed),
		booking("b2", iv(13, 0, 14, 0), model.BookingConfirmed),
	})

	seq := ix.FreeWindows("room-1", iv(8, 0, 18, 0))

	// Early break: only the first window is consumed.
	var first []model.Interval
	for w := range seq {
		first = append(first, w)
		break
	}
	if len(first) != 1 || !first[0].End.Equal(at(10, 0)) {
		t.Fatalf("expected first free window to end at 10:00, got %v", first)
	}

	// Restart: ranging the same sequence again walks the same snapshot.
	again := collect(seq)
	if len(again) != 3 {
		t.Fatalf("expected 3 windows on restart, got %d", len(again))
	}

	// Writes after snapshotting do not leak into an already-built sequence.
	ix.ReplaceRoom("room-1", nil)
	final := collect(seq)
	if len(final) != 3 {
		t.Errorf("expected snapshot isolation, got %d windows", len(final))
	}
}

func TestIdempotentRead(t *testing.T) {
	ix := NewIndex()
	ix.ReplaceRoom("room-1", []*model.Booking{
		booking("b1", iv(10, 0, 11, 0), model.BookingConfirmed),
	})

	window := iv(8, 0, 18, 0)
	first := collect(ix.FreeWindows("room-1", window))
	second := collect(ix.FreeWindows("room-1", window))

	if len(first) != len(second) {
		t.Fatalf("expected identical results, got %d vs %d windows", len(first), len(second))
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) || !first[i].End.Equal(second[i].End) {
			t.Errorf("window %d differs between reads", i)
		}
	}
}

func TestIsFree(t *testing.T) {
	ix := NewIndex()
	ix.ReplaceRoom("room-1", []*model.Booking{
		booking("b1", iv(10, 0, 11, 0), model.BookingConfirmed),
	})

	if ix.IsFree("room-1", iv(10, 30, 11, 30)) {
		t.Error("expected overlapping interval to be busy")
	}
	if !ix.IsFree("room-1", iv(11, 0, 12, 0)) {
		t.Error("expected back-to-back interval to be free")
	}
	if !ix.IsFree("room-other", iv(10, 0, 11, 0)) {
		t.Error("expected unknown room to be free")
	}
}
