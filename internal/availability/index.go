package availability

import (
	"iter"
	"roomly/pkg/model"
	"sort"
	"sync"
)

// Index is a per-room ordered view of active (non-cancelled) bookings.
// It is a read model rebuilt from persisted rows, never a source of
// truth: the booking repository's transactional overlap query decides
// conflicts, the index only answers availability reads.
type Index struct {
	mu     sync.RWMutex
	byRoom map[string][]entry
}

type entry struct {
	bookingID string
	interval  model.Interval
}

func NewIndex() *Index {
	return &Index{
		byRoom: make(map[string][]entry),
	}
}

// ReplaceRoom rebuilds one room's view from stored bookings. Cancelled
// bookings are dropped; the rest are ordered by start time.
func (ix *Index) ReplaceRoom(roomID string, bookings []*model.Booking) {
	entries := make([]entry, 0, len(bookings))
	for _, b := range bookings {
		if !b.Status.IsActive() {
			continue
		}
		entries = append(entries, entry{
			bookingID: b.ID,
			interval:  b.Interval(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].interval.Start.Before(entries[j].interval.Start)
	})

	ix.mu.Lock()
	ix.byRoom[roomID] = entries
	ix.mu.Unlock()
}

// HasRoom reports whether the room has been hydrated since startup.
func (ix *Index) HasRoom(roomID string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.byRoom[roomID]
	return ok
}

// FindConflicts returns the ids of active bookings overlapping the
// interval. excludeID skips a booking's own slot when rescheduling.
func (ix *Index) FindConflicts(roomID string, iv model.Interval, excludeID string) []string {
	snap := ix.snapshot(roomID)

	var ids []string
	for _, e := range snap {
		if !e.interval.Start.Before(iv.End) {
			break
		}
		if e.bookingID == excludeID {
			continue
		}
		if e.interval.Overlaps(iv) {
			ids = append(ids, e.bookingID)
		}
	}
	return ids
}

// IsFree reports whether the interval collides with no active booking.
func (ix *Index) IsFree(roomID string, iv model.Interval) bool {
	return len(ix.FindConflicts(roomID, iv, "")) == 0
}

// BusyWindows yields the room's occupied sub-intervals clipped to the
// query window, merged in time order. The sequence is lazy and
// restartable over a single consistent snapshot: callers may stop after
// the first N windows or range it again.
func (ix *Index) BusyWindows(roomID string, window model.Interval) iter.Seq[model.Interval] {
	return busySeq(ix.snapshot(roomID), window)
}

// FreeWindows yields the complement of BusyWindows within the query
// window, including the open ends.
func (ix *Index) FreeWindows(roomID string, window model.Interval) iter.Seq[model.Interval] {
	snap := ix.snapshot(roomID)
	return func(yield func(model.Interval) bool) {
		cursor := window.Start
		for busy := range busySeq(snap, window) {
			if busy.Start.After(cursor) {
				if !yield(model.Interval{Start: cursor, End: busy.Start}) {
					return
				}
			}
			cursor = busy.End
		}
		if cursor.Before(window.End) {
			yield(model.Interval{Start: cursor, End: window.End})
		}
	}
}

func busySeq(snap []entry, window model.Interval) iter.Seq[model.Interval] {
	return func(yield func(model.Interval) bool) {
		var current model.Interval
		open := false

		for _, e := range snap {
			if !e.interval.Start.Before(window.End) {
				break
			}
			clipped, ok := e.interval.Clip(window)
			if !ok {
				continue
			}
			if open && !clipped.Start.After(current.End) {
				// contiguous or overlapping with the running window
				if clipped.End.After(current.End) {
					current.End = clipped.End
				}
				continue
			}
			if open && !yield(current) {
				return
			}
			current = clipped
			open = true
		}

		if open {
			yield(current)
		}
	}
}

func (ix *Index) snapshot(roomID string) []entry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	src := ix.byRoom[roomID]
	snap := make([]entry, len(src))
	copy(snap, src)
	return snap
}
