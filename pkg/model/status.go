package model

// BookingStatus is a closed set; new values must be added to the transition
// table below or every mutation on them fails as an invalid transition.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// bookingTransitions is the single place legal status edges are defined.
// CANCELLED is terminal; CONFIRMED never goes back to PENDING.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCancelled},
	BookingCancelled: {},
}

// CanTransitionTo reports whether s -> next is a legal edge.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive reports whether the booking still occupies its room slot.
// PENDING counts as a soft hold that blocks the interval.
func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingConfirmed
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled
}

type FeedbackStatus string

const (
	FeedbackOpen      FeedbackStatus = "open"
	FeedbackResolved  FeedbackStatus = "resolved"
	FeedbackDismissed FeedbackStatus = "dismissed"
)

// Feedback has a two-edge machine: OPEN -> RESOLVED, OPEN -> DISMISSED.
var feedbackTransitions = map[FeedbackStatus][]FeedbackStatus{
	FeedbackOpen:      {FeedbackResolved, FeedbackDismissed},
	FeedbackResolved:  {},
	FeedbackDismissed: {},
}

func (s FeedbackStatus) CanTransitionTo(next FeedbackStatus) bool {
	for _, allowed := range feedbackTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s FeedbackStatus) IsTerminal() bool {
	return s == FeedbackResolved || s == FeedbackDismissed
}
