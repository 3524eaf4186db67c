package model

import "testing"

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCancelled, BookingPending, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCancelled, BookingCancelled, false},
		{BookingPending, BookingPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBookingStatusIsActive(t *testing.T) {
	if !BookingPending.IsActive() {
		t.Error("pending must hold its room slot")
	}
	if !BookingConfirmed.IsActive() {
		t.Error("confirmed must hold its room slot")
	}
	if BookingCancelled.IsActive() {
		t.Error("cancelled must release its room slot")
	}
}

func TestBookingStatusIsTerminal(t *testing.T) {
	if BookingPending.IsTerminal() || BookingConfirmed.IsTerminal() {
		t.Error("only cancelled is terminal")
	}
	if !BookingCancelled.IsTerminal() {
		t.Error("cancelled must be terminal")
	}
}

func TestFeedbackStatusTransitions(t *testing.T) {
	tests := []struct {
		from FeedbackStatus
		to   FeedbackStatus
		want bool
	}{
		{FeedbackOpen, FeedbackResolved, true},
		{FeedbackOpen, FeedbackDismissed, true},
		{FeedbackResolved, FeedbackDismissed, false},
		{FeedbackResolved, FeedbackOpen, false},
		{FeedbackDismissed, FeedbackResolved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}
