package model

import (
	"time"
)

type Booking struct {
	ID          string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	RoomID      string        `json:"room_id" bson:"room_id" validate:"required,uuid4"`
	UserID      string        `json:"user_id" bson:"user_id" validate:"required,uuid4"`
	StartTime   time.Time     `json:"start_time" bson:"start_time" validate:"required"`
	EndTime     time.Time     `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Title       string        `json:"title" bson:"title" validate:"required,min=2,max=120"`
	Description string        `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Status      BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}

// Interval returns the half-open range the booking occupies.
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// BookingReschedule carries the replacement interval for a reschedule request.
type BookingReschedule struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

func (r *BookingReschedule) Interval() Interval {
	return Interval{Start: r.StartTime, End: r.EndTime}
}
