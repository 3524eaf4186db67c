package model

import "time"

// Feedback is a user report about a room. It shares the bookings
// authorization pattern but has a trivial two-edge state machine.
type Feedback struct {
	ID                string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	RoomID            string         `json:"room_id" bson:"room_id" validate:"required,uuid4"`
	UserID            string         `json:"user_id" bson:"user_id" validate:"required,uuid4"`
	Message           string         `json:"message" bson:"message" validate:"required,min=2,max=2000"`
	Status            FeedbackStatus `json:"status" bson:"status" validate:"required,oneof=open resolved dismissed"`
	ResolverID        string         `json:"resolver_id,omitempty" bson:"resolver_id,omitempty"`
	ResolutionComment string         `json:"resolution_comment,omitempty" bson:"resolution_comment,omitempty" validate:"omitempty,max=2000"`
	CreatedAt         time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" bson:"updated_at"`
}
