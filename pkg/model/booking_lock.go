package model

import "time"

// BookingLock is a room-scoped advisory lock guarding the
// conflict-check-and-insert critical section across processes.
// A duplicate-key insert means another request holds the room.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	RoomID    string    `bson:"room_id" json:"room_id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
