package model

// Room is collaborator data owned by the directory; the booking engine
// only ever reads it.
type Room struct {
	ID         string   `json:"id" bson:"_id"`
	LocationID string   `json:"location_id" bson:"location_id"`
	Name       string   `json:"name" bson:"name"`
	Capacity   int      `json:"capacity" bson:"capacity"`
	Amenities  []string `json:"amenities,omitempty" bson:"amenities,omitempty"`
	Active     bool     `json:"active" bson:"active"`
}
