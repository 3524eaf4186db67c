package model

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// User is collaborator data from the user directory.
type User struct {
	ID   string `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
	Role Role   `json:"role" bson:"role" validate:"required,oneof=admin manager user"`
}

// ManagerGrant scopes a MANAGER to a single location. ADMIN implicitly
// holds every location, USER holds none, so only managers carry grants.
type ManagerGrant struct {
	UserID     string `json:"user_id" bson:"user_id"`
	LocationID string `json:"location_id" bson:"location_id"`
}

// Principal is a resolved actor: the user record plus, for managers, the
// set of locations they administer.
type Principal struct {
	ID        string
	Role      Role
	Locations []string
}

// HasGrant reports whether the principal manages the given location.
// Role is not consulted here; the scoper handles admin short-circuits.
func (p *Principal) HasGrant(locationID string) bool {
	for _, loc := range p.Locations {
		if loc == locationID {
			return true
		}
	}
	return false
}
