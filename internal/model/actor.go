package model

// Actor is the authenticated caller of an operation. It is built by the auth
// middleware and handed to services explicitly.
type Actor struct {
	UserID   string
	Building int
	Role     string
}

// SystemActor is used by maintenance commands that run outside a request.
var SystemActor = Actor{UserID: "system", Role: RoleAdmin}

// CanViewInventoryOf reports whether the actor may read userID's inventory.
// Techs only see their own.
func (a Actor) CanViewInventoryOf(userID string) bool {
	if a.Role != RoleTech {
		return true
	}
	return userID == a.UserID
}

// HasRole reports whether the actor has one of roles.
func (a Actor) HasRole(roles ...string) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
