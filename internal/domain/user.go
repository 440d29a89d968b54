package domain

// User statuses as stored on the record store's user collection. The
// store may carry more (draft, archived); only these three matter to
// the auth core.
const (
	UserStatusPending   = "pending"
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User mirrors the fields this service reads from the store's user
// collection. Token is the static session credential, stored in
// plaintext on the record and compared by exact match.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Status    string `json:"status"`
	Token     string `json:"token,omitempty"`
	Role      Role   `json:"role"`
}

// Identity is the normalized shape handed to handlers after a session
// resolves. Role is denormalized to a display string; authorization
// decisions key off RoleName, not RoleID.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Status    string `json:"status"`
	RoleName  string `json:"role"`
	RoleID    string `json:"role_id,omitempty"`
}

func (u *User) Identity() *Identity {
	return &Identity{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Status:    u.Status,
		RoleName:  u.Role.Name,
		RoleID:    u.Role.ID,
	}
}
