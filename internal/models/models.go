package models

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

// Level places roles on a single ordered scale so every authorization
// check is one comparison: admin > manager > viewer. Unknown roles rank
// below viewer and satisfy nothing.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleViewer:
		return 1
	}
	return 0
}

func (r Role) Valid() bool { return r.Level() > 0 }

func (r Role) AtLeast(min Role) bool { return r.Level() >= min.Level() }

type Status string

const (
	StatusNew       Status = "new"
	StatusViewed    Status = "viewed"
	StatusContacted Status = "contacted"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// Valid reports whether s is one of the fixed submission statuses.
// There is no transition graph: any valid status may follow any other.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusViewed, StatusContacted, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"password"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// PublicUser is the wire shape of a user with the password hash stripped.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Name: u.Name, Email: u.Email, Role: u.Role}
}

type Submission struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Surname   string     `json:"surname,omitempty"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Date      time.Time  `json:"date"`
	Status    Status     `json:"status"`
	IP        string     `json:"ip"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	UpdatedBy string     `json:"updated_by,omitempty"`
}

// Session lives only in process memory; a restart logs everyone out.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (s Session) User() PublicUser {
	return PublicUser{ID: s.UserID, Username: s.Username, Name: s.Name, Email: s.Email, Role: s.Role}
}
