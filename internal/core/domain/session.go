package domain

import "strings"

// Role is the account-level role attached to a session.
type Role string

const (
	RoleNone  Role = ""
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// adminRoleID is the numeric role the auth endpoints return for administrators.
const adminRoleID = 1

// ParseRole normalises a role string coming from storage or the server.
// Unknown values yield RoleNone and false.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return RoleNone, false
	}
}

// RoleFromID maps the roleId returned by login and OAuth exchange.
func RoleFromID(id int) Role {
	if id == adminRoleID {
		return RoleAdmin
	}
	return RoleUser
}

// Is reports whether r and other name the same role, ignoring case.
// Every role check in the client goes through this method.
func (r Role) Is(other Role) bool {
	return strings.EqualFold(strings.TrimSpace(string(r)), strings.TrimSpace(string(other)))
}

func (r Role) String() string { return string(r) }

// MemberRole is the role a member holds inside a single workspace.
type MemberRole string

const (
	MemberOwner  MemberRole = "OWNER"
	MemberAdmin  MemberRole = "ADMIN"
	MemberMember MemberRole = "MEMBER"
)

// CanManage reports whether the role may invite, re-role and remove members.
func (r MemberRole) CanManage() bool {
	return r == MemberOwner || r == MemberAdmin
}

// BoardRole is the role a member holds on a single board.
type BoardRole string

const (
	BoardLeader BoardRole = "LEADER"
	BoardMember BoardRole = "MEMBER"
)

// User is the identity persisted under the "user" storage key.
type User struct {
	ID             int64                `json:"userId"`
	Email          string               `json:"email"`
	Role           Role                 `json:"role"`
	MemberID       int64                `json:"memberId"`
	WorkspaceRoles map[int64]MemberRole `json:"workspaceRoles,omitempty"`
}

// Clone returns a deep copy so callers never share the stored map.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.WorkspaceRoles != nil {
		c.WorkspaceRoles = make(map[int64]MemberRole, len(u.WorkspaceRoles))
		for k, v := range u.WorkspaceRoles {
			c.WorkspaceRoles[k] = v
		}
	}
	return &c
}

// Session is a point-in-time view of who is logged in.
// A nil User with a non-empty Token is the degraded, roleless session.
type Session struct {
	Token string `json:"-"`
	User  *User  `json:"user"`
}

// Authenticated reports whether a bearer token is present.
func (s Session) Authenticated() bool { return s.Token != "" }

// Role returns the session role, or RoleNone when no user is loaded.
func (s Session) Role() Role {
	if s.User == nil {
		return RoleNone
	}
	return s.User.Role
}

// SessionEvent names a Session Store mutation.
type SessionEvent string

const (
	SessionLoggedIn  SessionEvent = "login"
	SessionLoggedOut SessionEvent = "logout"
	SessionUpdated   SessionEvent = "update"
)
