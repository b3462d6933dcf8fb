// Package models holds the role based access control kinds. Roles bundle
// permissions, groups bundle roles and users hold roles directly.
package models

const (
	AuthorityKind  = "Authority"
	PermissionKind = "Permission"
	RoleKind       = "Role"
	GroupKind      = "Group"
	UserKind       = "User"
)

type Authority struct {
	ID   int64
	Name string
}

type Permission struct {
	ID          int64
	Name        string
	Description string
}

type Role struct {
	ID            int64
	Name          string
	Description   string
	PermissionIDs []int64
}

type Group struct {
	ID      int64
	Name    string
	RoleIDs []int64
}

// User carries the plaintext Password only between decoding and hashing.
// Only PasswordHash is stored.
type User struct {
	ID           int64
	Username     string
	Email        string
	Password     string
	PasswordHash string
	Enabled      bool
	RoleIDs      []int64
}

type AuthorityDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type PermissionDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type RoleDTO struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	PermissionIDs []int64 `json:"permissionIds"`
}

type GroupDTO struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	RoleIDs []int64 `json:"roleIds"`
}

// UserDTO accepts a password on input and never returns one. Enabled
// defaults to true when omitted.
type UserDTO struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password,omitempty"`
	Enabled  *bool   `json:"enabled,omitempty"`
	RoleIDs  []int64 `json:"roleIds"`
}

// EffectivePermissions is what a user may do through their roles.
type EffectivePermissions struct {
	UserID      int64           `json:"userId"`
	Roles       []RoleDTO       `json:"roles"`
	Permissions []PermissionDTO `json:"permissions"`
}

func AuthorityToDTO(a Authority) AuthorityDTO { return AuthorityDTO(a) }

func AuthorityToEntity(d AuthorityDTO) Authority { return Authority(d) }

func PermissionToDTO(p Permission) PermissionDTO { return PermissionDTO(p) }

func PermissionToEntity(d PermissionDTO) Permission { return Permission(d) }

func RoleToDTO(r Role) RoleDTO {
	return RoleDTO{ID: r.ID, Name: r.Name, Description: r.Description, PermissionIDs: ids(r.PermissionIDs)}
}

func RoleToEntity(d RoleDTO) Role {
	return Role{ID: d.ID, Name: d.Name, Description: d.Description, PermissionIDs: d.PermissionIDs}
}

func GroupToDTO(g Group) GroupDTO {
	return GroupDTO{ID: g.ID, Name: g.Name, RoleIDs: ids(g.RoleIDs)}
}

func GroupToEntity(d GroupDTO) Group {
	return Group{ID: d.ID, Name: d.Name, RoleIDs: d.RoleIDs}
}

func UserToDTO(u User) UserDTO {
	enabled := u.Enabled
	return UserDTO{ID: u.ID, Username: u.Username, Email: u.Email, Enabled: &enabled, RoleIDs: ids(u.RoleIDs)}
}

func UserToEntity(d UserDTO) User {
	return User{
		ID:       d.ID,
		Username: d.Username,
		Email:    d.Email,
		Password: d.Password,
		Enabled:  d.Enabled == nil || *d.Enabled,
		RoleIDs:  d.RoleIDs,
	}
}

// ids keeps empty associations as [] on the wire.
func ids(v []int64) []int64 {
	if v == nil {
		return []int64{}
	}
	return v
}
