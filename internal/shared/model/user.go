package model

import "time"

// Role 用户组角色
//
// 固定三种角色，每种角色对帖子资源持有固定的能力集合
// （能力表见 authz 包）。
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleModerator Role = "Moderator"
	RoleRegular   Role = "Regular"
)

// AllRoles 全部内置角色（种子数据顺序）
var AllRoles = []Role{RoleAdmin, RoleModerator, RoleRegular}

// Valid 是否为内置角色
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleRegular:
		return true
	}
	return false
}

// User 用户
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // never expose in JSON
	IsStaff      bool      `json:"is_staff" db:"is_staff"`
	Groups       []Role    `json:"groups"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// HasRole 用户是否属于指定角色组
func (u *User) HasRole(role Role) bool {
	for _, g := range u.Groups {
		if g == role {
			return true
		}
	}
	return false
}
