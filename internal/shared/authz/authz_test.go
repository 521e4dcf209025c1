package authz

import (
	"testing"

	"community-admin/internal/shared/model"
)

func user(id string, staff bool, roles ...model.Role) *model.User {
	return &model.User{ID: id, IsStaff: staff, Groups: roles}
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		role     model.Role
		expected []Action
	}{
		{model.RoleRegular, []Action{ActionView, ActionAdd}},
		{model.RoleModerator, []Action{ActionView, ActionAdd, ActionChange, ActionDelete}},
		{model.RoleAdmin, []Action{ActionView, ActionAdd, ActionChange, ActionDelete}},
		{model.Role("Unknown"), []Action{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			got := Capabilities(tt.role)
			if len(got) != len(tt.expected) {
				t.Fatalf("Capabilities(%q) = %v, want %v", tt.role, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Capabilities(%q)[%d] = %v, want %v", tt.role, i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestRoleAllows(t *testing.T) {
	tests := []struct {
		name     string
		role     model.Role
		action   Action
		expected bool
	}{
		{"regular view", model.RoleRegular, ActionView, true},
		{"regular add", model.RoleRegular, ActionAdd, true},
		{"regular change", model.RoleRegular, ActionChange, false},
		{"regular delete", model.RoleRegular, ActionDelete, false},
		{"moderator change", model.RoleModerator, ActionChange, true},
		{"moderator delete", model.RoleModerator, ActionDelete, true},
		{"admin delete", model.RoleAdmin, ActionDelete, true},
		{"unknown role", model.Role("Ghost"), ActionView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleAllows(tt.role, tt.action); got != tt.expected {
				t.Errorf("RoleAllows(%q, %q) = %v, want %v", tt.role, tt.action, got, tt.expected)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	post := &model.Post{ID: "post-1", AuthorID: "alice"}

	tests := []struct {
		name     string
		actor    *model.User
		action   Action
		expected Decision
	}{
		// 匿名先于对象级判定被拒绝
		{"anonymous view", nil, ActionView, Deny},
		{"anonymous delete", nil, ActionDelete, Deny},

		// 安全操作对任何已认证 actor 放行
		{"regular stranger view", user("bob", false, model.RoleRegular), ActionView, Allow},
		{"regular stranger add", user("bob", false, model.RoleRegular), ActionAdd, Allow},

		// 归属者可写/删，角色无关
		{"owner change", user("alice", false, model.RoleRegular), ActionChange, Allow},
		{"owner delete", user("alice", false, model.RoleRegular), ActionDelete, Allow},
		{"owner without any role delete", user("alice", false), ActionDelete, Allow},

		// 非归属的 Regular 被拒绝
		{"regular stranger change", user("bob", false, model.RoleRegular), ActionChange, Deny},
		{"regular stranger delete", user("bob", false, model.RoleRegular), ActionDelete, Deny},
		{"roleless stranger delete", user("bob", false), ActionDelete, Deny},

		// Moderator/Admin 角色对任意帖子可写/删
		{"moderator stranger change", user("bob", false, model.RoleModerator), ActionChange, Allow},
		{"moderator stranger delete", user("bob", false, model.RoleModerator), ActionDelete, Allow},
		{"admin role stranger delete", user("bob", false, model.RoleAdmin), ActionDelete, Allow},

		// staff 直通
		{"staff stranger delete", user("bob", true), ActionDelete, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.actor, tt.action, post); got != tt.expected {
				t.Errorf("Authorize(%v, %q) = %v, want %v", tt.actor, tt.action, got, tt.expected)
			}
		})
	}
}

func TestCanManageUsers(t *testing.T) {
	tests := []struct {
		name     string
		actor    *model.User
		expected bool
	}{
		{"anonymous", nil, false},
		{"staff", user("u1", true), true},
		// Admin 角色不等于 staff：角色管理没有归属/角色例外
		{"admin role but not staff", user("u1", false, model.RoleAdmin), false},
		{"regular", user("u1", false, model.RoleRegular), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanManageUsers(tt.actor); got != tt.expected {
				t.Errorf("CanManageUsers() = %v, want %v", got, tt.expected)
			}
		})
	}
}
