// Package authz 角色能力表与授权判定
//
// 授权模型：
//   - 三个固定角色 {Admin, Moderator, Regular}，每个角色对帖子类资源
//     持有固定的能力集合（查表，不做动态派发）
//   - 对象级判定 Authorize(actor, action, resource)：staff 直通；
//     安全操作（view）放行；写/删要求资源归属或角色能力
//   - 角色/staff 管理类操作仅限 staff，没有归属例外
//
// 判定为纯函数，拒绝即终结：没有重试，也没有除角色重新分配之外的提升路径。
package authz

import "community-admin/internal/shared/model"

// Action 可授予角色的能力
type Action string

const (
	ActionView   Action = "view"
	ActionAdd    Action = "add"
	ActionChange Action = "change"
	ActionDelete Action = "delete"
)

// Decision 授权判定结果
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// capabilities 角色 -> 能力集合（固定表，与种子数据一致）
//
//	Regular:   view, add
//	Moderator: view, add, change, delete
//	Admin:     view, add, change, delete
var capabilities = map[model.Role]map[Action]bool{
	model.RoleRegular: {
		ActionView: true,
		ActionAdd:  true,
	},
	model.RoleModerator: {
		ActionView:   true,
		ActionAdd:    true,
		ActionChange: true,
		ActionDelete: true,
	},
	model.RoleAdmin: {
		ActionView:   true,
		ActionAdd:    true,
		ActionChange: true,
		ActionDelete: true,
	},
}

// actionOrder 能力的稳定输出顺序
var actionOrder = []Action{ActionView, ActionAdd, ActionChange, ActionDelete}

// Capabilities 返回角色的能力集合
//
// 未知角色返回空集合。
func Capabilities(role model.Role) []Action {
	caps := capabilities[role]
	result := make([]Action, 0, len(caps))
	for _, a := range actionOrder {
		if caps[a] {
			result = append(result, a)
		}
	}
	return result
}

// RoleAllows 角色是否持有指定能力
func RoleAllows(role model.Role, action Action) bool {
	return capabilities[role][action]
}

// Resource 受对象级权限保护的资源
type Resource interface {
	// OwnerID 返回资源归属用户的 ID
	OwnerID() string
}

// Authorize 对象级授权判定
//
// 规则（顺序即优先级）：
//  1. 匿名 actor 一律拒绝
//  2. staff 直通
//  3. view 对任何已认证 actor 放行
//  4. change/delete 要求 actor 为资源归属者，或所属角色持有该能力
//
// 资源存在性检查在调用方完成：不存在的资源先返回 404，不进入授权判定。
func Authorize(actor *model.User, action Action, res Resource) Decision {
	if actor == nil {
		return Deny
	}
	if actor.IsStaff {
		return Allow
	}
	switch action {
	case ActionView:
		return Allow
	case ActionAdd:
		// add 不是对象级操作，所有角色都持有
		return Allow
	}
	if res != nil && res.OwnerID() == actor.ID {
		return Allow
	}
	for _, role := range actor.Groups {
		if RoleAllows(role, action) {
			return Allow
		}
	}
	return Deny
}

// CanManageUsers 角色/staff 管理类操作判定
//
// 仅限 staff，没有归属例外。
func CanManageUsers(actor *model.User) bool {
	return actor != nil && actor.IsStaff
}
