// Package storage 定义持久化存储层抽象接口
//
// 设计原则：依赖倒置 (DIP)
//   - 调用方只依赖接口，不知道具体实现
//   - 具体实现在 repository/ 子包，驱动在 driver/ 子包
//   - 初始化时通过依赖注入传入实现
package storage

import (
	"context"

	"community-admin/internal/shared/model"
)

// UserStore 用户存储接口
//
// CreateUser 在单个事务中写入用户及其初始角色组。
// DeleteUser 级联删除该用户的帖子、评论、任务和令牌。
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User, role model.Role) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUserEmail(ctx context.Context, id, email string) error
	UpdateUserStaffStatus(ctx context.Context, id string, isStaff bool) error
	DeleteUser(ctx context.Context, id string) error
}

// GroupStore 角色组存储接口
//
// EnsureGroup 幂等：组已存在时返回 (false, nil)，不报错。
// AssignRole 为独占语义：先清空用户的全部组，再加入目标组。
type GroupStore interface {
	EnsureGroup(ctx context.Context, role model.Role) (created bool, err error)
	AssignRole(ctx context.Context, userID string, role model.Role) error
	ListUserRoles(ctx context.Context, userID string) ([]model.Role, error)
}

// TokenStore 令牌存储接口
//
// GetOrCreateToken 每用户复用同一令牌（不存在时以 key 新建）。
type TokenStore interface {
	GetOrCreateToken(ctx context.Context, userID, key string) (*model.AuthToken, error)
	GetToken(ctx context.Context, key string) (*model.AuthToken, error)
	DeleteToken(ctx context.Context, key string) error
}

// PostStore 帖子存储接口
type PostStore interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id string) (*model.Post, error)
	ListPosts(ctx context.Context) ([]*model.Post, error)
	UpdatePost(ctx context.Context, id, content string) error
	DeletePost(ctx context.Context, id string) error
}

// CommentStore 评论存储接口
type CommentStore interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, id string) (*model.Comment, error)
	ListComments(ctx context.Context) ([]*model.Comment, error)
	ListCommentsByPost(ctx context.Context, postID string) ([]*model.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// TaskStore 任务存储接口
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasksByAssignee(ctx context.Context, userID string) ([]*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// PersistentStore 持久化存储组合接口
type PersistentStore interface {
	UserStore
	GroupStore
	TokenStore
	PostStore
	CommentStore
	TaskStore
	Close() error
}
