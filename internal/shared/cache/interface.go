// Package cache 缓存层抽象接口
//
// 提供认证令牌的读穿缓存能力，当前由 Redis 实现。
// 缓存不可用时调用方直接回源数据库，不影响正确性。
package cache

import (
	"context"
	"time"

	"community-admin/internal/shared/model"
)

// ============================================================================
// 缓存接口定义
// ============================================================================

// TokenCache 认证令牌缓存接口
//
// 以令牌值为键缓存令牌归属，登出时必须同步失效，
// 否则已删除的令牌仍会在 TTL 内通过认证。
type TokenCache interface {
	SetToken(ctx context.Context, token *model.AuthToken, ttl time.Duration) error
	GetToken(ctx context.Context, key string) (*model.AuthToken, error)
	DeleteToken(ctx context.Context, key string) error
	Close() error
}

// ============================================================================
// Key 前缀和 TTL 常量
// ============================================================================

const (
	// Key 前缀
	KeyAuthToken = "auth_token:"

	// 默认 TTL
	TTLAuthToken = 5 * time.Minute
)
