// Package cache 缓存层 mock 实现
package cache

import (
	"context"
	"sync"
	"time"

	"community-admin/internal/shared/model"
)

// ============================================================================
// NoOpCache - 空操作的 TokenCache 实现（用于无 Redis 部署）
// ============================================================================

// NoOpCache 是一个不做任何操作的 TokenCache 实现
type NoOpCache struct{}

// NewNoOpCache 创建 NoOpCache 实例
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) SetToken(ctx context.Context, token *model.AuthToken, ttl time.Duration) error {
	return nil
}

func (c *NoOpCache) GetToken(ctx context.Context, key string) (*model.AuthToken, error) {
	return nil, nil
}

func (c *NoOpCache) DeleteToken(ctx context.Context, key string) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

var _ TokenCache = (*NoOpCache)(nil)

// ============================================================================
// MemoryCache - 进程内 TokenCache 实现（用于测试）
// ============================================================================

// MemoryCache 基于 map 的进程内令牌缓存，不做 TTL 过期
type MemoryCache struct {
	mu     sync.RWMutex
	tokens map[string]*model.AuthToken
}

// NewMemoryCache 创建 MemoryCache 实例
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{tokens: make(map[string]*model.AuthToken)}
}

func (c *MemoryCache) SetToken(ctx context.Context, token *model.AuthToken, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *token
	c.tokens[token.Key] = &copied
	return nil
}

func (c *MemoryCache) GetToken(ctx context.Context, key string) (*model.AuthToken, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	token, ok := c.tokens[key]
	if !ok {
		return nil, nil
	}
	copied := *token
	return &copied, nil
}

func (c *MemoryCache) DeleteToken(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tokens, key)
	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}

var _ TokenCache = (*MemoryCache)(nil)
