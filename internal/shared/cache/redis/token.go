// Package redis AuthToken 缓存操作
package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"community-admin/internal/shared/cache"
	"community-admin/internal/shared/model"
)

var _ cache.TokenCache = (*Store)(nil)

// SetToken 写入令牌缓存
func (s *Store) SetToken(ctx context.Context, token *model.AuthToken, ttl time.Duration) error {
	key := cache.KeyAuthToken + token.Key

	data, err := json.Marshal(token)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, key, data, ttl).Err()
}

// GetToken 读取令牌缓存，未命中返回 (nil, nil)
func (s *Store) GetToken(ctx context.Context, tokenKey string) (*model.AuthToken, error) {
	key := cache.KeyAuthToken + tokenKey

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var token model.AuthToken
	if err := json.Unmarshal([]byte(data), &token); err != nil {
		return nil, err
	}

	return &token, nil
}

// DeleteToken 失效令牌缓存（登出时必须调用）
func (s *Store) DeleteToken(ctx context.Context, tokenKey string) error {
	key := cache.KeyAuthToken + tokenKey
	return s.client.Del(ctx, key).Err()
}
