package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"community-admin/internal/shared/model"
)

// GetOrCreateToken 返回用户的令牌，不存在时以 key 新建
// 每用户最多一个令牌，重复登录复用同一令牌。
func (r *Store) GetOrCreateToken(ctx context.Context, userID, key string) (*model.AuthToken, error) {
	token := &model.AuthToken{}
	err := r.db.QueryRowContext(ctx, r.rebind(
		`SELECT key, user_id, created_at FROM auth_tokens WHERE user_id = $1`), userID,
	).Scan(&token.Key, &token.UserID, &token.CreatedAt)
	if err == nil {
		return token, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, r.rebind(
		`INSERT INTO auth_tokens (key, user_id, created_at) VALUES ($1, $2, $3)`),
		key, userID, now)
	if err != nil {
		// 并发登录：另一请求在 SELECT 和 INSERT 之间抢先建了令牌，读取胜者的
		werr := r.mapWriteError(err)
		if !errors.Is(werr, ErrDuplicate) {
			return nil, werr
		}
		winner := &model.AuthToken{}
		err = r.db.QueryRowContext(ctx, r.rebind(
			`SELECT key, user_id, created_at FROM auth_tokens WHERE user_id = $1`), userID,
		).Scan(&winner.Key, &winner.UserID, &winner.CreatedAt)
		if err != nil {
			return nil, err
		}
		return winner, nil
	}
	return &model.AuthToken{Key: key, UserID: userID, CreatedAt: now}, nil
}

// GetToken 通过令牌值查找令牌
func (r *Store) GetToken(ctx context.Context, key string) (*model.AuthToken, error) {
	token := &model.AuthToken{}
	err := r.db.QueryRowContext(ctx, r.rebind(
		`SELECT key, user_id, created_at FROM auth_tokens WHERE key = $1`), key,
	).Scan(&token.Key, &token.UserID, &token.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}

// DeleteToken 删除令牌（登出后同一令牌必须被拒绝）
func (r *Store) DeleteToken(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, r.rebind(
		`DELETE FROM auth_tokens WHERE key = $1`), key)
	return err
}
