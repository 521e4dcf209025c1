package model

import "time"

// AuthToken 不透明的 Bearer 令牌
//
// 每个用户最多持有一个令牌，登录时 get-or-create 复用，
// 登出时删除（之后同一令牌必须被拒绝）。
type AuthToken struct {
	Key       string    `json:"token" db:"key"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
