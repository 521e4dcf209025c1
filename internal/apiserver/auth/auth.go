// Package auth 用户认证：不透明令牌管理、密码哈希、HTTP 中间件
//
// 令牌为 40 位十六进制随机值，持久化在 auth_tokens 表中，
// 每用户同一时刻只有一个有效令牌，登出即删除。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"community-admin/internal/shared/model"
)

// contextKey context 键类型
type contextKey string

const (
	ctxKeyAuthUser  contextKey = "auth_user"
	ctxKeyAuthToken contextKey = "auth_token"
)

// ============================================================================
// 密码哈希
// ============================================================================

// HashPassword 使用 bcrypt 哈希密码
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(bytes), err
}

// CheckPassword 验证密码
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ============================================================================
// 令牌生成
// ============================================================================

// GenerateTokenKey 生成 40 位十六进制令牌值
func GenerateTokenKey() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ============================================================================
// Context 辅助函数
// ============================================================================

// WithAuthUser 将认证用户注入 context
func WithAuthUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, ctxKeyAuthUser, user)
}

// GetAuthUser 从 context 获取认证用户
// 返回 nil 表示匿名请求
func GetAuthUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(ctxKeyAuthUser).(*model.User)
	return user
}

// WithAuthToken 将本次请求使用的令牌值注入 context
func WithAuthToken(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ctxKeyAuthToken, key)
}

// GetAuthToken 从 context 获取本次请求使用的令牌值
func GetAuthToken(ctx context.Context) string {
	key, _ := ctx.Value(ctxKeyAuthToken).(string)
	return key
}

// ============================================================================
// 输入校验
// ============================================================================

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
