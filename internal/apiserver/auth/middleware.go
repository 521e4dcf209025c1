package auth

import (
	"log"
	"net/http"
	"strings"
	"time"

	"community-admin/internal/shared/cache"
	"community-admin/internal/shared/model"
)

// 免认证路由精确匹配
var publicExact = map[string]bool{
	"GET /users/":         true,
	"POST /users/create/": true,
	"POST /users/login/":  true,
	"GET /health":         true,
	"GET /metrics":        true,
}

func isPublicRoute(method, path string) bool {
	if publicExact[method+" "+path] {
		return true
	}
	// 用户更新/删除路由带路径参数，按方法加前缀匹配
	if method == http.MethodPut && strings.HasPrefix(path, "/users/update/") {
		return true
	}
	if method == http.MethodDelete && strings.HasPrefix(path, "/users/delete/") {
		return true
	}
	return false
}

// Middleware 创建令牌认证中间件
//
// 令牌查找顺序：缓存 → 数据库，命中数据库后回填缓存。
// 缓存故障只记录日志，不影响认证结果。
func Middleware(store Store, tokens cache.TokenCache, cacheTTL time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 公开路由：直接放行
			if isPublicRoute(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// 提取 Bearer Token（兼容 "Token <key>" 形式的客户端）
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !(strings.EqualFold(parts[0], "bearer") || strings.EqualFold(parts[0], "token")) {
				http.Error(w, `{"error":"invalid authorization header"}`, http.StatusUnauthorized)
				return
			}
			key := strings.TrimSpace(parts[1])
			if key == "" {
				http.Error(w, `{"error":"invalid authorization header"}`, http.StatusUnauthorized)
				return
			}

			token, err := lookupToken(r, store, tokens, key, cacheTTL)
			if err != nil {
				log.Printf("[auth] token lookup error: %v", err)
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
			if token == nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			// 令牌有效但用户可能已被删除
			user, err := store.GetUserByID(r.Context(), token.UserID)
			if err != nil {
				log.Printf("[auth] GetUserByID error: %v", err)
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
			if user == nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := WithAuthUser(r.Context(), user)
			ctx = WithAuthToken(ctx, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// lookupToken 读穿缓存查找令牌
func lookupToken(r *http.Request, store Store, tokens cache.TokenCache, key string, ttl time.Duration) (*model.AuthToken, error) {
	ctx := r.Context()

	if tokens != nil {
		cached, err := tokens.GetToken(ctx, key)
		if err != nil {
			log.Printf("[auth] cache read error: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	token, err := store.GetToken(ctx, key)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, nil
	}

	if tokens != nil {
		if err := tokens.SetToken(ctx, token, ttl); err != nil {
			log.Printf("[auth] cache write error: %v", err)
		}
	}
	return token, nil
}
