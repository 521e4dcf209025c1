package server

import (
	"net/http"

	"community-admin/internal/apiserver/auth"
	"community-admin/internal/apiserver/comment"
	"community-admin/internal/apiserver/post"
	"community-admin/internal/apiserver/task"
	"community-admin/internal/apiserver/user"
)

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 健康检查:
//   - GET  /health - 服务健康检查
//   - GET  /metrics - Prometheus 指标
//
// 认证 (Auth):
//   - POST /users/create/  - 注册（开放）
//   - POST /users/login/   - 登录（开放）
//   - POST /users/logout/  - 登出
//   - GET  /users/profile/ - 当前用户信息
//
// 用户管理 (User):
//   - GET    /users/                     - 列出用户（开放）
//   - PUT    /users/update/{id}/         - 更新用户邮箱（开放）
//   - DELETE /users/delete/{id}/         - 删除用户（开放）
//   - POST   /users/assign-role/         - 独占式角色分配（staff 专属）
//   - POST   /users/update-staff-status/ - 更新 staff 标记（staff 专属）
//
// 帖子 (Post):
//   - GET    /            - 列出帖子
//   - POST   /            - 创建帖子
//   - GET    /posts/{id}/ - 帖子详情（附评论）
//   - PUT    /posts/{id}/ - 更新帖子（归属者或 Moderator/Admin）
//   - DELETE /posts/{id}/ - 删除帖子（归属者或 Moderator/Admin）
//
// 评论 (Comment):
//   - GET  /comments/ - 列出评论
//   - POST /comments/ - 创建评论
//
// 任务 (Task):
//   - GET  /tasks/ - 列出指派给请求者的任务
//   - POST /tasks/ - 创建任务
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// 健康检查
	mux.HandleFunc("GET /health", h.Health)

	// Prometheus 指标端点
	mux.Handle("GET /metrics", MetricsHandler())

	// 认证路由
	authHandler := auth.NewHandler(h.store, h.tokens)
	authHandler.RegisterRoutes(mux)

	// 用户管理路由
	userHandler := user.NewHandler(h.store)
	userHandler.RegisterRoutes(mux)

	// 帖子路由
	postHandler := post.NewHandler(h.store)
	postHandler.RegisterRoutes(mux)

	// 评论路由
	commentHandler := comment.NewHandler(h.store)
	commentHandler.RegisterRoutes(mux)

	// 任务路由
	taskHandler := task.NewHandler(h.store)
	taskHandler.RegisterRoutes(mux)

	// 应用指标中间件
	apiHandler := h.metrics.MetricsMiddleware(mux)

	// 应用认证中间件
	authedHandler := auth.Middleware(h.store, h.tokens, h.tokenCacheTTL)(apiHandler)

	// 应用 CORS 中间件
	return corsMiddleware(authedHandler)
}

// corsMiddleware 添加 CORS 头支持跨域请求
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
