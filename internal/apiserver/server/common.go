// Package server 路由配置与核心基础设施
//
// 本包实现社区后台的 RESTful API 组装，包括：
//   - 各领域路由注册（auth / user / post / comment / task）
//   - 认证、指标、CORS 中间件编排
//   - Prometheus 指标导出
//   - 启动期种子数据（角色组、管理员用户）
//
// 文件组织：
//   - common.go: 通用工具函数和 Handler 定义
//   - handler.go: 路由组装
//   - metrics.go: Prometheus 指标
//   - seed.go: 种子数据
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"community-admin/internal/shared/cache"
	"community-admin/internal/shared/storage"
)

// Handler API 处理器
//
// Handler 是所有 HTTP API 的入口，负责：
//   - 路由请求到各领域处理器
//   - 管理存储层和令牌缓存
//   - 持有 Prometheus 指标实例
type Handler struct {
	store  storage.PersistentStore // 持久化业务数据
	tokens cache.TokenCache        // 令牌读穿缓存（可为 NoOpCache）

	tokenCacheTTL time.Duration // 令牌缓存有效期
	metrics       *Metrics      // Prometheus 指标
}

// NewHandler 创建 Handler 实例
func NewHandler(store storage.PersistentStore, tokens cache.TokenCache, tokenCacheTTL time.Duration) *Handler {
	if tokens == nil {
		tokens = cache.NewNoOpCache()
	}
	if tokenCacheTTL <= 0 {
		tokenCacheTTL = cache.TTLAuthToken
	}
	return &Handler{
		store:         store,
		tokens:        tokens,
		tokenCacheTTL: tokenCacheTTL,
		metrics:       NewMetrics("community"),
	}
}

// GetMetrics 返回指标实例
func (h *Handler) GetMetrics() *Metrics {
	return h.metrics
}

// writeJSON 将数据以 JSON 格式写入 HTTP 响应
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Health 健康检查接口
//
// 路由: GET /health
//
// 用于负载均衡器和监控系统检查服务状态。
// 返回 {"status": "ok"} 表示服务正常运行。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
