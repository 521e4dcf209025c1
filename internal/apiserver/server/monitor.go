package server

import (
	"context"
	"log"
	"time"
)

// StartMetricsUpdater 周期性刷新业务对象指标（阻塞，通常在 goroutine 中调用）
//
// 每个刷新周期统计用户数和帖子数并写入对应 Gauge，
// ctx 取消后退出。
func (h *Handler) StartMetricsUpdater(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.refreshObjectMetrics(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.refreshObjectMetrics(ctx)
		}
	}
}

func (h *Handler) refreshObjectMetrics(ctx context.Context) {
	users, err := h.store.ListUsers(ctx)
	if err != nil {
		log.Printf("[metrics] ListUsers error: %v", err)
	} else {
		h.metrics.SetUsersCount(len(users))
	}

	posts, err := h.store.ListPosts(ctx)
	if err != nil {
		log.Printf("[metrics] ListPosts error: %v", err)
	} else {
		h.metrics.SetPostsCount(len(posts))
	}
}
