// Package main API Server 入口
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"community-admin/internal/apiserver/auth"
	"community-admin/internal/apiserver/server"
	"community-admin/internal/config"
	"community-admin/internal/shared/cache"
	cacheredis "community-admin/internal/shared/cache/redis"
	"community-admin/internal/shared/storage"
	"community-admin/internal/shared/storage/dbutil"
)

func main() {
	// 加载配置（自动加载 .env，根据 APP_ENV 切换数据库和 Redis）
	cfg := config.Load()

	log.Printf("Starting API Server... [env=%s]", cfg.Env)
	log.Printf("Config: %s", cfg.String())

	// 初始化持久化存储
	store, err := storage.NewPersistentStore(dbutil.DriverType(cfg.DatabaseDriver), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()
	log.Printf("Connected to database [driver=%s]", cfg.DatabaseDriver)

	// 初始化令牌缓存（未配置 Redis 时退化为空实现）
	var tokens cache.TokenCache = cache.NewNoOpCache()
	if cfg.RedisURL != "" {
		redisCache, err := cacheredis.NewStoreFromURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		tokens = redisCache
	}

	// 种子数据：内置角色组 + 管理员用户
	if err := server.EnsureDefaultGroups(store); err != nil {
		log.Fatalf("Failed to seed groups: %v", err)
	}
	if err := auth.EnsureAdminUser(store, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to ensure admin user: %v", err)
	}

	// 初始化 Handler
	h := server.NewHandler(store, tokens, cfg.TokenCacheTTL)

	// 启动业务指标刷新
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.StartMetricsUpdater(ctx, 30*time.Second)

	srv := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 优雅关闭
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("API Server listening on :%s", cfg.APIPort)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server stopped")
}
