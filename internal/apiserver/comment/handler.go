// Package comment 评论领域 - HTTP 处理
package comment

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"community-admin/internal/apiserver/auth"
	"community-admin/internal/shared/model"
	"community-admin/internal/shared/storage"
)

// Store 评论领域所需的存储接口
type Store interface {
	storage.CommentStore
	GetPost(ctx context.Context, id string) (*model.Post, error)
}

// Handler 评论领域 HTTP 处理器
type Handler struct {
	store Store
}

// NewHandler 创建评论处理器
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册评论相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /comments/{$}", h.List)
	mux.HandleFunc("POST /comments/{$}", h.Create)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type createRequest struct {
	Content string `json:"content"`
	PostID  string `json:"post_id"`
}

// ============================================================================
// Handlers
// ============================================================================

// List 列出全部评论（最新的在前）
// GET /comments/
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	comments, err := h.store.ListComments(r.Context())
	if err != nil {
		log.Printf("[comment.list] ListComments error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if comments == nil {
		comments = []*model.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// Create 创建评论
// POST /comments/
// author 永远取自认证用户；post 引用必须指向已存在的帖子
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetAuthUser(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "Content cannot be empty")
		return
	}
	if req.PostID == "" {
		writeError(w, http.StatusBadRequest, "post_id is required")
		return
	}

	// 引用校验：悬空的 post 引用按校验错误处理
	post, err := h.store.GetPost(r.Context(), req.PostID)
	if err != nil {
		log.Printf("[comment.create] GetPost error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if post == nil {
		writeError(w, http.StatusBadRequest, "Post not found.")
		return
	}

	now := time.Now()
	comment := &model.Comment{
		ID:        generateID("comment"),
		Content:   req.Content,
		AuthorID:  actor.ID,
		PostID:    req.PostID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.CreateComment(r.Context(), comment); err != nil {
		log.Printf("[comment.create] CreateComment error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}

	log.Printf("[comment] Comment created: %s on %s (by %s)", comment.ID, post.ID, actor.Username)
	writeJSON(w, http.StatusCreated, comment)
}
