// Package post 帖子领域 - HTTP 处理
package post

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"community-admin/internal/apiserver/auth"
	"community-admin/internal/shared/authz"
	"community-admin/internal/shared/model"
	"community-admin/internal/shared/storage"
)

// Store 帖子领域所需的存储接口
type Store interface {
	storage.PostStore
	storage.CommentStore
}

// Handler 帖子领域 HTTP 处理器
type Handler struct {
	store Store
}

// NewHandler 创建帖子处理器
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册帖子相关路由
// 列表/创建挂在根路径上，与既有客户端保持兼容
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.List)
	mux.HandleFunc("POST /{$}", h.Create)
	mux.HandleFunc("GET /posts/{id}/{$}", h.Get)
	mux.HandleFunc("PUT /posts/{id}/{$}", h.Update)
	mux.HandleFunc("DELETE /posts/{id}/{$}", h.Delete)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type createRequest struct {
	Content string `json:"content"`
}

type updateRequest struct {
	Content string `json:"content"`
}

// detailResponse 帖子详情，附带评论
type detailResponse struct {
	*model.Post
	Comments []*model.Comment `json:"comments"`
}

// ============================================================================
// Handlers
// ============================================================================

// List 列出全部帖子（最新的在前）
// GET /
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPosts(r.Context())
	if err != nil {
		log.Printf("[post.list] ListPosts error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// Create 创建帖子
// POST /
// author 永远取自认证用户，客户端提交的 author 字段不被信任
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
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "Content cannot be empty")
		return
	}

	now := time.Now()
	post := &model.Post{
		ID:        generateID("post"),
		Content:   req.Content,
		AuthorID:  actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.CreatePost(r.Context(), post); err != nil {
		log.Printf("[post.create] CreatePost error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	log.Printf("[post] Post created: %s (by %s)", post.ID, actor.Username)
	writeJSON(w, http.StatusCreated, post)
}

// Get 帖子详情（附带评论）
// GET /posts/{id}/
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	post := h.getPost(w, r)
	if post == nil {
		return
	}

	comments, err := h.store.ListCommentsByPost(r.Context(), post.ID)
	if err != nil {
		log.Printf("[post.get] ListCommentsByPost error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if comments == nil {
		comments = []*model.Comment{}
	}

	writeJSON(w, http.StatusOK, detailResponse{Post: post, Comments: comments})
}

// Update 更新帖子内容（归属者或 Moderator/Admin）
// PUT /posts/{id}/
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetAuthUser(r.Context())

	// 存在性检查先于授权判定
	post := h.getPost(w, r)
	if post == nil {
		return
	}

	if authz.Authorize(actor, authz.ActionChange, post) == authz.Deny {
		writeError(w, http.StatusForbidden, "You do not have permission to perform this action")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "Content cannot be empty")
		return
	}

	if err := h.store.UpdatePost(r.Context(), post.ID, req.Content); err != nil {
		log.Printf("[post.update] UpdatePost error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	post.Content = req.Content
	post.UpdatedAt = time.Now()
	writeJSON(w, http.StatusOK, post)
}

// Delete 删除帖子（归属者或 Moderator/Admin）
// DELETE /posts/{id}/
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetAuthUser(r.Context())

	post := h.getPost(w, r)
	if post == nil {
		return
	}

	if authz.Authorize(actor, authz.ActionDelete, post) == authz.Deny {
		writeError(w, http.StatusForbidden, "You do not have permission to perform this action")
		return
	}

	if err := h.store.DeletePost(r.Context(), post.ID); err != nil {
		log.Printf("[post.delete] DeletePost error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Printf("[post] Post deleted: %s (by %s)", post.ID, actor.Username)
	w.WriteHeader(http.StatusNoContent)
}

// getPost 读取路径参数指向的帖子，不存在时写入 404 并返回 nil
func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) *model.Post {
	id := r.PathValue("id")
	post, err := h.store.GetPost(r.Context(), id)
	if err != nil {
		log.Printf("[post] GetPost error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return nil
	}
	return post
}
