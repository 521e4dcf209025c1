// Package user 用户管理领域 - HTTP 处理
//
// 列表/更新/删除端点按对外行为开放访问，
// 角色分配和 staff 管理仅限 staff 用户。
package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"community-admin/internal/apiserver/auth"
	"community-admin/internal/shared/authz"
	"community-admin/internal/shared/model"
	"community-admin/internal/shared/storage"
)

// Store 用户管理所需的存储接口
type Store interface {
	storage.UserStore
	storage.GroupStore
}

// Handler 用户管理 HTTP 处理器
type Handler struct {
	store Store
}

// NewHandler 创建用户管理处理器
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册用户管理相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /users/{$}", h.List)
	mux.HandleFunc("PUT /users/update/{id}/{$}", h.Update)
	mux.HandleFunc("DELETE /users/delete/{id}/{$}", h.Delete)
	mux.HandleFunc("POST /users/assign-role/{$}", h.AssignRole)
	mux.HandleFunc("POST /users/update-staff-status/{$}", h.UpdateStaffStatus)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type listItem struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type updateRequest struct {
	Email string `json:"email"`
}

type assignRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type staffStatusRequest struct {
	UserID  string `json:"user_id"`
	IsStaff *bool  `json:"is_staff"`
}

// ============================================================================
// Handlers
// ============================================================================

// List 列出全部用户
// GET /users/
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		log.Printf("[user.list] ListUsers error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]listItem, 0, len(users))
	for _, u := range users {
		items = append(items, listItem{ID: u.ID, Username: u.Username, Email: u.Email})
	}
	writeJSON(w, http.StatusOK, items)
}

// Update 更新用户邮箱
// PUT /users/update/{id}/
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// 存在性检查先于输入校验
	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		log.Printf("[user.update] GetUserByID error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if !isValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Enter a valid email address")
		return
	}

	if err := h.store.UpdateUserEmail(r.Context(), id, req.Email); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Email already exists")
			return
		}
		log.Printf("[user.update] UpdateUserEmail error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":       user.ID,
		"username": user.Username,
		"email":    req.Email,
		"message":  "User updated successfully",
	})
}

// Delete 删除用户（级联删除其帖子、评论、任务和令牌）
// DELETE /users/delete/{id}/
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		log.Printf("[user.delete] GetUserByID error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		log.Printf("[user.delete] DeleteUser error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Printf("[user] User deleted: %s (%s)", user.Username, user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// AssignRole 独占式角色分配（staff 专属）
// POST /users/assign-role/
func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetAuthUser(r.Context())
	if !authz.CanManageUsers(actor) {
		writeError(w, http.StatusForbidden, "Admin access required")
		return
	}

	var req assignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if req.UserID == "" || req.Role == "" {
		writeError(w, http.StatusBadRequest, "user_id and role are required")
		return
	}

	// 角色校验先于分配，避免清空旧角色后才发现角色非法
	role := model.Role(req.Role)
	if !role.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), req.UserID)
	if err != nil {
		log.Printf("[user.assign-role] GetUserByID error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := h.store.AssignRole(r.Context(), req.UserID, role); err != nil {
		log.Printf("[user.assign-role] AssignRole error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Printf("[user] Role assigned: %s -> %s (by %s)", user.Username, role, actor.Username)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("User assigned to %s role successfully", role),
	})
}

// UpdateStaffStatus 更新 staff 标记（staff 专属）
// POST /users/update-staff-status/
func (h *Handler) UpdateStaffStatus(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetAuthUser(r.Context())
	if !authz.CanManageUsers(actor) {
		writeError(w, http.StatusForbidden, "Admin access required")
		return
	}

	var req staffStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	// 未指定时默认授予 staff
	isStaff := true
	if req.IsStaff != nil {
		isStaff = *req.IsStaff
	}

	user, err := h.store.GetUserByID(r.Context(), req.UserID)
	if err != nil {
		log.Printf("[user.staff-status] GetUserByID error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := h.store.UpdateUserStaffStatus(r.Context(), req.UserID, isStaff); err != nil {
		log.Printf("[user.staff-status] UpdateUserStaffStatus error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Printf("[user] Staff status updated: %s -> %v (by %s)", user.Username, isStaff, actor.Username)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  fmt.Sprintf("Staff status updated for user %s", user.Username),
		"is_staff": isStaff,
	})
}
