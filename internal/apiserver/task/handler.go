// Package task 任务领域 - HTTP 处理
package task

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

// Store 任务领域所需的存储接口
type Store interface {
	storage.TaskStore
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// Handler 任务领域 HTTP 处理器
type Handler struct {
	store Store
}

// NewHandler 创建任务处理器
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册任务相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /tasks/{$}", h.List)
	mux.HandleFunc("POST /tasks/{$}", h.Create)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type createRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	AssignedTo  string          `json:"assigned_to"`
	TaskType    string          `json:"task_type"`
	Metadata    json.RawMessage `json:"metadata"`
}

type listResponse struct {
	Tasks []taskItem `json:"tasks"`
}

type taskItem struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	TaskType    model.TaskType  `json:"task_type"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ============================================================================
// Handlers
// ============================================================================

// Create 创建任务
// POST /tasks/
// assigned_to 省略时默认指派给请求者本人
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetAuthUser(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	log.Printf("[task] Received task creation request from %s", actor.Username)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	taskType := model.TaskTypeRegular
	if req.TaskType != "" {
		taskType = model.TaskType(req.TaskType)
		if !taskType.Valid() {
			writeError(w, http.StatusBadRequest, "Invalid task type: "+req.TaskType)
			return
		}
	}

	// 指派目标必须是存在的用户
	assignedTo := req.AssignedTo
	if assignedTo == "" {
		assignedTo = actor.ID
	} else {
		assignee, err := h.store.GetUserByID(r.Context(), assignedTo)
		if err != nil {
			log.Printf("[task.create] GetUserByID error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if assignee == nil {
			writeError(w, http.StatusNotFound, "Assigned user not found")
			return
		}
	}

	now := time.Now()
	task := &model.Task{
		ID:          generateID("task"),
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  assignedTo,
		Type:        taskType,
		Metadata:    req.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.CreateTask(r.Context(), task); err != nil {
		log.Printf("[task.create] CreateTask error: %v", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	log.Printf("[task] Task created successfully with ID: %s", task.ID)
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Task created successfully!",
		"task_id": task.ID,
	})
}

// List 列出指派给请求者的任务
// GET /tasks/
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetAuthUser(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	tasks, err := h.store.ListTasksByAssignee(r.Context(), actor.ID)
	if err != nil {
		log.Printf("[task.list] ListTasksByAssignee error: %v", err)
		writeError(w, http.StatusInternalServerError, "Error retrieving tasks")
		return
	}

	items := make([]taskItem, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskItem{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			TaskType:    t.Type,
			Metadata:    t.Metadata,
			CreatedAt:   t.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, listResponse{Tasks: items})
}
