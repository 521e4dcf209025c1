package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"community-admin/internal/shared/cache"
	"community-admin/internal/shared/model"
	"community-admin/internal/shared/storage"
)

// Store 认证所需的存储接口
type Store interface {
	CreateUser(ctx context.Context, user *model.User, role model.Role) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserStaffStatus(ctx context.Context, id string, isStaff bool) error
	AssignRole(ctx context.Context, userID string, role model.Role) error
	GetOrCreateToken(ctx context.Context, userID, key string) (*model.AuthToken, error)
	GetToken(ctx context.Context, key string) (*model.AuthToken, error)
	DeleteToken(ctx context.Context, key string) error
}

// Handler 认证 HTTP 处理器
type Handler struct {
	store  Store
	tokens cache.TokenCache
}

// NewHandler 创建认证处理器
func NewHandler(store Store, tokens cache.TokenCache) *Handler {
	return &Handler{store: store, tokens: tokens}
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /users/create/{$}", h.Register)
	mux.HandleFunc("POST /users/login/{$}", h.Login)
	mux.HandleFunc("POST /users/logout/{$}", h.Logout)
	mux.HandleFunc("GET /users/profile/{$}", h.Profile)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

type loginResponse struct {
	Token    string       `json:"token"`
	UserID   string       `json:"user_id"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	IsStaff  bool         `json:"is_staff"`
	Groups   []model.Role `json:"groups"`
}

// ============================================================================
// Handlers
// ============================================================================

// Register 用户注册
// POST /users/create/
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}
	if len(req.Username) < 3 {
		writeError(w, http.StatusBadRequest, "Username must be at least 3 characters long")
		return
	}
	if !isValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Enter a valid email address")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters long")
		return
	}

	// 唯一性预检查，并发冲突由插入时的唯一约束兜底
	existing, err := h.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		log.Printf("[auth.register] GetUserByUsername error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "Username already exists")
		return
	}
	existing, err = h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("[auth.register] GetUserByEmail error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "Email already exists")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		log.Printf("[auth.register] HashPassword error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	now := time.Now()
	user := &model.User{
		ID:           generateID("user"),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 新用户默认加入 Regular 组
	if err := h.store.CreateUser(r.Context(), user, model.RoleRegular); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			// 与上面的预检查之间存在并发窗口，此处无法区分冲突的是哪一列
			writeError(w, http.StatusBadRequest, "Username or email already exists")
			return
		}
		log.Printf("[auth.register] CreateUser error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := h.issueToken(r.Context(), user.ID)
	if err != nil {
		log.Printf("[auth.register] issueToken error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Printf("[auth] User registered: %s (%s)", user.Username, user.ID)
	writeJSON(w, http.StatusCreated, registerResponse{
		Token:    token.Key,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Message:  "User created successfully",
	})
}

// Login 用户登录
// POST /users/login/
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		log.Printf("[auth.login] GetUserByUsername error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	// 统一返回无差别错误，不泄露用户名是否存在
	if user == nil || !CheckPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.issueToken(r.Context(), user.ID)
	if err != nil {
		log.Printf("[auth.login] issueToken error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	groups := user.Groups
	if groups == nil {
		groups = []model.Role{}
	}

	log.Printf("[auth] User logged in: %s", user.Username)
	writeJSON(w, http.StatusOK, loginResponse{
		Token:    token.Key,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsStaff:  user.IsStaff,
		Groups:   groups,
	})
}

// Logout 登出：删除当前令牌并使缓存失效
// POST /users/logout/
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	actor := GetAuthUser(r.Context())
	key := GetAuthToken(r.Context())
	if actor == nil || key == "" {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.store.DeleteToken(r.Context(), key); err != nil {
		log.Printf("[auth.logout] DeleteToken error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if h.tokens != nil {
		if err := h.tokens.DeleteToken(r.Context(), key); err != nil {
			log.Printf("[auth.logout] cache invalidate error: %v", err)
		}
	}

	log.Printf("[auth] User logged out: %s", actor.Username)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

// Profile 获取当前用户信息
// GET /users/profile/
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	actor := GetAuthUser(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if actor.Groups == nil {
		actor.Groups = []model.Role{}
	}
	writeJSON(w, http.StatusOK, actor)
}

// issueToken 签发或复用用户令牌
func (h *Handler) issueToken(ctx context.Context, userID string) (*model.AuthToken, error) {
	key, err := GenerateTokenKey()
	if err != nil {
		return nil, err
	}
	return h.store.GetOrCreateToken(ctx, userID, key)
}

// ============================================================================
// Admin Bootstrap
// ============================================================================

// EnsureAdminUser 确保管理员用户存在（启动时调用）
// 如果配置了 username/password 且数据库中不存在该用户，则自动创建
func EnsureAdminUser(store Store, username, email, password string) error {
	if username == "" || password == "" {
		return nil
	}

	ctx := context.Background()
	existing, err := store.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if existing != nil {
		// 已存在，确保 staff 标记和 Admin 组
		if !existing.IsStaff {
			log.Printf("[auth] Upgrading user %s to staff", username)
			if err := store.UpdateUserStaffStatus(ctx, existing.ID, true); err != nil {
				return fmt.Errorf("upgrade admin user: %w", err)
			}
		}
		if !existing.HasRole(model.RoleAdmin) {
			if err := store.AssignRole(ctx, existing.ID, model.RoleAdmin); err != nil {
				return fmt.Errorf("assign admin role: %w", err)
			}
		}
		log.Printf("[auth] Admin user already exists: %s (%s)", username, existing.ID)
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           generateID("user"),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsStaff:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateUser(ctx, user, model.RoleAdmin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Printf("[auth] Created admin user: %s (%s)", username, user.ID)
	return nil
}

// ============================================================================
// 工具函数
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// generateID 生成带前缀的随机 ID
// 格式：prefix-xxxxxxxxxxxx（prefix + 12 字符 hex）
func generateID(prefix string) string {
	b := make([]byte, 6)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}
