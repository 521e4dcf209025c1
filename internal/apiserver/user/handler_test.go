package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"community-admin/internal/apiserver/auth"
	"community-admin/internal/shared/model"
	"community-admin/internal/shared/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (storage.PersistentStore, http.Handler) {
	t.Helper()
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mux := http.NewServeMux()
	NewHandler(store).RegisterRoutes(mux)
	return store, mux
}

func seedUser(t *testing.T, store storage.PersistentStore, username string, role model.Role, staff bool) *model.User {
	t.Helper()
	now := time.Now()
	user := &model.User{
		ID:        "user-" + username,
		Username:  username,
		Email:     username + "@example.com",
		IsStaff:   staff,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.CreateUser(context.Background(), user, role))
	user.Groups = []model.Role{role}
	return user
}

func do(t *testing.T, handler http.Handler, actor *model.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if actor != nil {
		req = req.WithContext(auth.WithAuthUser(req.Context(), actor))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListUsers(t *testing.T) {
	store, handler := newTestHandler(t)
	seedUser(t, store, "alice", model.RoleRegular, false)
	seedUser(t, store, "bob", model.RoleRegular, false)

	rec := do(t, handler, nil, "GET", "/users/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []listItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	// 列表只暴露 id/username/email
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "is_staff")
}

func TestUpdateUser(t *testing.T) {
	store, handler := newTestHandler(t)
	alice := seedUser(t, store, "alice", model.RoleRegular, false)
	seedUser(t, store, "bob", model.RoleRegular, false)

	rec := do(t, handler, nil, "PUT", "/users/update/"+alice.ID+"/", map[string]string{"email": "new@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User updated successfully", decodeBody(t, rec)["message"])

	got, err := store.GetUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)

	// 不存在的用户：404 先于输入校验
	rec = do(t, handler, nil, "PUT", "/users/update/user-missing/", map[string]string{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeBody(t, rec)["error"])

	// 邮箱校验
	rec = do(t, handler, nil, "PUT", "/users/update/"+alice.ID+"/", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email is required", decodeBody(t, rec)["error"])

	rec = do(t, handler, nil, "PUT", "/users/update/"+alice.ID+"/", map[string]string{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Enter a valid email address", decodeBody(t, rec)["error"])

	// 邮箱被其他用户占用
	rec = do(t, handler, nil, "PUT", "/users/update/"+alice.ID+"/", map[string]string{"email": "bob@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already exists", decodeBody(t, rec)["error"])
}

func TestDeleteUser(t *testing.T) {
	store, handler := newTestHandler(t)
	alice := seedUser(t, store, "alice", model.RoleRegular, false)

	rec := do(t, handler, nil, "DELETE", "/users/delete/"+alice.ID+"/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted successfully", decodeBody(t, rec)["message"])

	got, err := store.GetUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// 重复删除
	rec = do(t, handler, nil, "DELETE", "/users/delete/"+alice.ID+"/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssignRole(t *testing.T) {
	store, handler := newTestHandler(t)
	admin := seedUser(t, store, "root", model.RoleAdmin, true)
	alice := seedUser(t, store, "alice", model.RoleRegular, false)

	// 非 staff 被拒
	rec := do(t, handler, alice, "POST", "/users/assign-role/", map[string]string{
		"user_id": alice.ID, "role": "Moderator",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin access required", decodeBody(t, rec)["error"])

	// 非法角色在分配前就被拒，旧角色保持不变
	rec = do(t, handler, admin, "POST", "/users/assign-role/", map[string]string{
		"user_id": alice.ID, "role": "Superuser",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid role", decodeBody(t, rec)["error"])
	got, err := store.GetUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.Role{model.RoleRegular}, got.Groups)

	// 不存在的用户
	rec = do(t, handler, admin, "POST", "/users/assign-role/", map[string]string{
		"user_id": "user-missing", "role": "Moderator",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeBody(t, rec)["error"])

	// 独占式分配：新角色替换旧角色
	rec = do(t, handler, admin, "POST", "/users/assign-role/", map[string]string{
		"user_id": alice.ID, "role": "Moderator",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User assigned to Moderator role successfully", decodeBody(t, rec)["message"])
	got, err = store.GetUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.Role{model.RoleModerator}, got.Groups)
}

func TestUpdateStaffStatus(t *testing.T) {
	store, handler := newTestHandler(t)
	admin := seedUser(t, store, "root", model.RoleAdmin, true)
	alice := seedUser(t, store, "alice", model.RoleRegular, false)

	// 非 staff 被拒
	rec := do(t, handler, alice, "POST", "/users/update-staff-status/", map[string]interface{}{
		"user_id": alice.ID,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// 省略 is_staff 默认授予
	rec = do(t, handler, admin, "POST", "/users/update-staff-status/", map[string]interface{}{
		"user_id": alice.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Staff status updated for user alice", body["message"])
	assert.Equal(t, true, body["is_staff"])

	got, err := store.GetUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.True(t, got.IsStaff)

	// 显式撤销
	rec = do(t, handler, admin, "POST", "/users/update-staff-status/", map[string]interface{}{
		"user_id": alice.ID, "is_staff": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	got, err = store.GetUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.False(t, got.IsStaff)

	// 不存在的用户
	rec = do(t, handler, admin, "POST", "/users/update-staff-status/", map[string]interface{}{
		"user_id": "user-missing",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
