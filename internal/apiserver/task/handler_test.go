package task

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

func seedUser(t *testing.T, store storage.PersistentStore, username string) *model.User {
	t.Helper()
	now := time.Now()
	user := &model.User{
		ID:        "user-" + username,
		Username:  username,
		Email:     username + "@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.CreateUser(context.Background(), user, model.RoleRegular))
	user.Groups = []model.Role{model.RoleRegular}
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

func TestCreateTask(t *testing.T) {
	store, handler := newTestHandler(t)
	alice := seedUser(t, store, "alice")

	rec := do(t, handler, alice, "POST", "/tasks/", map[string]interface{}{
		"title":       "write report",
		"description": "quarterly numbers",
		"task_type":   "priority",
		"metadata":    map[string]interface{}{"due": "2026-09-01"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Task created successfully!", body["message"])
	taskID := body["task_id"].(string)
	require.NotEmpty(t, taskID)

	task, err := store.GetTask(context.Background(), taskID)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, model.TaskTypePriority, task.Type)
	// 省略 assigned_to 时默认指派给请求者
	assert.Equal(t, alice.ID, task.AssignedTo)
	assert.JSONEq(t, `{"due":"2026-09-01"}`, string(task.Metadata))
}

func TestCreateTaskDefaults(t *testing.T) {
	store, handler := newTestHandler(t)
	alice := seedUser(t, store, "alice")

	rec := do(t, handler, alice, "POST", "/tasks/", map[string]string{"title": "minimal"})
	require.Equal(t, http.StatusCreated, rec.Code)

	task, err := store.GetTask(context.Background(), decodeBody(t, rec)["task_id"].(string))
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, model.TaskTypeRegular, task.Type)
	assert.Nil(t, task.Metadata)
}

func TestCreateTaskValidation(t *testing.T) {
	store, handler := newTestHandler(t)
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")

	// 匿名请求
	rec := do(t, handler, nil, "POST", "/tasks/", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// 标题必填
	rec = do(t, handler, alice, "POST", "/tasks/", map[string]string{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title is required", decodeBody(t, rec)["error"])

	// 非法任务类型
	rec = do(t, handler, alice, "POST", "/tasks/", map[string]string{
		"title": "x", "task_type": "urgent",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid task type: urgent", decodeBody(t, rec)["error"])

	// 指派给不存在的用户
	rec = do(t, handler, alice, "POST", "/tasks/", map[string]string{
		"title": "x", "assigned_to": "user-missing",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Assigned user not found", decodeBody(t, rec)["error"])

	// 指派给存在的其他用户
	rec = do(t, handler, alice, "POST", "/tasks/", map[string]string{
		"title": "for bob", "assigned_to": bob.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	task, err := store.GetTask(context.Background(), decodeBody(t, rec)["task_id"].(string))
	require.NoError(t, err)
	assert.Equal(t, bob.ID, task.AssignedTo)
}

func TestListTasksScopedToAssignee(t *testing.T) {
	store, handler := newTestHandler(t)
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")

	rec := do(t, handler, alice, "POST", "/tasks/", map[string]string{"title": "mine"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, handler, alice, "POST", "/tasks/", map[string]string{
		"title": "for bob", "assigned_to": bob.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// 列表只包含指派给请求者的任务
	rec = do(t, handler, alice, "GET", "/tasks/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "mine", out.Tasks[0].Title)

	rec = do(t, handler, bob, "GET", "/tasks/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out = listResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "for bob", out.Tasks[0].Title)

	// 匿名请求
	rec = do(t, handler, nil, "GET", "/tasks/", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
