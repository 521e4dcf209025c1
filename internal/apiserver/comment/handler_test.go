package comment

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

func seedFixtures(t *testing.T, store storage.PersistentStore) (*model.User, *model.Post) {
	t.Helper()
	now := time.Now()
	user := &model.User{
		ID: "user-alice", Username: "alice", Email: "a@x.com",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.CreateUser(context.Background(), user, model.RoleRegular))

	post := &model.Post{
		ID: "post-1", Content: "hello", AuthorID: user.ID,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.CreatePost(context.Background(), post))
	return user, post
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

func errMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out["error"]
}

func TestListComments(t *testing.T) {
	store, handler := newTestHandler(t)

	// 空库返回空数组而非 null
	rec := do(t, handler, nil, "GET", "/comments/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	user, post := seedFixtures(t, store)
	now := time.Now()
	require.NoError(t, store.CreateComment(context.Background(), &model.Comment{
		ID: "comment-1", Content: "nice", AuthorID: user.ID, PostID: post.ID,
		CreatedAt: now, UpdatedAt: now,
	}))

	rec = do(t, handler, nil, "GET", "/comments/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []*model.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	assert.Len(t, comments, 1)
}

func TestCreateComment(t *testing.T) {
	store, handler := newTestHandler(t)
	user, post := seedFixtures(t, store)

	rec := do(t, handler, user, "POST", "/comments/", map[string]string{
		"content": "great post", "post_id": post.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var comment model.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comment))
	assert.Equal(t, "great post", comment.Content)
	assert.Equal(t, post.ID, comment.PostID)
	// author 取自认证用户
	assert.Equal(t, user.ID, comment.AuthorID)
}

func TestCreateCommentValidation(t *testing.T) {
	store, handler := newTestHandler(t)
	user, post := seedFixtures(t, store)

	// 匿名请求
	rec := do(t, handler, nil, "POST", "/comments/", map[string]string{
		"content": "hi", "post_id": post.ID,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// 空内容
	rec = do(t, handler, user, "POST", "/comments/", map[string]string{
		"content": "   ", "post_id": post.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Content cannot be empty", errMessage(t, rec))

	// 缺少 post_id
	rec = do(t, handler, user, "POST", "/comments/", map[string]string{"content": "hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "post_id is required", errMessage(t, rec))

	// 悬空的 post 引用按校验错误处理（400 而非 404）
	rec = do(t, handler, user, "POST", "/comments/", map[string]string{
		"content": "hi", "post_id": "post-missing",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Post not found.", errMessage(t, rec))

	// 引用校验失败时不落库
	comments, err := store.ListComments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, comments)
}
