package server

import (
	"context"
	"testing"
	"time"

	"community-admin/internal/shared/cache"
	"community-admin/internal/shared/model"
	"community-admin/internal/shared/storage"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshObjectMetrics(t *testing.T) {
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := &Handler{
		store:         store,
		tokens:        cache.NewNoOpCache(),
		tokenCacheTTL: time.Minute,
		metrics:       testMetrics,
	}

	now := time.Now()
	user := &model.User{
		ID: "user-alice", Username: "alice", Email: "a@x.com",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.CreateUser(context.Background(), user, model.RoleRegular))
	require.NoError(t, store.CreatePost(context.Background(), &model.Post{
		ID: "post-1", Content: "hello", AuthorID: user.ID,
		CreatedAt: now, UpdatedAt: now,
	}))

	h.refreshObjectMetrics(context.Background())

	assert.Equal(t, float64(1), testutil.ToFloat64(testMetrics.UsersTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(testMetrics.PostsTotal))
}

func TestStartMetricsUpdaterStopsOnCancel(t *testing.T) {
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := &Handler{
		store:         store,
		tokens:        cache.NewNoOpCache(),
		tokenCacheTTL: time.Minute,
		metrics:       testMetrics,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.StartMetricsUpdater(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("metrics updater did not stop after context cancel")
	}
}
