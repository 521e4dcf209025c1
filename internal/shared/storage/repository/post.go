package repository

import (
	"context"
	"database/sql"
	"time"

	"community-admin/internal/shared/model"
)

// CreatePost 创建帖子
func (r *Store) CreatePost(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx, r.rebind(
		`INSERT INTO posts (id, content, author_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`),
		post.ID, post.Content, post.AuthorID, post.CreatedAt, post.UpdatedAt,
	)
	return r.mapWriteError(err)
}

// GetPost 通过 ID 查找帖子
func (r *Store) GetPost(ctx context.Context, id string) (*model.Post, error) {
	post := &model.Post{}
	err := r.db.QueryRowContext(ctx, r.rebind(
		`SELECT id, content, author_id, created_at, updated_at
		 FROM posts WHERE id = $1`), id,
	).Scan(&post.ID, &post.Content, &post.AuthorID, &post.CreatedAt, &post.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts 列出所有帖子（最新的在前）
func (r *Store) ListPosts(ctx context.Context) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, content, author_id, created_at, updated_at
		 FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		p := &model.Post{}
		if err := rows.Scan(&p.ID, &p.Content, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpdatePost 更新帖子内容
func (r *Store) UpdatePost(ctx context.Context, id, content string) error {
	_, err := r.db.ExecContext(ctx, r.rebind(
		`UPDATE posts SET content = $1, updated_at = $2 WHERE id = $3`),
		content, time.Now(), id,
	)
	return err
}

// DeletePost 删除帖子（评论由外键级联删除）
func (r *Store) DeletePost(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM posts WHERE id = $1`), id)
	return err
}
