package repository

import (
	"context"
	"database/sql"

	"community-admin/internal/shared/model"
)

// CreateComment 创建评论
// post 引用的存在性由调用方先行校验，外键兜底。
func (r *Store) CreateComment(ctx context.Context, comment *model.Comment) error {
	_, err := r.db.ExecContext(ctx, r.rebind(
		`INSERT INTO comments (id, content, author_id, post_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`),
		comment.ID, comment.Content, comment.AuthorID, comment.PostID,
		comment.CreatedAt, comment.UpdatedAt,
	)
	return r.mapWriteError(err)
}

// GetComment 通过 ID 查找评论
func (r *Store) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	c := &model.Comment{}
	err := r.db.QueryRowContext(ctx, r.rebind(
		`SELECT id, content, author_id, post_id, created_at, updated_at
		 FROM comments WHERE id = $1`), id,
	).Scan(&c.ID, &c.Content, &c.AuthorID, &c.PostID, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments 列出所有评论（最新的在前）
func (r *Store) ListComments(ctx context.Context) ([]*model.Comment, error) {
	return r.listComments(ctx,
		`SELECT id, content, author_id, post_id, created_at, updated_at
		 FROM comments ORDER BY created_at DESC`)
}

// ListCommentsByPost 列出指定帖子的评论
func (r *Store) ListCommentsByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	return r.listComments(ctx, r.rebind(
		`SELECT id, content, author_id, post_id, created_at, updated_at
		 FROM comments WHERE post_id = $1 ORDER BY created_at DESC`), postID)
}

func (r *Store) listComments(ctx context.Context, query string, args ...interface{}) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		c := &model.Comment{}
		if err := rows.Scan(&c.ID, &c.Content, &c.AuthorID, &c.PostID,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment 删除评论
func (r *Store) DeleteComment(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM comments WHERE id = $1`), id)
	return err
}
