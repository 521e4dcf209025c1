package repository

import (
	"context"
	"database/sql"

	"community-admin/internal/shared/model"
)

// CreateTask 创建任务
func (r *Store) CreateTask(ctx context.Context, task *model.Task) error {
	// metadata 为可空 JSON，空值以 NULL 存储
	var metadata interface{}
	if len(task.Metadata) > 0 {
		metadata = string(task.Metadata)
	}
	_, err := r.db.ExecContext(ctx, r.rebind(
		`INSERT INTO tasks (id, title, description, assigned_to, task_type, metadata, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`),
		task.ID, task.Title, task.Description, task.AssignedTo, task.Type,
		metadata, task.CreatedAt, task.UpdatedAt,
	)
	return r.mapWriteError(err)
}

// GetTask 通过 ID 查找任务
func (r *Store) GetTask(ctx context.Context, id string) (*model.Task, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(
		`SELECT id, title, description, assigned_to, task_type, metadata, created_at, updated_at
		 FROM tasks WHERE id = $1`), id)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasksByAssignee 列出指派给指定用户的任务（最新的在前）
func (r *Store) ListTasksByAssignee(ctx context.Context, userID string) ([]*model.Task, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(
		`SELECT id, title, description, assigned_to, task_type, metadata, created_at, updated_at
		 FROM tasks WHERE assigned_to = $1 ORDER BY created_at DESC`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// DeleteTask 删除任务
func (r *Store) DeleteTask(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM tasks WHERE id = $1`), id)
	return err
}

// scanner 兼容 *sql.Row 和 *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanTask 扫描单行任务，处理可空 metadata
func scanTask(s scanner) (*model.Task, error) {
	task := &model.Task{}
	var metadata sql.NullString
	err := s.Scan(&task.ID, &task.Title, &task.Description, &task.AssignedTo,
		&task.Type, &metadata, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if metadata.Valid {
		task.Metadata = []byte(metadata.String)
	}
	return task, nil
}
