package repository

import (
	"context"
	"database/sql"
	"time"

	"community-admin/internal/shared/model"
)

// CreateUser 创建用户并在同一事务中加入初始角色组
func (r *Store) CreateUser(ctx context.Context, user *model.User, role model.Role) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, r.rebind(
		`INSERT INTO users (id, username, email, password_hash, is_staff, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`),
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.IsStaff, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return r.mapWriteError(err)
	}

	if role != "" {
		_, err = tx.ExecContext(ctx, r.rebind(
			`INSERT INTO user_groups (user_id, group_name) VALUES ($1, $2)`),
			user.ID, role,
		)
		if err != nil {
			return r.mapWriteError(err)
		}
		user.Groups = []model.Role{role}
	}

	return tx.Commit()
}

// GetUserByID 通过 ID 查找用户（含角色组）
func (r *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, `WHERE id = $1`, id)
}

// GetUserByUsername 通过用户名查找用户（含角色组）
func (r *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getUser(ctx, `WHERE username = $1`, username)
}

// GetUserByEmail 通过邮箱查找用户（含角色组）
func (r *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, `WHERE email = $1`, email)
}

func (r *Store) getUser(ctx context.Context, where string, arg interface{}) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, r.rebind(
		`SELECT id, username, email, password_hash, is_staff, created_at, updated_at
		 FROM users `+where), arg,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.IsStaff, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	roles, err := r.ListUserRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Groups = roles
	return user, nil
}

// ListUsers 列出所有用户（含角色组）
func (r *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, email, password_hash, is_staff, created_at, updated_at
		 FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	byID := make(map[string]*model.User)
	for rows.Next() {
		u := &model.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
			&u.IsStaff, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
		byID[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 一次查询挂载全部角色组，避免逐用户查询
	groupRows, err := r.db.QueryContext(ctx,
		`SELECT user_id, group_name FROM user_groups ORDER BY group_name`)
	if err != nil {
		return nil, err
	}
	defer groupRows.Close()
	for groupRows.Next() {
		var userID string
		var role model.Role
		if err := groupRows.Scan(&userID, &role); err != nil {
			return nil, err
		}
		if u, ok := byID[userID]; ok {
			u.Groups = append(u.Groups, role)
		}
	}
	return users, groupRows.Err()
}

// UpdateUserEmail 更新用户邮箱
func (r *Store) UpdateUserEmail(ctx context.Context, id, email string) error {
	_, err := r.db.ExecContext(ctx, r.rebind(
		`UPDATE users SET email = $1, updated_at = $2 WHERE id = $3`),
		email, time.Now(), id,
	)
	return r.mapWriteError(err)
}

// UpdateUserStaffStatus 更新用户 staff 标记
func (r *Store) UpdateUserStaffStatus(ctx context.Context, id string, isStaff bool) error {
	_, err := r.db.ExecContext(ctx, r.rebind(
		`UPDATE users SET is_staff = $1, updated_at = $2 WHERE id = $3`),
		isStaff, time.Now(), id,
	)
	return err
}

// DeleteUser 删除用户
// 帖子、评论、任务和令牌由外键级联删除。
func (r *Store) DeleteUser(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM users WHERE id = $1`), id)
	return err
}
