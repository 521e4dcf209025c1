package repository

import (
	"context"
	"database/sql"
	"errors"

	"community-admin/internal/shared/model"
)

// EnsureGroup 幂等创建角色组
// 组已存在时返回 (false, nil)，与种子命令的 get-or-create 语义一致。
func (r *Store) EnsureGroup(ctx context.Context, role model.Role) (bool, error) {
	var name string
	err := r.db.QueryRowContext(ctx, r.rebind(
		`SELECT name FROM groups WHERE name = $1`), role,
	).Scan(&name)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	_, err = r.db.ExecContext(ctx, r.rebind(
		`INSERT INTO groups (name) VALUES ($1)`), role)
	if err != nil {
		// 并发创建时把唯一冲突当作已存在
		if r.dialect.IsUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AssignRole 独占式角色分配：先清空用户的全部组，再加入目标组
func (r *Store) AssignRole(ctx context.Context, userID string, role model.Role) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.rebind(
		`DELETE FROM user_groups WHERE user_id = $1`), userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, r.rebind(
		`INSERT INTO user_groups (user_id, group_name) VALUES ($1, $2)`),
		userID, role); err != nil {
		return r.mapWriteError(err)
	}

	return tx.Commit()
}

// ListUserRoles 列出用户所属的角色组
func (r *Store) ListUserRoles(ctx context.Context, userID string) ([]model.Role, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(
		`SELECT group_name FROM user_groups WHERE user_id = $1 ORDER BY group_name`),
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
