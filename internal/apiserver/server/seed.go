package server

import (
	"context"
	"fmt"
	"log"

	"community-admin/internal/shared/model"
	"community-admin/internal/shared/storage"
)

// EnsureDefaultGroups 幂等创建内置角色组（启动时调用）
//
// 组已存在时记录日志继续，不视为错误。
func EnsureDefaultGroups(store storage.GroupStore) error {
	ctx := context.Background()
	for _, role := range model.AllRoles {
		created, err := store.EnsureGroup(ctx, role)
		if err != nil {
			return fmt.Errorf("ensure group %s: %w", role, err)
		}
		if created {
			log.Printf("[seed] Created group: %s", role)
		} else {
			log.Printf("[seed] Group already exists: %s", role)
		}
	}
	return nil
}
