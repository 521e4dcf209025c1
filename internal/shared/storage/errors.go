// Package storage 存储层领域错误的统一出口
//
// 错误值定义在 repository 包（由它负责将底层驱动错误转换为领域错误），
// 此处重导出供调用方使用，调用方无需 import repository。
package storage

import "community-admin/internal/shared/storage/repository"

var (
	// ErrNotFound 实体不存在
	ErrNotFound = repository.ErrNotFound

	// ErrDuplicate 唯一键冲突（username / email / token 重复）
	ErrDuplicate = repository.ErrDuplicate

	// ErrConflict 并发冲突
	ErrConflict = repository.ErrConflict
)
