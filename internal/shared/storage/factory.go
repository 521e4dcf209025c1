package storage

import (
	"fmt"

	"community-admin/internal/shared/storage/dbutil"
	pgdriver "community-admin/internal/shared/storage/driver/postgres"
	sqlitedriver "community-admin/internal/shared/storage/driver/sqlite"
	"community-admin/internal/shared/storage/repository"
)

// NewPostgresStore 创建 PostgreSQL 存储
func NewPostgresStore(databaseURL string) (*repository.Store, error) {
	db, err := pgdriver.Open(databaseURL)
	if err != nil {
		return nil, err
	}
	return repository.NewStore(db, pgdriver.NewDialect()), nil
}

// NewSQLiteStore 创建 SQLite 存储（含自动建表）
func NewSQLiteStore(dsn string) (*repository.Store, error) {
	db, err := sqlitedriver.Open(dsn)
	if err != nil {
		return nil, err
	}
	dialect := sqlitedriver.NewDialect()
	if err := dialect.AutoMigrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite auto-migrate failed: %w", err)
	}
	return repository.NewStore(db, dialect), nil
}

// NewPersistentStore 根据驱动类型和 DSN 创建持久化存储
// 支持的驱动类型：postgres, sqlite
func NewPersistentStore(driver dbutil.DriverType, dsn string) (PersistentStore, error) {
	switch driver {
	case dbutil.DriverPostgres:
		return NewPostgresStore(dsn)
	case dbutil.DriverSQLite:
		return NewSQLiteStore(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
