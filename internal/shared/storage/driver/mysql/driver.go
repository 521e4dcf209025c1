// Package mysql MySQL 数据库驱动（预留）
//
// 提供 MySQL 方言实现。
// 当前为 stub 实现，后续可完善连接管理。
package mysql

import (
	"database/sql"
	"strings"

	"community-admin/internal/shared/storage/dbutil"
)

// Dialect MySQL 方言实现
type Dialect struct{}

var _ dbutil.Dialect = (*Dialect)(nil)

func (d *Dialect) DriverType() dbutil.DriverType {
	return dbutil.DriverMySQL
}

func (d *Dialect) Rebind(query string) string {
	return dbutil.StripPgCasts(dbutil.RebindToQuestion(query))
}

func (d *Dialect) CurrentTimestamp() string {
	return "NOW()"
}

func (d *Dialect) BooleanLiteral(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (d *Dialect) IsUniqueViolation(err error) bool {
	// MySQL error 1062: Duplicate entry
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}

func (d *Dialect) AutoMigrate(db *sql.DB) error {
	// MySQL 使用外部迁移文件
	return nil
}

// NewDialect 创建 MySQL 方言
func NewDialect() *Dialect {
	return &Dialect{}
}
