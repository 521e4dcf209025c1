package model

import (
	"encoding/json"
	"time"
)

// TaskType 任务类型
type TaskType string

const (
	TaskTypeRegular   TaskType = "regular"
	TaskTypePriority  TaskType = "priority"
	TaskTypeRecurring TaskType = "recurring"
)

// Valid 是否为合法任务类型
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeRegular, TaskTypePriority, TaskTypeRecurring:
		return true
	}
	return false
}

// Task 任务
type Task struct {
	ID          string          `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	AssignedTo  string          `json:"assigned_to" db:"assigned_to"`
	Type        TaskType        `json:"task_type" db:"task_type"`
	Metadata    json.RawMessage `json:"metadata,omitempty" db:"metadata"` // 不透明的结构化数据
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
