package task

import (
	"time"
)

// Status is the workflow state of a task.
type Status string

// Task statuses.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is a recognized status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority is the urgency level of a task.
type Priority string

// Task priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a recognized priority value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a single task owned by exactly one user.
// OwnerID is indexed for per-owner listing; tasks are never shared.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID     string     `gorm:"index;size:36;not null" json:"owner_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"size:2000" json:"description"`
	Status      Status     `gorm:"size:20;not null;default:pending" json:"status"`
	Priority    Priority   `gorm:"size:10;not null;default:medium" json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// StatusCount is one group in a status aggregation.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

// Stats summarizes one owner's tasks grouped by status.
// Statuses with no tasks are omitted rather than zero-filled.
type Stats struct {
	Total int64         `json:"total"`
	Stats []StatusCount `json:"stats"`
}
