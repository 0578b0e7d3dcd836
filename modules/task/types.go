package task

import (
	"time"

	domain "github.com/example/taskward/domain/task"
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TaskResponse represents a task in responses.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListTasksRequest is the request for listing tasks with optional filters.
type ListTasksRequest struct {
	OwnerID  string `json:"owner_id"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	Search   string `json:"search,omitempty"`
}

// ListTasksResponse is the response containing the filtered task list.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// GetTaskRequest is the request for getting a single task.
type GetTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// UpdateTaskRequest is the request for a partial task update.
// Nil fields keep their current value.
type UpdateTaskRequest struct {
	OwnerID     string     `json:"owner_id"`
	ID          string     `json:"id"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ClearDue    bool       `json:"clear_due,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// DeleteTaskResponse is the response after deleting a task.
type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// StatsRequest is the request for per-status task counts.
type StatsRequest struct {
	OwnerID string `json:"owner_id"`
}

// StatsResponse is the aggregated status breakdown for one owner.
type StatsResponse struct {
	Total int64                `json:"total"`
	Stats []domain.StatusCount `json:"stats"`
}

// toTaskResponse converts a Task entity to a TaskResponse.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
