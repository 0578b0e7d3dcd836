package api

import (
	"encoding/json"

	"github.com/example/taskward/modules/task"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// CreateTask handles POST /api/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	taskReq := task.CreateTaskRequest{
		OwnerID:     claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"create",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toAPITask(resp))
}

// ListTasks handles GET /api/tasks with optional status, priority and
// search query parameters. Empty parameters impose no constraint.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	taskReq := task.ListTasksRequest{
		OwnerID:  claims.UserID,
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}
	var resp task.ListTasksResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"list",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.mapServiceError(c, err)
	}

	out := TaskListResponse{
		Tasks: make([]TaskResponse, 0, len(resp.Tasks)),
		Total: resp.Total,
	}
	for _, t := range resp.Tasks {
		out.Tasks = append(out.Tasks, toAPITask(t))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

// GetTask handles GET /api/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	taskReq := task.GetTaskRequest{
		OwnerID: claims.UserID,
		ID:      c.Params("id"),
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"get",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toAPITask(resp))
}

// UpdateTask handles PUT /api/tasks/:id with partial fields.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	taskReq := task.UpdateTaskRequest{
		OwnerID:     claims.UserID,
		ID:          c.Params("id"),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ClearDue:    req.ClearDue,
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"update",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toAPITask(resp))
}

// DeleteTask handles DELETE /api/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	taskReq := task.DeleteTaskRequest{
		OwnerID: claims.UserID,
		ID:      c.Params("id"),
	}
	var resp task.DeleteTaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"delete",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(DeleteResponse{
		Deleted: resp.Deleted,
		ID:      resp.ID,
	})
}

// TaskStats handles GET /api/tasks/stats.
func (h *Handlers) TaskStats(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c)
	}

	taskReq := task.StatsRequest{
		OwnerID: claims.UserID,
	}
	var resp task.StatsResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"stats",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(TaskStatsResponse{
		Total: resp.Total,
		Stats: resp.Stats,
	})
}

// toAPITask converts a task service response into the HTTP shape.
func toAPITask(t task.TaskResponse) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
