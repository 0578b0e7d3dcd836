package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	domain "github.com/example/taskward/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TaskModule provides owner-scoped task services.
type TaskModule struct {
	db      *gorm.DB
	repo    *Repository
	service *Service
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule backed by the SQLite file at dbPath.
func NewModule(dbPath string) *TaskModule {
	return &TaskModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// SetCache attaches the stats cache. Called from main after the cache
// module has connected; the service runs uncached until then.
func (m *TaskModule) SetCache(cache StatsCache) {
	if m.service != nil {
		m.service.SetCache(cache)
	}
}

// GetService returns the task service (for wiring and tests).
func (m *TaskModule) GetService() *Service {
	return m.service
}

// Start initializes the database connection and runs migrations.
func (m *TaskModule) Start(_ context.Context) error {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	m.repo = NewRepository(db)
	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	m.service = NewService(m.repo, nil)

	log.Printf("[task] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop gracefully closes the database connection.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("[task] Module stopped")
	return nil
}

// Health performs a health check on the task module.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
// The framework prefixes names with "services.task." on the wire.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "stats", json.Unmarshal, json.Marshal, m.taskStats,
	); err != nil {
		return fmt.Errorf("failed to register stats service: %w", err)
	}

	log.Printf("[task] Registered services: services.task.{create,list,get,update,delete,stats}")
	return nil
}

// createTask handles the task.create service request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.OwnerID == "" {
		return TaskResponse{}, errRequired("owner_id")
	}

	t, err := m.service.Create(ctx, req.OwnerID, CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return TaskResponse{}, err
	}

	return toTaskResponse(t), nil
}

// listTasks handles the task.list service request.
func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	if req.OwnerID == "" {
		return ListTasksResponse{}, errRequired("owner_id")
	}

	tasks, err := m.service.List(ctx, req.OwnerID, domain.Filter{
		Status:   req.Status,
		Priority: req.Priority,
		Search:   req.Search,
	})
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&tasks[i]))
	}
	return resp, nil
}

// getTask handles the task.get service request.
func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.OwnerID == "" {
		return TaskResponse{}, errRequired("owner_id")
	}
	if req.ID == "" {
		return TaskResponse{}, errRequired("id")
	}

	t, err := m.service.Get(ctx, req.OwnerID, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// updateTask handles the task.update service request.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.OwnerID == "" {
		return TaskResponse{}, errRequired("owner_id")
	}
	if req.ID == "" {
		return TaskResponse{}, errRequired("id")
	}

	t, err := m.service.Update(ctx, req.OwnerID, req.ID, UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ClearDue:    req.ClearDue,
	})
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// deleteTask handles the task.delete service request.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if req.OwnerID == "" {
		return DeleteTaskResponse{}, errRequired("owner_id")
	}
	if req.ID == "" {
		return DeleteTaskResponse{}, errRequired("id")
	}

	if err := m.service.Delete(ctx, req.OwnerID, req.ID); err != nil {
		return DeleteTaskResponse{Deleted: false, ID: req.ID}, err
	}
	return DeleteTaskResponse{Deleted: true, ID: req.ID}, nil
}

// taskStats handles the task.stats service request.
func (m *TaskModule) taskStats(ctx context.Context, req StatsRequest, _ *mono.Msg) (StatsResponse, error) {
	if req.OwnerID == "" {
		return StatsResponse{}, errRequired("owner_id")
	}

	stats, err := m.service.Stats(ctx, req.OwnerID)
	if err != nil {
		return StatsResponse{}, err
	}

	return StatsResponse{
		Total: stats.Total,
		Stats: stats.Stats,
	}, nil
}
