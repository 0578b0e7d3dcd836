package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/example/taskward/domain/task"
	"gorm.io/gorm"
)

// Repository is the task store: GORM over SQLite with an owner index.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate runs database migrations for the tasks table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&domain.Task{})
}

// Create saves a new task. GORM fills CreatedAt/UpdatedAt.
func (r *Repository) Create(ctx context.Context, t *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID regardless of owner. Ownership is
// the service layer's concern.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// FindByOwner retrieves one owner's tasks narrowed by the filter.
// The filter semantics mirror domain.Filter.Matches: zero-value fields
// impose no constraint, search matches title or description without
// case sensitivity. Results are ordered by creation time so one query
// always returns a stable sequence.
func (r *Repository) FindByOwner(ctx context.Context, ownerID string, f domain.Filter) ([]domain.Task, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		query = query.Where("priority = ?", f.Priority)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var tasks []domain.Task
	if err := query.Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Save persists changes to an existing task. All fields are written so
// cleared values (empty description, dropped due date) stick. Updating
// a task that no longer exists reports ErrNotFound.
func (r *Repository) Save(ctx context.Context, t *domain.Task) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", t.ID).
		Select("*").
		Updates(t)
	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task by ID. Hard delete, no undo.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus groups one owner's tasks by status. Statuses with no
// tasks do not appear in the result.
func (r *Repository) CountByStatus(ctx context.Context, ownerID string) ([]domain.StatusCount, error) {
	var counts []domain.StatusCount
	err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Select("status, COUNT(*) as count").
		Where("owner_id = ?", ownerID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	return counts, nil
}
