package task

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	domain "github.com/example/taskward/domain/task"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// StatsCache is the slice of the cache layer the task service needs.
// Implemented by modules/cache.Cache; nil disables caching entirely.
type StatsCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// CreateParams are the caller-supplied fields for a new task.
// Owner is never part of the input; it comes from the verified identity.
type CreateParams struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
}

// UpdateParams are the caller-supplied fields for a partial update.
// Nil pointers leave the current value untouched.
type UpdateParams struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	ClearDue    bool
}

// Service orchestrates task CRUD and aggregation, enforcing ownership
// on every read and write.
type Service struct {
	repo    *Repository
	cache   StatsCache
	sfGroup singleflight.Group // collapses concurrent stats recomputes per owner
}

// NewService creates a new task service. cache may be nil.
func NewService(repo *Repository, cache StatsCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// SetCache attaches a cache after construction. Used by the module
// wiring, which connects Redis after the application starts.
func (s *Service) SetCache(cache StatsCache) {
	s.cache = cache
}

// Create validates the fields, stamps the owner and stores the task.
// Nothing is written when validation fails.
func (s *Service) Create(ctx context.Context, ownerID string, p CreateParams) (*domain.Task, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, errRequired("title")
	}

	status := domain.StatusPending
	if p.Status != "" {
		status = domain.Status(p.Status)
		if !status.Valid() {
			return nil, errInvalid("status", p.Status)
		}
	}

	priority := domain.PriorityMedium
	if p.Priority != "" {
		priority = domain.Priority(p.Priority)
		if !priority.Valid() {
			return nil, errInvalid("priority", p.Priority)
		}
	}

	t := &domain.Task{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(p.Title),
		Description: p.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     p.DueDate,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	return t, nil
}

// List returns the owner's tasks narrowed by the filter. No pagination.
func (s *Service) List(ctx context.Context, ownerID string, f domain.Filter) ([]domain.Task, error) {
	return s.repo.FindByOwner(ctx, ownerID, f)
}

// Get returns the task only when it exists and belongs to ownerID.
// A task owned by someone else is reported as not found.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	return s.resolveOwned(ctx, ownerID, id)
}

// Update applies a partial update to an owned task. Provided fields
// replace current values, absent fields are kept, owner never changes.
func (s *Service) Update(ctx context.Context, ownerID, id string, p UpdateParams) (*domain.Task, error) {
	t, err := s.resolveOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, errRequired("title")
		}
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		status := domain.Status(*p.Status)
		if !status.Valid() {
			return nil, errInvalid("status", *p.Status)
		}
		t.Status = status
	}
	if p.Priority != nil {
		priority := domain.Priority(*p.Priority)
		if !priority.Valid() {
			return nil, errInvalid("priority", *p.Priority)
		}
		t.Priority = priority
	}
	if p.ClearDue {
		t.DueDate = nil
	} else if p.DueDate != nil {
		t.DueDate = p.DueDate
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	return t, nil
}

// Delete removes an owned task. Hard delete.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	t, err := s.resolveOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, t.ID); err != nil {
		return err
	}

	s.invalidateStats(ctx, ownerID)
	return nil
}

// Stats aggregates the owner's tasks by status. Reads go through the
// cache when one is attached; recomputes for the same owner collapse
// into a single store query.
func (s *Service) Stats(ctx context.Context, ownerID string) (*domain.Stats, error) {
	key := statsKey(ownerID)

	if s.cache != nil {
		var cached domain.Stats
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("[task] cache error for %s: %v", key, err)
		}
		if found {
			return &cached, nil
		}
	}

	val, err, _ := s.sfGroup.Do(ownerID, func() (any, error) {
		counts, err := s.repo.CountByStatus(ctx, ownerID)
		if err != nil {
			return nil, err
		}

		stats := &domain.Stats{Stats: counts}
		for _, c := range counts {
			stats.Total += c.Count
		}
		return stats, nil
	})
	if err != nil {
		return nil, err
	}

	stats := val.(*domain.Stats)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats); err != nil {
			log.Printf("[task] failed to cache %s: %v", key, err)
		}
	}

	return stats, nil
}

// resolveOwned fetches a task and enforces ownership. Existence is
// checked first, then ownership, but both failures surface as the same
// ErrNotFound.
func (s *Service) resolveOwned(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return t, nil
}

// invalidateStats drops the cached aggregate after any mutation.
// Cache failures only cost freshness, never correctness.
func (s *Service) invalidateStats(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsKey(ownerID)); err != nil {
		log.Printf("[task] failed to invalidate stats for owner %s: %v", ownerID, err)
	}
}

func statsKey(ownerID string) string {
	return fmt.Sprintf("stats:%s", ownerID)
}
