package task

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	domain "github.com/example/taskward/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCache is an in-memory StatsCache that records operations.
type fakeCache struct {
	data    map[string][]byte
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	f.deletes = append(f.deletes, key)
	return nil
}

func setupService(t *testing.T) *Service {
	t.Helper()
	repo := NewRepository(setupTestDB(t))
	return NewService(repo, nil)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults applied", func(t *testing.T) {
		svc := setupService(t)

		created, err := svc.Create(ctx, "owner-1", CreateParams{Title: "  Write tests  "})
		require.NoError(t, err)

		assert.Equal(t, "Write tests", created.Title)
		assert.Equal(t, domain.StatusPending, created.Status)
		assert.Equal(t, domain.PriorityMedium, created.Priority)
		assert.Equal(t, "owner-1", created.OwnerID)
		assert.NotEmpty(t, created.ID)
	})

	t.Run("explicit fields kept", func(t *testing.T) {
		svc := setupService(t)
		due := time.Now().Add(48 * time.Hour)

		created, err := svc.Create(ctx, "owner-1", CreateParams{
			Title:       "Ship release",
			Description: "Tag and publish",
			Status:      "in-progress",
			Priority:    "high",
			DueDate:     &due,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.StatusInProgress, created.Status)
		assert.Equal(t, domain.PriorityHigh, created.Priority)
		require.NotNil(t, created.DueDate)
	})

	t.Run("blank title rejected without a write", func(t *testing.T) {
		svc := setupService(t)

		_, err := svc.Create(ctx, "owner-1", CreateParams{Title: "   "})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)

		tasks, err := svc.List(ctx, "owner-1", domain.Filter{})
		require.NoError(t, err)
		assert.Empty(t, tasks, "failed create must not store anything")
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		svc := setupService(t)

		_, err := svc.Create(ctx, "owner-1", CreateParams{Title: "x", Status: "done"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "status", verr.Field)
	})

	t.Run("unknown priority rejected", func(t *testing.T) {
		svc := setupService(t)

		_, err := svc.Create(ctx, "owner-1", CreateParams{Title: "x", Priority: "urgent"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "priority", verr.Field)
	})
}

func TestService_OwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	mine, err := svc.Create(ctx, "owner-1", CreateParams{Title: "Mine"})
	require.NoError(t, err)
	theirs, err := svc.Create(ctx, "owner-2", CreateParams{Title: "Theirs"})
	require.NoError(t, err)

	t.Run("list only shows own tasks", func(t *testing.T) {
		tasks, err := svc.List(ctx, "owner-1", domain.Filter{})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Mine", tasks[0].Title)
	})

	t.Run("get of own task succeeds", func(t *testing.T) {
		got, err := svc.Get(ctx, "owner-1", mine.ID)
		require.NoError(t, err)
		assert.Equal(t, mine.ID, got.ID)
	})

	// Someone else's task and a missing task are the same error, so a
	// caller cannot probe which ids exist.
	t.Run("get of foreign task looks missing", func(t *testing.T) {
		_, err := svc.Get(ctx, "owner-1", theirs.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, missingErr := svc.Get(ctx, "owner-1", "no-such-id")
		assert.Equal(t, missingErr, err)
	})

	t.Run("update of foreign task looks missing", func(t *testing.T) {
		title := "Hijacked"
		_, err := svc.Update(ctx, "owner-1", theirs.ID, UpdateParams{Title: &title})
		assert.ErrorIs(t, err, ErrNotFound)

		kept, err := svc.Get(ctx, "owner-2", theirs.ID)
		require.NoError(t, err)
		assert.Equal(t, "Theirs", kept.Title)
	})

	t.Run("delete of foreign task looks missing", func(t *testing.T) {
		err := svc.Delete(ctx, "owner-1", theirs.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = svc.Get(ctx, "owner-2", theirs.ID)
		assert.NoError(t, err)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, svc *Service) *domain.Task {
		due := time.Now().Add(24 * time.Hour)
		created, err := svc.Create(ctx, "owner-1", CreateParams{
			Title:       "Original",
			Description: "Keep me",
			Priority:    "high",
			DueDate:     &due,
		})
		require.NoError(t, err)
		return created
	}

	t.Run("partial update preserves absent fields", func(t *testing.T) {
		svc := setupService(t)
		created := seed(t, svc)

		status := "completed"
		updated, err := svc.Update(ctx, "owner-1", created.ID, UpdateParams{Status: &status})
		require.NoError(t, err)

		assert.Equal(t, domain.StatusCompleted, updated.Status)
		assert.Equal(t, "Original", updated.Title)
		assert.Equal(t, "Keep me", updated.Description)
		assert.Equal(t, domain.PriorityHigh, updated.Priority)
		require.NotNil(t, updated.DueDate)
	})

	t.Run("owner never changes", func(t *testing.T) {
		svc := setupService(t)
		created := seed(t, svc)

		title := "Renamed"
		updated, err := svc.Update(ctx, "owner-1", created.ID, UpdateParams{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "owner-1", updated.OwnerID)
	})

	t.Run("description can be cleared to empty", func(t *testing.T) {
		svc := setupService(t)
		created := seed(t, svc)

		empty := ""
		_, err := svc.Update(ctx, "owner-1", created.ID, UpdateParams{Description: &empty})
		require.NoError(t, err)

		got, err := svc.Get(ctx, "owner-1", created.ID)
		require.NoError(t, err)
		assert.Equal(t, "", got.Description)
	})

	t.Run("due date can be dropped", func(t *testing.T) {
		svc := setupService(t)
		created := seed(t, svc)

		_, err := svc.Update(ctx, "owner-1", created.ID, UpdateParams{ClearDue: true})
		require.NoError(t, err)

		got, err := svc.Get(ctx, "owner-1", created.ID)
		require.NoError(t, err)
		assert.Nil(t, got.DueDate)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		svc := setupService(t)
		created := seed(t, svc)

		blank := "  "
		_, err := svc.Update(ctx, "owner-1", created.ID, UpdateParams{Title: &blank})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)

		got, err := svc.Get(ctx, "owner-1", created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", got.Title, "rejected update must not change the task")
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		svc := setupService(t)
		created := seed(t, svc)

		bad := "archived"
		_, err := svc.Update(ctx, "owner-1", created.ID, UpdateParams{Status: &bad})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "status", verr.Field)
	})
}

func TestService_DeleteThenGet(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	created, err := svc.Create(ctx, "owner-1", CreateParams{Title: "Short-lived"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "owner-1", created.ID))

	_, err = svc.Get(ctx, "owner-1", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, "owner-1", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, "owner-1", CreateParams{Title: "p", Status: "pending"})
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, "owner-1", CreateParams{Title: "c", Status: "completed"})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "owner-2", CreateParams{Title: "other"})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, "owner-1")
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.Total)
	require.Len(t, stats.Stats, 2, "zero-count statuses are omitted")

	byStatus := make(map[domain.Status]int64)
	for _, c := range stats.Stats {
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, int64(3), byStatus[domain.StatusPending])
	assert.Equal(t, int64(2), byStatus[domain.StatusCompleted])
	assert.NotContains(t, byStatus, domain.StatusInProgress)
}

func TestService_StatsEmptyOwner(t *testing.T) {
	svc := setupService(t)

	stats, err := svc.Stats(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.Empty(t, stats.Stats)
}

func TestService_StatsCaching(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))
	cache := newFakeCache()
	svc := NewService(repo, cache)

	created, err := svc.Create(ctx, "owner-1", CreateParams{Title: "cached"})
	require.NoError(t, err)

	t.Run("first read populates the cache", func(t *testing.T) {
		stats, err := svc.Stats(ctx, "owner-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Total)
		assert.Contains(t, cache.data, "stats:owner-1")
	})

	t.Run("cached value served without hitting the store", func(t *testing.T) {
		// Poison the cached entry; a cache hit returns it verbatim.
		require.NoError(t, cache.Set(ctx, "stats:owner-1", &domain.Stats{Total: 99}))

		stats, err := svc.Stats(ctx, "owner-1")
		require.NoError(t, err)
		assert.Equal(t, int64(99), stats.Total)
	})

	t.Run("mutations invalidate", func(t *testing.T) {
		status := "completed"
		_, err := svc.Update(ctx, "owner-1", created.ID, UpdateParams{Status: &status})
		require.NoError(t, err)
		assert.NotContains(t, cache.data, "stats:owner-1")

		stats, err := svc.Stats(ctx, "owner-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Total)

		require.NoError(t, svc.Delete(ctx, "owner-1", created.ID))
		assert.NotContains(t, cache.data, "stats:owner-1")
	})

	t.Run("only the mutating owner's entry is dropped", func(t *testing.T) {
		_, err := svc.Stats(ctx, "owner-1")
		require.NoError(t, err)

		_, err = svc.Create(ctx, "owner-2", CreateParams{Title: "elsewhere"})
		require.NoError(t, err)
		assert.Contains(t, cache.data, "stats:owner-1")
	})
}
