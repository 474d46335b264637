package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"remindbridge/internal/application/dto"
	"remindbridge/internal/domain/constant"
	"remindbridge/internal/domain/entity"
	"remindbridge/internal/domain/repository"
	"remindbridge/internal/infrastructure/database"
	"remindbridge/internal/pkg/config"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) repository.ReminderRepository {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_fk=1", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err, "open sqlite memory")
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.CloseDB(db) })

	return database.NewReminderRepository(db)
}

func seed(t *testing.T, repo repository.ReminderRepository, reminders ...*entity.Reminder) {
	t.Helper()
	for _, r := range reminders {
		if r.Status == "" {
			r.Status = constant.StatusPending
		}
		require.NoError(t, repo.Create(context.Background(), r))
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.APIBaseURL = "https://api.example.com"
	cfg.QueueSessionID = "session-1"
	return cfg
}

// stubRepo delegates to a real repository unless a func field overrides the call.
type stubRepo struct {
	repository.ReminderRepository
	findByIDFunc       func(ctx context.Context, id string) (*entity.Reminder, error)
	markProcessingFunc func(ctx context.Context, id, jobID string, startedAt time.Time) error
}

func (r *stubRepo) FindByID(ctx context.Context, id string) (*entity.Reminder, error) {
	if r.findByIDFunc != nil {
		return r.findByIDFunc(ctx, id)
	}
	return r.ReminderRepository.FindByID(ctx, id)
}

func (r *stubRepo) MarkProcessing(ctx context.Context, id, jobID string, startedAt time.Time) error {
	if r.markProcessingFunc != nil {
		return r.markProcessingFunc(ctx, id, jobID, startedAt)
	}
	return r.ReminderRepository.MarkProcessing(ctx, id, jobID, startedAt)
}

// fakeQueue records every enqueue and answers with enqueueFunc when set.
type fakeQueue struct {
	mu          sync.Mutex
	requests    []dto.EnqueueRequest
	enqueueFunc func(req dto.EnqueueRequest) (string, error)
}

func (q *fakeQueue) Enqueue(_ context.Context, req dto.EnqueueRequest) (string, error) {
	q.mu.Lock()
	q.requests = append(q.requests, req)
	n := len(q.requests)
	q.mu.Unlock()
	if q.enqueueFunc != nil {
		return q.enqueueFunc(req)
	}
	return fmt.Sprintf("job-%d", n), nil
}

// fakeInvalidator records revalidated tags.
type fakeInvalidator struct {
	mu   sync.Mutex
	tags []string
	err  error
}

func (f *fakeInvalidator) RevalidateTag(_ context.Context, tag string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags = append(f.tags, tag)
	return 1, f.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func mustFind(t *testing.T, repo repository.ReminderRepository, id string) *entity.Reminder {
	t.Helper()
	r, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return r
}
