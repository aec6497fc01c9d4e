package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/events"
	"github.com/ali-aktas/hocalingo-api/internal/store"
	"github.com/ali-aktas/hocalingo-api/internal/task"
)

// MockItemStore mocks the store.ItemStore interface
type MockItemStore struct {
	mock.Mock
}

func (m *MockItemStore) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemStore) GetByPackage(
	ctx context.Context,
	packageID string,
) ([]*domain.Item, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Item), args.Error(1)
}

func (m *MockItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	args := m.Called(tx)
	return args.Get(0).(store.ItemStore)
}

// MockItemWriter mocks the store.ItemWriter interface
type MockItemWriter struct {
	mock.Mock
}

func (m *MockItemWriter) CreateMultiple(ctx context.Context, items []*domain.Item) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockItemWriter) RemovePackage(ctx context.Context, packageID string) (int64, error) {
	args := m.Called(ctx, packageID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemWriter) WithTxWriter(tx *sql.Tx) store.ItemWriter {
	args := m.Called(tx)
	return args.Get(0).(store.ItemWriter)
}

// MockProgressStore mocks the store.ProgressStore interface
type MockProgressStore struct {
	mock.Mock
}

func (m *MockProgressStore) Create(ctx context.Context, record *domain.ProgressRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockProgressStore) Get(
	ctx context.Context,
	profileID string,
	itemID int64,
	direction domain.Direction,
) (*domain.ProgressRecord, error) {
	args := m.Called(ctx, profileID, itemID, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressRecord), args.Error(1)
}

func (m *MockProgressStore) GetForUpdate(
	ctx context.Context,
	profileID string,
	itemID int64,
	direction domain.Direction,
) (*domain.ProgressRecord, error) {
	args := m.Called(ctx, profileID, itemID, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressRecord), args.Error(1)
}

func (m *MockProgressStore) Update(ctx context.Context, record *domain.ProgressRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	args := m.Called(tx)
	return args.Get(0).(store.ProgressStore)
}

// MockQueueStore mocks the store.QueueStore interface
type MockQueueStore struct {
	mock.Mock
}

func (m *MockQueueStore) DueEntries(
	ctx context.Context,
	profileID string,
	direction domain.Direction,
	now time.Time,
	limit int,
) ([]domain.QueueEntry, error) {
	args := m.Called(ctx, profileID, direction, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QueueEntry), args.Error(1)
}

func (m *MockQueueStore) HasDueEntries(
	ctx context.Context,
	profileID string,
	direction domain.Direction,
	now time.Time,
) (bool, error) {
	args := m.Called(ctx, profileID, direction, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockQueueStore) TopOverdue(
	ctx context.Context,
	profileID string,
	now time.Time,
	k int,
) ([]domain.QueueEntry, error) {
	args := m.Called(ctx, profileID, now, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QueueEntry), args.Error(1)
}

func (m *MockQueueStore) RandomStudied(
	ctx context.Context,
	profileID string,
) (*domain.Item, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

// MockSessionStore mocks the store.SessionStore interface
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.StudySession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudySession), args.Error(1)
}

func (m *MockSessionStore) Finish(
	ctx context.Context,
	id uuid.UUID,
	endedAt time.Time,
	wordsStudied int,
	correctAnswers int,
) (*domain.StudySession, error) {
	args := m.Called(ctx, id, endedAt, wordsStudied, correctAnswers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudySession), args.Error(1)
}

func (m *MockSessionStore) CountStartedBetween(
	ctx context.Context,
	profileID string,
	from time.Time,
	to time.Time,
) (int, error) {
	args := m.Called(ctx, profileID, from, to)
	return args.Int(0), args.Error(1)
}

// MockDayCounterStore mocks the store.DayCounterStore interface
type MockDayCounterStore struct {
	mock.Mock
}

func (m *MockDayCounterStore) Count(ctx context.Context, profileID, day string) (int, error) {
	args := m.Called(ctx, profileID, day)
	return args.Int(0), args.Error(1)
}

func (m *MockDayCounterStore) Increment(ctx context.Context, profileID, day string) (int, error) {
	args := m.Called(ctx, profileID, day)
	return args.Int(0), args.Error(1)
}

func (m *MockDayCounterStore) Range(
	ctx context.Context,
	profileID, fromDay, toDay string,
) (map[string]int, error) {
	args := m.Called(ctx, profileID, fromDay, toDay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockDayCounterStore) PurgeOlderThan(
	ctx context.Context,
	cutoffDay string,
) (int64, error) {
	args := m.Called(ctx, cutoffDay)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDayCounterStore) WithTx(tx *sql.Tx) store.DayCounterStore {
	args := m.Called(tx)
	return args.Get(0).(store.DayCounterStore)
}

// MockEventEmitter mocks the events.EventEmitter interface
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockTaskStore mocks the task.TaskStore interface
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status task.TaskStatus,
	errorMsg string,
) error {
	args := m.Called(ctx, taskID, status, errorMsg)
	return args.Error(0)
}

func (m *MockTaskStore) GetTaskInfo(ctx context.Context, taskID uuid.UUID) (*task.TaskInfo, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.TaskInfo), args.Error(1)
}

func (m *MockTaskStore) GetPendingTasks(ctx context.Context) ([]task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockTaskStore) GetProcessingTasks(
	ctx context.Context,
	olderThan time.Duration,
) ([]task.Task, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockTaskStore) WithTx(tx *sql.Tx) task.TaskStore {
	args := m.Called(tx)
	return args.Get(0).(task.TaskStore)
}
