package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/service"
	"github.com/ali-aktas/hocalingo-api/internal/task"
)

// MockStudyService mocks the service.StudyService interface
type MockStudyService struct {
	mock.Mock
}

func (m *MockStudyService) BuildQueue(
	ctx context.Context,
	profileID string,
	direction domain.Direction,
	limit int,
) ([]domain.QueueEntry, error) {
	args := m.Called(ctx, profileID, direction, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QueueEntry), args.Error(1)
}

func (m *MockStudyService) HasDue(
	ctx context.Context,
	profileID string,
	direction domain.Direction,
) (bool, error) {
	args := m.Called(ctx, profileID, direction)
	return args.Bool(0), args.Error(1)
}

func (m *MockStudyService) Grade(
	ctx context.Context,
	profileID string,
	itemID int64,
	direction domain.Direction,
	grade domain.ReviewGrade,
) (*service.GradeResult, error) {
	args := m.Called(ctx, profileID, itemID, direction, grade)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GradeResult), args.Error(1)
}

func (m *MockStudyService) PickReviewItem(
	ctx context.Context,
	profileID string,
) (*domain.Item, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

// MockStatsService mocks the service.StatsService interface
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) StartSession(
	ctx context.Context,
	profileID string,
	sessionType domain.SessionType,
) (*domain.StudySession, error) {
	args := m.Called(ctx, profileID, sessionType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudySession), args.Error(1)
}

func (m *MockStatsService) FinishSession(
	ctx context.Context,
	id uuid.UUID,
	wordsStudied int,
	correctAnswers int,
) (*domain.StudySession, error) {
	args := m.Called(ctx, id, wordsStudied, correctAnswers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudySession), args.Error(1)
}

func (m *MockStatsService) TodayStats(
	ctx context.Context,
	profileID string,
) (*service.TodayStats, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TodayStats), args.Error(1)
}

func (m *MockStatsService) StreakLength(ctx context.Context, profileID string) (int, error) {
	args := m.Called(ctx, profileID)
	return args.Int(0), args.Error(1)
}

// MockGenerationService mocks the service.GenerationService interface
type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) RequestGeneration(
	ctx context.Context,
	profileID, category, level string,
) (uuid.UUID, error) {
	args := m.Called(ctx, profileID, category, level)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockGenerationService) Status(
	ctx context.Context,
	taskID uuid.UUID,
) (*task.TaskInfo, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.TaskInfo), args.Error(1)
}

func (m *MockGenerationService) SaveGeneratedItems(
	ctx context.Context,
	profileID string,
	items []*domain.Item,
) error {
	args := m.Called(ctx, profileID, items)
	return args.Error(0)
}
