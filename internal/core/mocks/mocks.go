package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/loftbase/studio-backend/internal/core/domain"
	"github.com/loftbase/studio-backend/internal/core/ports"
)

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockProjectRepository is a mock implementation of ports.ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{}
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) AddParticipant(ctx context.Context, projectID, userID uuid.UUID) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *MockProjectRepository) RemoveParticipant(ctx context.Context, projectID, userID uuid.UUID) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

// MockWorkTaskRepository is a mock implementation of ports.WorkTaskRepository
type MockWorkTaskRepository struct {
	mock.Mock
}

func NewMockWorkTaskRepository() *MockWorkTaskRepository {
	return &MockWorkTaskRepository{}
}

func (m *MockWorkTaskRepository) Create(ctx context.Context, task *domain.WorkTask) (*domain.WorkTask, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkTask), args.Error(1)
}

func (m *MockWorkTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkTask), args.Error(1)
}

func (m *MockWorkTaskRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]*domain.WorkTask, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WorkTask), args.Error(1)
}

func (m *MockWorkTaskRepository) AddParticipant(ctx context.Context, workTaskID, userID uuid.UUID) error {
	args := m.Called(ctx, workTaskID, userID)
	return args.Error(0)
}

// MockSubtaskRepository is a mock implementation of ports.SubtaskRepository
type MockSubtaskRepository struct {
	mock.Mock
}

func NewMockSubtaskRepository() *MockSubtaskRepository {
	return &MockSubtaskRepository{}
}

func (m *MockSubtaskRepository) Create(ctx context.Context, subtask *domain.Subtask) (*domain.Subtask, error) {
	args := m.Called(ctx, subtask)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subtask), args.Error(1)
}

func (m *MockSubtaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subtask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subtask), args.Error(1)
}

func (m *MockSubtaskRepository) ListByWorkTask(ctx context.Context, workTaskID uuid.UUID) ([]*domain.Subtask, error) {
	args := m.Called(ctx, workTaskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Subtask), args.Error(1)
}

func (m *MockSubtaskRepository) Update(ctx context.Context, subtask *domain.Subtask) (*domain.Subtask, error) {
	args := m.Called(ctx, subtask)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subtask), args.Error(1)
}

func (m *MockSubtaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubtaskRepository) Reorder(ctx context.Context, workTaskID uuid.UUID, orderedIDs []uuid.UUID) error {
	args := m.Called(ctx, workTaskID, orderedIDs)
	return args.Error(0)
}

// MockCommentRepository is a mock implementation of ports.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	args := m.Called(ctx, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListBySubtask(ctx context.Context, subtaskID uuid.UUID) ([]*domain.Comment, error) {
	args := m.Called(ctx, subtaskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Comment), args.Error(1)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	args := m.Called(ctx, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRoomAccessRepository is a mock implementation of ports.RoomAccessRepository
type MockRoomAccessRepository struct {
	mock.Mock
}

func NewMockRoomAccessRepository() *MockRoomAccessRepository {
	return &MockRoomAccessRepository{}
}

func (m *MockRoomAccessRepository) CheckWorkTask(ctx context.Context, workTaskID, userID uuid.UUID) (ports.AccessCheck, error) {
	args := m.Called(ctx, workTaskID, userID)
	return args.Get(0).(ports.AccessCheck), args.Error(1)
}

func (m *MockRoomAccessRepository) CheckProject(ctx context.Context, projectID, userID uuid.UUID) (ports.AccessCheck, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Get(0).(ports.AccessCheck), args.Error(1)
}

// MockEventEmitter is a mock implementation of ports.EventEmitter
type MockEventEmitter struct {
	mock.Mock
}

func NewMockEventEmitter() *MockEventEmitter {
	return &MockEventEmitter{}
}

func (m *MockEventEmitter) Emit(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
