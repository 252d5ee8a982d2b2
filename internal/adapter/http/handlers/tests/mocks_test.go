package tests

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tripmatch/internal/core/domain"
)

type taskFlowServiceMock struct {
	mock.Mock
}

func (m *taskFlowServiceMock) CreateTask(ctx context.Context, supplierID uint64, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, supplierID, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskFlowServiceMock) PublishTask(ctx context.Context, taskID, supplierID uint64) (domain.TransitionResult, error) {
	args := m.Called(ctx, taskID, supplierID)
	return args.Get(0).(domain.TransitionResult), args.Error(1)
}

func (m *taskFlowServiceMock) CancelTask(ctx context.Context, taskID, supplierID uint64, reason *string) (domain.TransitionResult, error) {
	args := m.Called(ctx, taskID, supplierID, reason)
	return args.Get(0).(domain.TransitionResult), args.Error(1)
}

func (m *taskFlowServiceMock) SubmitApplication(ctx context.Context, taskID, creatorID uint64, input domain.SubmitApplicationInput) (domain.TaskApplication, error) {
	args := m.Called(ctx, taskID, creatorID, input)
	return args.Get(0).(domain.TaskApplication), args.Error(1)
}

func (m *taskFlowServiceMock) ReviewApplication(ctx context.Context, applicationID, supplierID uint64, decision domain.ReviewDecision, notes *string) error {
	args := m.Called(ctx, applicationID, supplierID, decision, notes)
	return args.Error(0)
}

func (m *taskFlowServiceMock) SubmitWork(ctx context.Context, taskID, creatorID uint64, input domain.SubmitWorkInput) (domain.WorkAsset, error) {
	args := m.Called(ctx, taskID, creatorID, input)
	return args.Get(0).(domain.WorkAsset), args.Error(1)
}

func (m *taskFlowServiceMock) ReviewWork(ctx context.Context, taskID, supplierID, assetID uint64, decision domain.ReviewDecision, feedback *string) error {
	args := m.Called(ctx, taskID, supplierID, assetID, decision, feedback)
	return args.Error(0)
}

func (m *taskFlowServiceMock) CompleteTask(ctx context.Context, taskID, actorID uint64) (domain.TransitionResult, error) {
	args := m.Called(ctx, taskID, actorID)
	return args.Get(0).(domain.TransitionResult), args.Error(1)
}

func (m *taskFlowServiceMock) SubmitRating(ctx context.Context, taskID, fromUserID, toUserID uint64, score int, comment *string) (domain.Rating, error) {
	args := m.Called(ctx, taskID, fromUserID, toUserID, score, comment)
	return args.Get(0).(domain.Rating), args.Error(1)
}

type workflowServiceMock struct {
	mock.Mock
}

func (m *workflowServiceMock) Transition(ctx context.Context, taskID uint64, to domain.TaskStage, actorID uint64, reason *string) (domain.TransitionResult, error) {
	args := m.Called(ctx, taskID, to, actorID, reason)
	return args.Get(0).(domain.TransitionResult), args.Error(1)
}

func (m *workflowServiceMock) GetProgress(ctx context.Context, taskID uint64) (domain.ProgressView, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(domain.ProgressView), args.Error(1)
}

func (m *workflowServiceMock) GetDashboard(ctx context.Context, userID uint64, role domain.Role) (domain.DashboardView, error) {
	args := m.Called(ctx, userID, role)
	return args.Get(0).(domain.DashboardView), args.Error(1)
}

func (m *workflowServiceMock) CheckDeadline(ctx context.Context, taskID uint64) (domain.DeadlineCheck, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(domain.DeadlineCheck), args.Error(1)
}
