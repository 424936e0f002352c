package http

import (
	"context"

	"github.com/skillzio/evaluation-service/internal/domain"
	"github.com/skillzio/evaluation-service/internal/permissions"
	"github.com/skillzio/evaluation-service/internal/repository"
	"github.com/skillzio/evaluation-service/internal/service"
	"github.com/skillzio/evaluation-service/internal/viewmodel"
	"github.com/stretchr/testify/mock"
)

type EvaluationServiceMock struct {
	mock.Mock
}

var _ service.EvaluationService = (*EvaluationServiceMock)(nil)

func (m *EvaluationServiceMock) GetEvaluation(ctx context.Context, req permissions.Requester, evaluationID string) (*viewmodel.Evaluation, error) {
	args := m.Called(ctx, req, evaluationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*viewmodel.Evaluation), args.Error(1)
}

func (m *EvaluationServiceMock) GetUserEvaluations(ctx context.Context, req permissions.Requester, userID string) ([]viewmodel.Metadata, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]viewmodel.Metadata), args.Error(1)
}

func (m *EvaluationServiceMock) StartEvaluation(ctx context.Context, req permissions.Requester, userID string) (*viewmodel.Evaluation, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*viewmodel.Evaluation), args.Error(1)
}

func (m *EvaluationServiceMock) UpdateSkillStatus(ctx context.Context, req permissions.Requester, evaluationID string, skillID int, status domain.StatusValue) error {
	args := m.Called(ctx, req, evaluationID, skillID, status)
	return args.Error(0)
}

func (m *EvaluationServiceMock) AdminUpdateSkillStatus(ctx context.Context, req permissions.Requester, evaluationID string, skillID int, status domain.StatusValue) error {
	args := m.Called(ctx, req, evaluationID, skillID, status)
	return args.Error(0)
}

func (m *EvaluationServiceMock) Complete(ctx context.Context, req permissions.Requester, evaluationID string) (*viewmodel.Metadata, error) {
	args := m.Called(ctx, req, evaluationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*viewmodel.Metadata), args.Error(1)
}

func (m *EvaluationServiceMock) UpdateEvaluationStatus(ctx context.Context, req permissions.Requester, evaluationID string, status domain.EvaluationStatus) (*viewmodel.Metadata, error) {
	args := m.Called(ctx, req, evaluationID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*viewmodel.Metadata), args.Error(1)
}

func (m *EvaluationServiceMock) AddNote(ctx context.Context, req permissions.Requester, evaluationID string, skillID int, text string) (*viewmodel.NoteView, error) {
	args := m.Called(ctx, req, evaluationID, skillID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*viewmodel.NoteView), args.Error(1)
}

func (m *EvaluationServiceMock) DeleteNote(ctx context.Context, req permissions.Requester, evaluationID string, skillID int, noteID string) error {
	args := m.Called(ctx, req, evaluationID, skillID, noteID)
	return args.Error(0)
}

type UserServiceMock struct {
	mock.Mock
}

var _ service.UserService = (*UserServiceMock)(nil)

func (m *UserServiceMock) CreateUser(ctx context.Context, req permissions.Requester, name, email string) (*domain.User, error) {
	args := m.Called(ctx, req, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserServiceMock) GetUser(ctx context.Context, req permissions.Requester, userID string) (*domain.User, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserServiceMock) SelectMentor(ctx context.Context, req permissions.Requester, userID, mentorID string) (*domain.User, error) {
	args := m.Called(ctx, req, userID, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserServiceMock) SelectLineManager(ctx context.Context, req permissions.Requester, userID, lineManagerID string) (*domain.User, error) {
	args := m.Called(ctx, req, userID, lineManagerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserServiceMock) SelectTemplate(ctx context.Context, req permissions.Requester, userID, templateID string) (*domain.User, error) {
	args := m.Called(ctx, req, userID, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

type ActionServiceMock struct {
	mock.Mock
}

var _ service.ActionService = (*ActionServiceMock)(nil)

func (m *ActionServiceMock) GetTasks(ctx context.Context, req permissions.Requester, userID string) ([]viewmodel.TaskView, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]viewmodel.TaskView), args.Error(1)
}

// UserRepositoryMock backs the authenticator's session lookup in tests.
type UserRepositoryMock struct {
	mock.Mock
}

var _ repository.UserRepository = (*UserRepositoryMock)(nil)

func (m *UserRepositoryMock) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) GetUsersByID(ctx context.Context, ids []string) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) SetMentor(ctx context.Context, userID, mentorID string) (*domain.User, error) {
	args := m.Called(ctx, userID, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) SetLineManager(ctx context.Context, userID, lineManagerID string) (*domain.User, error) {
	args := m.Called(ctx, userID, lineManagerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) SetTemplate(ctx context.Context, userID, templateID string) (*domain.User, error) {
	args := m.Called(ctx, userID, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}
