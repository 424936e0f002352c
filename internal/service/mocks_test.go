package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/skillzio/evaluation-service/internal/domain"
	"github.com/skillzio/evaluation-service/internal/notify"
	"github.com/skillzio/evaluation-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

type EvaluationRepositoryMock struct {
	mock.Mock
}

var _ repository.EvaluationRepository = (*EvaluationRepositoryMock)(nil)

func (m *EvaluationRepositoryMock) GetEvaluationByID(ctx context.Context, id string) (*domain.Evaluation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func (m *EvaluationRepositoryMock) GetEvaluationByIDWithLock(ctx context.Context, tx *sqlx.Tx, id string) (*domain.Evaluation, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func (m *EvaluationRepositoryMock) GetEvaluationsByUserID(ctx context.Context, userID string) ([]domain.Evaluation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Evaluation), args.Error(1)
}

func (m *EvaluationRepositoryMock) CreateEvaluation(ctx context.Context, eval *domain.Evaluation) (*domain.Evaluation, error) {
	args := m.Called(ctx, eval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func (m *EvaluationRepositoryMock) ApplySkillUpdate(ctx context.Context, tx *sqlx.Tx, update *domain.SkillUpdate) error {
	args := m.Called(ctx, tx, update)
	return args.Error(0)
}

func (m *EvaluationRepositoryMock) ApplyStatusUpdate(ctx context.Context, tx *sqlx.Tx, update *domain.StatusUpdate) error {
	args := m.Called(ctx, tx, update)
	return args.Error(0)
}

func (m *EvaluationRepositoryMock) ApplySkillNotesUpdate(ctx context.Context, tx *sqlx.Tx, update *domain.SkillNotesUpdate) error {
	args := m.Called(ctx, tx, update)
	return args.Error(0)
}

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

type NoteRepositoryMock struct {
	mock.Mock
}

var _ repository.NoteRepository = (*NoteRepositoryMock)(nil)

func (m *NoteRepositoryMock) AddNote(ctx context.Context, userID string, skillID int, text string) (*domain.Note, error) {
	args := m.Called(ctx, userID, skillID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *NoteRepositoryMock) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *NoteRepositoryMock) GetNotes(ctx context.Context, ids []string) ([]domain.Note, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Note), args.Error(1)
}

func (m *NoteRepositoryMock) SetDeleted(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ActionRepositoryMock struct {
	mock.Mock
}

var _ repository.ActionRepository = (*ActionRepositoryMock)(nil)

func (m *ActionRepositoryMock) AddAction(ctx context.Context, tx *sqlx.Tx, action *domain.Action) error {
	args := m.Called(ctx, tx, action)
	return args.Error(0)
}

func (m *ActionRepositoryMock) RemoveAction(ctx context.Context, tx *sqlx.Tx, key domain.ActionKey) error {
	args := m.Called(ctx, tx, key)
	return args.Error(0)
}

func (m *ActionRepositoryMock) GetActionsByUserID(ctx context.Context, userID string) ([]domain.Action, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Action), args.Error(1)
}

type TemplateRepositoryMock struct {
	mock.Mock
}

var _ repository.TemplateRepository = (*TemplateRepositoryMock)(nil)

func (m *TemplateRepositoryMock) GetTemplateByID(ctx context.Context, id string) (*domain.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Template), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

var _ notify.Publisher = (*PublisherMock)(nil)

func (m *PublisherMock) PublishEmail(ctx context.Context, job notify.EmailJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}
