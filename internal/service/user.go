package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skillzio/evaluation-service/internal/apperrors"
	"github.com/skillzio/evaluation-service/internal/domain"
	"github.com/skillzio/evaluation-service/internal/permissions"
	"github.com/skillzio/evaluation-service/internal/repository"
)

type UserService interface {
	CreateUser(ctx context.Context, req permissions.Requester, name, email string) (*domain.User, error)
	GetUser(ctx context.Context, req permissions.Requester, userID string) (*domain.User, error)
	SelectMentor(ctx context.Context, req permissions.Requester, userID, mentorID string) (*domain.User, error)
	SelectLineManager(ctx context.Context, req permissions.Requester, userID, lineManagerID string) (*domain.User, error)
	SelectTemplate(ctx context.Context, req permissions.Requester, userID, templateID string) (*domain.User, error)
}

type UserServiceImpl struct {
	log       *slog.Logger
	users     repository.UserRepository
	templates repository.TemplateRepository
}

func NewUserService(log *slog.Logger, users repository.UserRepository, templates repository.TemplateRepository) *UserServiceImpl {
	return &UserServiceImpl{
		log:       log,
		users:     users,
		templates: templates,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, req permissions.Requester, name, email string) (*domain.User, error) {
	const op = "internal.service.user.CreateUser"
	log := s.log.With(slog.String("op", op), slog.String("email", email))

	if !req.IsAdmin {
		return nil, apperrors.ErrUserNotAdmin
	}

	user, err := s.users.CreateUser(ctx, &domain.User{
		Name:  name,
		Email: email,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	log.Info("user created", slog.String("user_id", user.ID))

	return user, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, req permissions.Requester, userID string) (*domain.User, error) {
	const op = "internal.service.user.GetUser"

	if !req.IsAdmin && req.ID != userID {
		return nil, apperrors.ErrUserNotAdmin
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return user, nil
}

func (s *UserServiceImpl) SelectMentor(ctx context.Context, req permissions.Requester, userID, mentorID string) (*domain.User, error) {
	const op = "internal.service.user.SelectMentor"

	if !req.IsAdmin {
		return nil, apperrors.ErrUserNotAdmin
	}

	if userID == mentorID {
		return nil, apperrors.ErrUserCannotMentorThemselves
	}

	user, err := s.users.SetMentor(ctx, userID, mentorID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to set mentor: %w", op, err)
	}

	return user, nil
}

func (s *UserServiceImpl) SelectLineManager(ctx context.Context, req permissions.Requester, userID, lineManagerID string) (*domain.User, error) {
	const op = "internal.service.user.SelectLineManager"

	if !req.IsAdmin {
		return nil, apperrors.ErrUserNotAdmin
	}

	if userID == lineManagerID {
		return nil, apperrors.ErrUserCannotManageThemselves
	}

	user, err := s.users.SetLineManager(ctx, userID, lineManagerID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to set line manager: %w", op, err)
	}

	return user, nil
}

func (s *UserServiceImpl) SelectTemplate(ctx context.Context, req permissions.Requester, userID, templateID string) (*domain.User, error) {
	const op = "internal.service.user.SelectTemplate"

	if !req.IsAdmin {
		return nil, apperrors.ErrUserNotAdmin
	}

	// Reject dangling references up front; the users table has no foreign
	// key into the template catalog.
	if _, err := s.templates.GetTemplateByID(ctx, templateID); err != nil {
		return nil, fmt.Errorf("%s: failed to get template: %w", op, err)
	}

	user, err := s.users.SetTemplate(ctx, userID, templateID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to set template: %w", op, err)
	}

	return user, nil
}
