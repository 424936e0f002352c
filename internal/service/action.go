package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skillzio/evaluation-service/internal/apperrors"
	"github.com/skillzio/evaluation-service/internal/permissions"
	"github.com/skillzio/evaluation-service/internal/repository"
	"github.com/skillzio/evaluation-service/internal/viewmodel"
)

type ActionService interface {
	GetTasks(ctx context.Context, req permissions.Requester, userID string) ([]viewmodel.TaskView, error)
}

type ActionServiceImpl struct {
	log     *slog.Logger
	actions repository.ActionRepository
	users   repository.UserRepository
}

func NewActionService(log *slog.Logger, actions repository.ActionRepository, users repository.UserRepository) *ActionServiceImpl {
	return &ActionServiceImpl{
		log:     log,
		actions: actions,
		users:   users,
	}
}

func (s *ActionServiceImpl) GetTasks(ctx context.Context, req permissions.Requester, userID string) ([]viewmodel.TaskView, error) {
	const op = "internal.service.action.GetTasks"

	if err := s.mayViewTasks(ctx, req, userID); err != nil {
		return nil, err
	}

	actions, err := s.actions.GetActionsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get actions: %w", op, err)
	}

	return viewmodel.Tasks(actions), nil
}

func (s *ActionServiceImpl) mayViewTasks(ctx context.Context, req permissions.Requester, userID string) error {
	if req.IsAdmin || req.ID == userID {
		return nil
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.MentorID == req.ID {
		return nil
	}

	return apperrors.ErrOnlyUserAndMentorCanSeeActions
}
