package service

import (
	"context"
	"testing"

	"github.com/skillzio/evaluation-service/internal/apperrors"
	"github.com/skillzio/evaluation-service/internal/domain"
	"github.com/skillzio/evaluation-service/internal/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newActionService() (*ActionServiceImpl, *ActionRepositoryMock, *UserRepositoryMock) {
	actions := new(ActionRepositoryMock)
	users := new(UserRepositoryMock)

	return NewActionService(discard, actions, users), actions, users
}

func TestActionServiceImpl_GetTasks(t *testing.T) {
	ctx := context.Background()

	outstanding := []domain.Action{
		{ID: "a1", UserID: "u1", SkillID: 1, EvaluationID: "eval-1", Kind: domain.ActionFeedback},
		{ID: "a2", UserID: "u1", SkillID: 2, EvaluationID: "eval-1", Kind: domain.ActionObjective},
	}

	t.Run("users see their own tasks", func(t *testing.T) {
		svc, actions, users := newActionService()

		actions.On("GetActionsByUserID", ctx, "u1").Return(outstanding, nil)

		tasks, err := svc.GetTasks(ctx, permissions.Requester{ID: "u1"}, "u1")
		require.NoError(t, err)

		require.Len(t, tasks, 2)
		assert.Equal(t, domain.ActionFeedback, tasks[0].Kind)

		users.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})

	t.Run("mentors see their mentee's tasks", func(t *testing.T) {
		svc, actions, users := newActionService()

		users.On("GetUserByID", ctx, "u1").Return(&domain.User{ID: "u1", MentorID: "mentor-1"}, nil)
		actions.On("GetActionsByUserID", ctx, "u1").Return(outstanding, nil)

		tasks, err := svc.GetTasks(ctx, permissions.Requester{ID: "mentor-1"}, "u1")
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("admins see any user's tasks", func(t *testing.T) {
		svc, actions, _ := newActionService()

		actions.On("GetActionsByUserID", ctx, "u1").Return([]domain.Action{}, nil)

		tasks, err := svc.GetTasks(ctx, permissions.Requester{ID: "root", IsAdmin: true}, "u1")
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("unrelated users are rejected", func(t *testing.T) {
		svc, actions, users := newActionService()

		users.On("GetUserByID", ctx, "u1").Return(&domain.User{ID: "u1", MentorID: "mentor-1"}, nil)

		_, err := svc.GetTasks(ctx, permissions.Requester{ID: "stranger"}, "u1")
		require.ErrorIs(t, err, apperrors.ErrOnlyUserAndMentorCanSeeActions)

		actions.AssertNotCalled(t, "GetActionsByUserID", mock.Anything, mock.Anything)
	})
}
