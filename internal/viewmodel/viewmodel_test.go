package viewmodel

import (
	"testing"
	"time"

	"github.com/skillzio/evaluation-service/internal/apperrors"
	"github.com/skillzio/evaluation-service/internal/domain"
	"github.com/skillzio/evaluation-service/internal/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureEvaluation(status domain.EvaluationStatus) *domain.Evaluation {
	return &domain.Evaluation{
		ID: "eval-1",
		Subject: domain.SubjectRef{
			ID:            "subject-1",
			Name:          "Alice",
			Email:         "alice@example.com",
			MentorID:      "mentor-1",
			LineManagerID: "manager-1",
		},
		Template: domain.TemplateRef{ID: "template-1", Name: "Engineer"},
		Status:   status,
		SkillGroups: []domain.SkillGroup{
			{
				ID: 1, Category: "Technical", Level: "Novice",
				Skills: []domain.Skill{
					{ID: 1, NoteIDs: []string{"note-subject", "note-mentor", "note-gone"}},
				},
			},
		},
	}
}

func fixtureNotes() []domain.Note {
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	return []domain.Note{
		{ID: "note-subject", UserID: "subject-1", SkillID: 1, Note: "my note", CreatedAt: createdAt},
		{ID: "note-mentor", UserID: "mentor-1", SkillID: 1, Note: "mentor note", CreatedAt: createdAt},
		{ID: "note-gone", UserID: "subject-1", SkillID: 1, Note: "deleted", CreatedAt: createdAt, Deleted: true},
	}
}

func fixtureUsers() []domain.User {
	return []domain.User{
		{ID: "subject-1", Name: "Alice", Email: "alice@example.com"},
		{ID: "mentor-1", Name: "Bob", Email: "bob@example.com"},
		{ID: "manager-1", Name: "Carol", Email: "carol@example.com"},
	}
}

func TestBuild_ViewSelection(t *testing.T) {
	testCases := []struct {
		name         string
		requester    permissions.Requester
		expectedView View
	}{
		{"subject", permissions.Requester{ID: "subject-1"}, ViewSubject},
		{"mentor", permissions.Requester{ID: "mentor-1"}, ViewMentor},
		{"line manager", permissions.Requester{ID: "manager-1"}, ViewLineManager},
		{"admin without a role", permissions.Requester{ID: "other", IsAdmin: true}, ViewAdmin},
		{"subject who is also admin keeps the subject view", permissions.Requester{ID: "subject-1", IsAdmin: true}, ViewSubject},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			view, err := Build(fixtureEvaluation(domain.StatusNew), fixtureNotes(), fixtureUsers(), tc.requester)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedView, view.View)
		})
	}
}

func TestBuild_CombinedRoleView(t *testing.T) {
	eval := fixtureEvaluation(domain.StatusNew)
	eval.Subject.LineManagerID = "mentor-1"

	view, err := Build(eval, nil, nil, permissions.Requester{ID: "mentor-1"})
	require.NoError(t, err)
	assert.Equal(t, ViewLineManagerAndMentor, view.View)
}

func TestBuild_StrangerRejected(t *testing.T) {
	_, err := Build(fixtureEvaluation(domain.StatusNew), nil, nil, permissions.Requester{ID: "other"})
	require.ErrorIs(t, err, apperrors.ErrMustBeSubjectOrMentor)
}

func TestBuild_Normalization(t *testing.T) {
	view, err := Build(fixtureEvaluation(domain.StatusMentorReviewComplete), fixtureNotes(), fixtureUsers(), permissions.Requester{ID: "subject-1"})
	require.NoError(t, err)

	// Tombstoned notes disappear from both the map and the skill references.
	assert.NotContains(t, view.Notes, "note-gone")
	assert.ElementsMatch(t, []string{"note-subject", "note-mentor"}, view.SkillGroups[0].Skills[0].NoteIDs)

	// Every referenced user resolves.
	for _, id := range []string{"subject-1", "mentor-1", "manager-1"} {
		assert.Contains(t, view.Users, id)
	}
}

func TestBuild_LineManagerNoteSuppression(t *testing.T) {
	t.Run("mentor notes hidden before mentor review completes", func(t *testing.T) {
		view, err := Build(fixtureEvaluation(domain.StatusSelfEvaluationComplete), fixtureNotes(), fixtureUsers(), permissions.Requester{ID: "manager-1"})
		require.NoError(t, err)

		assert.NotContains(t, view.Notes, "note-mentor")
		assert.Contains(t, view.Notes, "note-subject")
		assert.Equal(t, []string{"note-subject"}, view.SkillGroups[0].Skills[0].NoteIDs)
	})

	t.Run("mentor notes visible after mentor review completes", func(t *testing.T) {
		view, err := Build(fixtureEvaluation(domain.StatusMentorReviewComplete), fixtureNotes(), fixtureUsers(), permissions.Requester{ID: "manager-1"})
		require.NoError(t, err)

		assert.Contains(t, view.Notes, "note-mentor")
	})

	t.Run("combined role always sees mentor notes", func(t *testing.T) {
		eval := fixtureEvaluation(domain.StatusSelfEvaluationComplete)
		eval.Subject.LineManagerID = "mentor-1"

		view, err := Build(eval, fixtureNotes(), fixtureUsers(), permissions.Requester{ID: "mentor-1"})
		require.NoError(t, err)

		assert.Contains(t, view.Notes, "note-mentor")
	})
}

func TestTasks(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tasks := Tasks([]domain.Action{
		{ID: "a1", UserID: "subject-1", SkillID: 1, EvaluationID: "eval-1", Kind: domain.ActionFeedback, CreatedAt: createdAt},
		{ID: "a2", UserID: "subject-1", SkillID: 2, EvaluationID: "eval-1", Kind: domain.ActionObjective, CreatedAt: createdAt},
	})

	require.Len(t, tasks, 2)
	assert.Equal(t, domain.ActionFeedback, tasks[0].Kind)
	assert.Equal(t, "eval-1", tasks[1].EvaluationID)

	assert.Empty(t, Tasks(nil))
}
