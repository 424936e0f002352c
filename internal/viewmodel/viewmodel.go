// package viewmodel projects a hydrated evaluation into the role-specific
// shape a requester is allowed to see. Shape selection reuses the permission
// resolver's role precedence; field suppression is local to each shape.
package viewmodel

import (
	"time"

	"github.com/skillzio/evaluation-service/internal/apperrors"
	"github.com/skillzio/evaluation-service/internal/domain"
	"github.com/skillzio/evaluation-service/internal/permissions"
)

// View names the shape that was selected for the requester.
type View string

const (
	ViewSubject              View = "subject"
	ViewMentor               View = "mentor"
	ViewLineManager          View = "lineManager"
	ViewLineManagerAndMentor View = "lineManagerAndMentor"
	ViewAdmin                View = "admin"
)

// UserSummary is the normalized form of a referenced user.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NoteView is the normalized form of a note. Tombstoned notes never appear
// in a view.
type NoteView struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SkillID     int       `json:"skillId"`
	Note        string    `json:"note"`
	CreatedDate time.Time `json:"createdDate"`
}

// Evaluation is the aggregate view returned by the retrieve endpoint. Users
// and Notes are normalized id -> value maps: every id referenced anywhere in
// SkillGroups has an entry, and nested duplicates never occur.
type Evaluation struct {
	ID          string                  `json:"id"`
	Subject     domain.SubjectRef       `json:"user"`
	Template    domain.TemplateRef      `json:"template"`
	Status      domain.EvaluationStatus `json:"status"`
	View        View                    `json:"view"`
	SkillGroups []domain.SkillGroup     `json:"skillGroups"`
	Users       map[string]UserSummary  `json:"users"`
	Notes       map[string]NoteView     `json:"notes"`
}

// Metadata is the minimal view returned after a lifecycle transition.
type Metadata struct {
	Status domain.EvaluationStatus `json:"status"`
}

// Build selects the view shape for the requester and assembles the
// normalized aggregate. A requester with no role and no admin flag gets
// nothing.
func Build(eval *domain.Evaluation, notes []domain.Note, users []domain.User, req permissions.Requester) (*Evaluation, error) {
	view, err := selectView(req, eval.Subject)
	if err != nil {
		return nil, err
	}

	noteViews := visibleNotes(eval, notes, view)
	groups := filterNoteRefs(eval.SkillGroups, noteViews)

	return &Evaluation{
		ID:          eval.ID,
		Subject:     eval.Subject,
		Template:    eval.Template,
		Status:      eval.Status,
		View:        view,
		SkillGroups: groups,
		Users:       normalizeUsers(users),
		Notes:       noteViews,
	}, nil
}

func selectView(req permissions.Requester, subject domain.SubjectRef) (View, error) {
	switch permissions.ClassifyRole(req.ID, subject) {
	case domain.RoleSubject:
		return ViewSubject, nil
	case domain.RoleMentorAndLineManager:
		return ViewLineManagerAndMentor, nil
	case domain.RoleMentor:
		return ViewMentor, nil
	case domain.RoleLineManager:
		return ViewLineManager, nil
	}

	if req.IsAdmin {
		return ViewAdmin, nil
	}

	return "", apperrors.ErrMustBeSubjectOrMentor
}

// visibleNotes normalizes the note set for the selected view. Deleted notes
// are always dropped. The plain line-manager view hides mentor-authored
// notes until the mentor review is complete.
func visibleNotes(eval *domain.Evaluation, notes []domain.Note, view View) map[string]NoteView {
	hideMentorNotes := view == ViewLineManager &&
		(eval.Status == domain.StatusNew || eval.Status == domain.StatusSelfEvaluationComplete)

	result := make(map[string]NoteView, len(notes))
	for _, n := range notes {
		if n.Deleted {
			continue
		}

		if hideMentorNotes && n.UserID == eval.Subject.MentorID {
			continue
		}

		result[n.ID] = NoteView{
			ID:          n.ID,
			UserID:      n.UserID,
			SkillID:     n.SkillID,
			Note:        n.Note,
			CreatedDate: n.CreatedAt,
		}
	}

	return result
}

// filterNoteRefs copies the skill groups, keeping only note ids that resolve
// in the normalized note map. Historical references to tombstoned or hidden
// notes disappear from the view instead of dangling.
func filterNoteRefs(groups []domain.SkillGroup, notes map[string]NoteView) []domain.SkillGroup {
	result := make([]domain.SkillGroup, len(groups))
	for gi, group := range groups {
		result[gi] = group
		result[gi].Skills = make([]domain.Skill, len(group.Skills))

		for si, skill := range group.Skills {
			kept := make([]string, 0, len(skill.NoteIDs))
			for _, id := range skill.NoteIDs {
				if _, ok := notes[id]; ok {
					kept = append(kept, id)
				}
			}

			result[gi].Skills[si] = skill
			result[gi].Skills[si].NoteIDs = kept
		}
	}

	return result
}

func normalizeUsers(users []domain.User) map[string]UserSummary {
	result := make(map[string]UserSummary, len(users))
	for _, u := range users {
		result[u.ID] = UserSummary{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
		}
	}

	return result
}

// NoteAdded is the view of a freshly attached note, returned by the add-note
// endpoint.
func NoteAdded(n *domain.Note) NoteView {
	return NoteView{
		ID:          n.ID,
		UserID:      n.UserID,
		SkillID:     n.SkillID,
		Note:        n.Note,
		CreatedDate: n.CreatedAt,
	}
}

// TaskView is one outstanding action shown on a user's task list.
type TaskView struct {
	ID           string            `json:"id"`
	UserID       string            `json:"userId"`
	SkillID      int               `json:"skillId"`
	EvaluationID string            `json:"evaluationId"`
	Kind         domain.ActionKind `json:"type"`
	CreatedDate  time.Time         `json:"createdDate"`
}

// Tasks converts outstanding actions into the task-list view.
func Tasks(actions []domain.Action) []TaskView {
	tasks := make([]TaskView, len(actions))
	for i, a := range actions {
		tasks[i] = TaskView{
			ID:           a.ID,
			UserID:       a.UserID,
			SkillID:      a.SkillID,
			EvaluationID: a.EvaluationID,
			Kind:         a.Kind,
			CreatedDate:  a.CreatedAt,
		}
	}

	return tasks
}
