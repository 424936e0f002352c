package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/skillzio/evaluation-service/internal/actions"
	"github.com/skillzio/evaluation-service/internal/apperrors"
	"github.com/skillzio/evaluation-service/internal/domain"
	"github.com/skillzio/evaluation-service/internal/notify"
	"github.com/skillzio/evaluation-service/internal/permissions"
	"github.com/skillzio/evaluation-service/internal/repository"
	"github.com/skillzio/evaluation-service/internal/viewmodel"
	"github.com/skillzio/evaluation-service/pkg/logger/sl"
)

type EvaluationService interface {
	GetEvaluation(ctx context.Context, req permissions.Requester, evaluationID string) (*viewmodel.Evaluation, error)
	GetUserEvaluations(ctx context.Context, req permissions.Requester, userID string) ([]viewmodel.Metadata, error)
	StartEvaluation(ctx context.Context, req permissions.Requester, userID string) (*viewmodel.Evaluation, error)
	UpdateSkillStatus(ctx context.Context, req permissions.Requester, evaluationID string, skillID int, status domain.StatusValue) error
	AdminUpdateSkillStatus(ctx context.Context, req permissions.Requester, evaluationID string, skillID int, status domain.StatusValue) error
	Complete(ctx context.Context, req permissions.Requester, evaluationID string) (*viewmodel.Metadata, error)
	UpdateEvaluationStatus(ctx context.Context, req permissions.Requester, evaluationID string, status domain.EvaluationStatus) (*viewmodel.Metadata, error)
	AddNote(ctx context.Context, req permissions.Requester, evaluationID string, skillID int, text string) (*viewmodel.NoteView, error)
	DeleteNote(ctx context.Context, req permissions.Requester, evaluationID string, skillID int, noteID string) error
}

type EvaluationServiceImpl struct {
	BaseService
	evaluations repository.EvaluationRepository
	users       repository.UserRepository
	notes       repository.NoteRepository
	actions     repository.ActionRepository
	templates   repository.TemplateRepository
	publisher   notify.Publisher
}

func NewEvaluationService(
	db Transactor,
	log *slog.Logger,
	evaluations repository.EvaluationRepository,
	users repository.UserRepository,
	notes repository.NoteRepository,
	actionsRepo repository.ActionRepository,
	templates repository.TemplateRepository,
	publisher notify.Publisher,
) *EvaluationServiceImpl {
	return &EvaluationServiceImpl{
		BaseService: NewBaseService(db, log),
		evaluations: evaluations,
		users:       users,
		notes:       notes,
		actions:     actionsRepo,
		templates:   templates,
		publisher:   publisher,
	}
}

func (s *EvaluationServiceImpl) GetEvaluation(ctx context.Context, req permissions.Requester, evaluationID string) (*viewmodel.Evaluation, error) {
	const op = "internal.service.evaluation.GetEvaluation"

	eval, err := s.evaluations.GetEvaluationByID(ctx, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get evaluation: %w", op, err)
	}

	perms := permissions.Resolve(ctx, s.log, req, eval)
	if err := perms.ViewEvaluation(); err != nil {
		return nil, err
	}

	notes, err := s.notes.GetNotes(ctx, collectNoteIDs(eval))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get notes: %w", op, err)
	}

	users, err := s.users.GetUsersByID(ctx, collectUserIDs(eval, notes))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get users: %w", op, err)
	}

	return viewmodel.Build(eval, notes, users, req)
}

func (s *EvaluationServiceImpl) GetUserEvaluations(ctx context.Context, req permissions.Requester, userID string) ([]viewmodel.Metadata, error) {
	const op = "internal.service.evaluation.GetUserEvaluations"

	if err := s.mayViewUserRecords(ctx, req, userID); err != nil {
		return nil, err
	}

	evaluations, err := s.evaluations.GetEvaluationsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get evaluations: %w", op, err)
	}

	result := make([]viewmodel.Metadata, len(evaluations))
	for i := range evaluations {
		result[i] = viewmodel.Metadata{Status: evaluations[i].Status}
	}

	return result, nil
}

// mayViewUserRecords allows a user, their mentor, or an admin to see
// records attached to the user rather than to a single evaluation.
func (s *EvaluationServiceImpl) mayViewUserRecords(ctx context.Context, req permissions.Requester, userID string) error {
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

func (s *EvaluationServiceImpl) StartEvaluation(ctx context.Context, req permissions.Requester, userID string) (*viewmodel.Evaluation, error) {
	const op = "internal.service.evaluation.StartEvaluation"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))

	if !req.IsAdmin {
		return nil, apperrors.ErrUserNotAdmin
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if user.TemplateID == "" {
		return nil, &apperrors.UserHasNoTemplateError{Name: user.Name}
	}
	if user.MentorID == "" {
		return nil, &apperrors.UserHasNoMentorError{Name: user.Name}
	}

	template, err := s.templates.GetTemplateByID(ctx, user.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get template: %w", op, err)
	}

	eval, err := s.evaluations.CreateEvaluation(ctx, newEvaluation(user, template))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create evaluation: %w", op, err)
	}

	log.Info("evaluation started", slog.String("evaluation_id", eval.ID))

	users, err := s.users.GetUsersByID(ctx, collectUserIDs(eval, nil))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get users: %w", op, err)
	}

	return viewmodel.Build(eval, nil, users, req)
}

// newEvaluation stamps out a fresh evaluation: the template and the
// subject's reviewer ids are frozen at this moment, and every skill starts
// unset.
func newEvaluation(user *domain.User, template *domain.Template) *domain.Evaluation {
	groups := make([]domain.SkillGroup, len(template.SkillGroups))
	for gi, group := range template.SkillGroups {
		groups[gi] = domain.SkillGroup{
			ID:       group.ID,
			Category: group.Category,
			Level:    group.Level,
			Skills:   make([]domain.Skill, len(group.Skills)),
		}
		for si, skill := range group.Skills {
			groups[gi].Skills[si] = domain.Skill{
				ID:      skill.ID,
				NoteIDs: []string{},
			}
		}
	}

	return &domain.Evaluation{
		Subject: domain.SubjectRef{
			ID:            user.ID,
			Name:          user.Name,
			Email:         user.Email,
			MentorID:      user.MentorID,
			LineManagerID: user.LineManagerID,
		},
		Template: domain.TemplateRef{
			ID:   template.ID,
			Name: template.Name,
		},
		Status:      domain.StatusNew,
		SkillGroups: groups,
		CreatedAt:   time.Now().UTC(),
	}
}

func (s *EvaluationServiceImpl) UpdateSkillStatus(ctx context.Context, req permissions.Requester, evaluationID string, skillID int, status domain.StatusValue) error {
	const op = "internal.service.evaluation.UpdateSkillStatus"

	return s.applySkillChange(ctx, op, req, evaluationID, skillID, status, false)
}

func (s *EvaluationServiceImpl) AdminUpdateSkillStatus(ctx context.Context, req permissions.Requester, evaluationID string, skillID int, status domain.StatusValue) error {
	const op = "internal.service.evaluation.AdminUpdateSkillStatus"

	return s.applySkillChange(ctx, op, req, evaluationID, skillID, status, true)
}

func (s *EvaluationServiceImpl) applySkillChange(ctx context.Context, op string, req permissions.Requester, evaluationID string, skillID int, status domain.StatusValue, asAdmin bool) error {
	log := s.log.With(
		slog.String("op", op),
		slog.String("evaluation_id", evaluationID),
		slog.Int("skill_id", skillID),
	)

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		eval, err := s.evaluations.GetEvaluationByIDWithLock(ctx, tx, evaluationID)
		if err != nil {
			return fmt.Errorf("%s: failed to get evaluation with lock: %w", op, err)
		}

		perms := permissions.Resolve(ctx, s.log, req, eval)

		skill := eval.FindSkill(skillID)
		if skill == nil {
			return apperrors.ErrSkillNotFound
		}
		oldStatus := skill.Status.Current

		var update *domain.SkillUpdate
		if asAdmin {
			if err := perms.Admin(); err != nil {
				return err
			}

			update, err = eval.AdminUpdateSkill(skillID, status)
		} else {
			if err := perms.UpdateSkill(); err != nil {
				return err
			}

			update, err = eval.UpdateSkill(skillID, status, perms.Role)
		}
		if err != nil {
			return err
		}

		if err := s.evaluations.ApplySkillUpdate(ctx, tx, update); err != nil {
			return fmt.Errorf("%s: failed to apply skill update: %w", op, err)
		}

		return s.applyActionChanges(ctx, tx,
			actions.Dispatch(oldStatus, status, eval.Subject.ID, skillID, eval.ID))
	})
	if err != nil {
		return err
	}

	log.Info("skill status updated", slog.String("status", string(status)))

	return nil
}

func (s *EvaluationServiceImpl) applyActionChanges(ctx context.Context, tx *sqlx.Tx, changes actions.Changes) error {
	if changes.Add != nil {
		if err := s.actions.AddAction(ctx, tx, changes.Add); err != nil {
			return fmt.Errorf("failed to add action: %w", err)
		}
	}

	if changes.Remove != nil {
		if err := s.actions.RemoveAction(ctx, tx, *changes.Remove); err != nil {
			return fmt.Errorf("failed to remove action: %w", err)
		}
	}

	return nil
}

func (s *EvaluationServiceImpl) Complete(ctx context.Context, req permissions.Requester, evaluationID string) (*viewmodel.Metadata, error) {
	const op = "internal.service.evaluation.Complete"
	log := s.log.With(slog.String("op", op), slog.String("evaluation_id", evaluationID))

	var (
		update *domain.StatusUpdate
		role   domain.Role
	)

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		eval, err := s.evaluations.GetEvaluationByIDWithLock(ctx, tx, evaluationID)
		if err != nil {
			return fmt.Errorf("%s: failed to get evaluation with lock: %w", op, err)
		}

		perms := permissions.Resolve(ctx, s.log, req, eval)
		if err := perms.CompleteEvaluation(); err != nil {
			return err
		}

		role = perms.Role

		update, err = eval.MoveToNextStatus(role)
		if err != nil {
			return err
		}

		if err := s.evaluations.ApplyStatusUpdate(ctx, tx, update); err != nil {
			return fmt.Errorf("%s: failed to apply status update: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("evaluation status advanced", slog.String("status", string(update.Status)))

	s.notifyCompletion(ctx, role, update)

	return &viewmodel.Metadata{Status: update.Status}, nil
}

// notifyCompletion enqueues the follow-up email for a lifecycle transition.
// Failures are logged and swallowed: notification delivery must never fail
// the request that caused it.
func (s *EvaluationServiceImpl) notifyCompletion(ctx context.Context, role domain.Role, update *domain.StatusUpdate) {
	var (
		recipientID string
		job         func(recipient *domain.User) notify.EmailJob
	)

	switch role {
	case domain.RoleSubject:
		recipientID = update.Subject.MentorID
		job = func(recipient *domain.User) notify.EmailJob {
			return notify.SelfEvaluationComplete(update.Subject.Name, recipient.Email)
		}
	case domain.RoleMentor:
		recipientID = update.Subject.LineManagerID
		job = func(recipient *domain.User) notify.EmailJob {
			return notify.MentorReviewComplete(update.Subject.Name, recipient.Email)
		}
	default:
		// The combined role closes the chain and the line manager is last:
		// neither has anyone left to notify.
		return
	}

	if recipientID == "" {
		return
	}

	recipient, err := s.users.GetUserByID(ctx, recipientID)
	if err != nil {
		s.log.Error("failed to look up notification recipient", sl.Err(err))
		return
	}

	if err := s.publisher.PublishEmail(ctx, job(recipient)); err != nil {
		s.log.Error("failed to publish notification", sl.Err(err))
	}
}

func (s *EvaluationServiceImpl) UpdateEvaluationStatus(ctx context.Context, req permissions.Requester, evaluationID string, status domain.EvaluationStatus) (*viewmodel.Metadata, error) {
	const op = "internal.service.evaluation.UpdateEvaluationStatus"

	var update *domain.StatusUpdate

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		eval, err := s.evaluations.GetEvaluationByIDWithLock(ctx, tx, evaluationID)
		if err != nil {
			return fmt.Errorf("%s: failed to get evaluation with lock: %w", op, err)
		}

		perms := permissions.Resolve(ctx, s.log, req, eval)
		if err := perms.Admin(); err != nil {
			return err
		}

		update, err = eval.SetStatus(status)
		if err != nil {
			return err
		}

		if err := s.evaluations.ApplyStatusUpdate(ctx, tx, update); err != nil {
			return fmt.Errorf("%s: failed to apply status update: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &viewmodel.Metadata{Status: update.Status}, nil
}

func (s *EvaluationServiceImpl) AddNote(ctx context.Context, req permissions.Requester, evaluationID string, skillID int, text string) (*viewmodel.NoteView, error) {
	const op = "internal.service.evaluation.AddNote"

	eval, err := s.evaluations.GetEvaluationByID(ctx, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get evaluation: %w", op, err)
	}

	perms := permissions.Resolve(ctx, s.log, req, eval)
	if err := perms.AddNote(); err != nil {
		return nil, err
	}

	if eval.FindSkill(skillID) == nil {
		return nil, apperrors.ErrSkillNotFound
	}

	note, err := s.notes.AddNote(ctx, req.ID, skillID, text)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to add note: %w", op, err)
	}

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		locked, err := s.evaluations.GetEvaluationByIDWithLock(ctx, tx, evaluationID)
		if err != nil {
			return fmt.Errorf("%s: failed to get evaluation with lock: %w", op, err)
		}

		update, err := locked.AddSkillNote(skillID, note.ID)
		if err != nil {
			return err
		}

		if err := s.evaluations.ApplySkillNotesUpdate(ctx, tx, update); err != nil {
			return fmt.Errorf("%s: failed to apply notes update: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	noteView := viewmodel.NoteAdded(note)

	return &noteView, nil
}

func (s *EvaluationServiceImpl) DeleteNote(ctx context.Context, req permissions.Requester, evaluationID string, skillID int, noteID string) error {
	const op = "internal.service.evaluation.DeleteNote"

	note, err := s.notes.GetNote(ctx, noteID)
	if err != nil {
		return fmt.Errorf("%s: failed to get note: %w", op, err)
	}

	// Deletion is author-only; this sits outside the evaluation permission
	// model on purpose.
	if note.UserID != req.ID {
		return apperrors.ErrMustBeNoteAuthor
	}

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		eval, err := s.evaluations.GetEvaluationByIDWithLock(ctx, tx, evaluationID)
		if err != nil {
			return fmt.Errorf("%s: failed to get evaluation with lock: %w", op, err)
		}

		update, err := eval.DeleteSkillNote(skillID, noteID)
		if err != nil {
			return err
		}

		if err := s.evaluations.ApplySkillNotesUpdate(ctx, tx, update); err != nil {
			return fmt.Errorf("%s: failed to apply notes update: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := s.notes.SetDeleted(ctx, noteID); err != nil {
		return fmt.Errorf("%s: failed to tombstone note: %w", op, err)
	}

	return nil
}

func collectNoteIDs(eval *domain.Evaluation) []string {
	var ids []string
	for _, group := range eval.SkillGroups {
		for _, skill := range group.Skills {
			ids = append(ids, skill.NoteIDs...)
		}
	}

	return ids
}

func collectUserIDs(eval *domain.Evaluation, notes []domain.Note) []string {
	seen := make(map[string]struct{})
	var ids []string

	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	add(eval.Subject.ID)
	add(eval.Subject.MentorID)
	add(eval.Subject.LineManagerID)

	for _, note := range notes {
		add(note.UserID)
	}

	return ids
}
