// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the
// service layer: they are the Loader/Persister contracts the evaluation core
// consumes.
package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/skillzio/evaluation-service/internal/domain"
)

// EvaluationRepository persists the evaluation aggregate. Mutations are
// expressed as the minimal diffs produced by the state machine; the
// implementation must write only the described path, never overwrite
// sibling skills or groups edited concurrently.
type EvaluationRepository interface {
	// GetEvaluationByID retrieves an evaluation by its id.
	// It returns apperrors.ErrNotFound if the evaluation does not exist.
	GetEvaluationByID(ctx context.Context, id string) (*domain.Evaluation, error)

	// GetEvaluationByIDWithLock retrieves an evaluation and acquires a
	// row-level lock ("FOR UPDATE") so concurrent mutations of the same
	// evaluation serialize at the persistence boundary.
	GetEvaluationByIDWithLock(ctx context.Context, tx *sqlx.Tx, id string) (*domain.Evaluation, error)

	// GetEvaluationsByUserID retrieves all evaluations of one subject.
	GetEvaluationsByUserID(ctx context.Context, userID string) ([]domain.Evaluation, error)

	// CreateEvaluation inserts a new evaluation with its template snapshot
	// and denormalized reviewer ids, returning the stored aggregate.
	CreateEvaluation(ctx context.Context, eval *domain.Evaluation) (*domain.Evaluation, error)

	// ApplySkillUpdate writes the status of the one skill the diff names.
	ApplySkillUpdate(ctx context.Context, tx *sqlx.Tx, update *domain.SkillUpdate) error

	// ApplyStatusUpdate writes the lifecycle status of the evaluation.
	ApplyStatusUpdate(ctx context.Context, tx *sqlx.Tx, update *domain.StatusUpdate) error

	// ApplySkillNotesUpdate writes the note-id set of the one skill the
	// diff names.
	ApplySkillNotesUpdate(ctx context.Context, tx *sqlx.Tx, update *domain.SkillNotesUpdate) error
}

// UserRepository defines the contract for user data operations.
type UserRepository interface {
	// GetUserByID returns apperrors.ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*domain.User, error)

	// GetUserByEmail returns apperrors.ErrNotFound if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetUsersByID retrieves the users for the given ids. Unknown ids are
	// skipped rather than reported.
	GetUsersByID(ctx context.Context, ids []string) ([]domain.User, error)

	// CreateUser inserts a new user. It returns apperrors.UserExistsError
	// if the email is already taken.
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)

	// SetMentor, SetLineManager and SetTemplate update one weak reference
	// on the user, returning the updated record.
	SetMentor(ctx context.Context, userID, mentorID string) (*domain.User, error)
	SetLineManager(ctx context.Context, userID, lineManagerID string) (*domain.User, error)
	SetTemplate(ctx context.Context, userID, templateID string) (*domain.User, error)
}

// NoteRepository owns note content. Notes are soft deleted only.
type NoteRepository interface {
	// AddNote stores a new note and returns it with its assigned id.
	AddNote(ctx context.Context, userID string, skillID int, text string) (*domain.Note, error)

	// GetNote returns apperrors.ErrNotFound if the note does not exist.
	// Tombstoned notes are still returned so historical references resolve.
	GetNote(ctx context.Context, id string) (*domain.Note, error)

	// GetNotes retrieves the notes for the given ids, tombstones included.
	GetNotes(ctx context.Context, ids []string) ([]domain.Note, error)

	// SetDeleted marks a note as deleted. Idempotent.
	SetDeleted(ctx context.Context, id string) error
}

// ActionRepository tracks follow-up items keyed by (user, skill,
// evaluation, kind) so that add and remove are idempotent.
type ActionRepository interface {
	// AddAction upserts an action; adding an existing key is a no-op.
	AddAction(ctx context.Context, tx *sqlx.Tx, action *domain.Action) error

	// RemoveAction deletes the action with the given key; removing a
	// missing key is a no-op.
	RemoveAction(ctx context.Context, tx *sqlx.Tx, key domain.ActionKey) error

	// GetActionsByUserID lists the outstanding actions of one user, newest
	// first.
	GetActionsByUserID(ctx context.Context, userID string) ([]domain.Action, error)
}

// TemplateRepository reads the template catalog used to stamp out
// evaluations.
type TemplateRepository interface {
	// GetTemplateByID returns apperrors.ErrNotFound if the template does
	// not exist.
	GetTemplateByID(ctx context.Context, id string) (*domain.Template, error)
}
