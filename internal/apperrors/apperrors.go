// package apperrors defines the error taxonomy shared by the domain,
// service and transport layers. Domain rule violations are returned as
// values so callers can branch on the kind with errors.Is and map it to a
// deterministic HTTP status.
package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. Every user-facing error wraps exactly one of these.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("operation forbidden")
	ErrInvalidTransition = errors.New("invalid evaluation transition")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("resource already exists")

	ErrInvalidRequest = errors.New("invalid request body")
)

// Error is a domain error with a stable user-facing message and a kind that
// the transport layer maps to an HTTP status.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string        { return e.message }
func (e *Error) Is(target error) bool { return target == e.kind }

func newErr(kind error, msg string) *Error {
	return &Error{kind: kind, message: msg}
}

var (
	ErrEvaluationNotFound = newErr(ErrNotFound, "Evaluation not found")
	ErrSkillNotFound      = newErr(ErrNotFound, "Skill not found")
	ErrNoteNotFound       = newErr(ErrNotFound, "Note not found")
	ErrUserNotFound       = newErr(ErrNotFound, "User not found")
	ErrTemplateNotFound   = newErr(ErrNotFound, "Template not found")

	ErrMustBeSubjectOrMentor = newErr(ErrForbidden,
		"Only the person being evaluated and their mentor can view an evaluation")
	ErrSubjectCanOnlyUpdateNewEvaluation = newErr(ErrForbidden,
		"You can't make any changes to this evaluation.")
	ErrMentorCanOnlyUpdateAfterSelfEvaluation = newErr(ErrForbidden,
		"You can't update this evaluation until your mentee has completed their self-evaluation.")
	ErrEvaluationReviewComplete = newErr(ErrForbidden,
		"This evaluation has been reviewed and is now complete.")
	ErrUserNotAdmin = newErr(ErrForbidden,
		"You must be an admin user to make this request")
	ErrMustBeNoteAuthor = newErr(ErrForbidden,
		"Must be the author of the note to delete it")
	ErrOnlyUserAndMentorCanSeeActions = newErr(ErrForbidden,
		"You can't see actions for another user unless you are their mentor.")

	ErrUserCannotMentorThemselves = newErr(ErrValidation,
		"A user cannot be their own mentor")
	ErrUserCannotManageThemselves = newErr(ErrValidation,
		"A user cannot be their own line manager")

	ErrStatusNotAdvanceable = newErr(ErrInvalidTransition,
		"Evaluation status cannot be advanced from its current state")
)

// UserExistsError is returned when a user with the same email already exists.
type UserExistsError struct{ Email string }

func (e *UserExistsError) Error() string {
	return fmt.Sprintf("User with email '%s' already exists", e.Email)
}
func (e *UserExistsError) Is(target error) bool { return target == ErrConflict }

// InvalidStatusError is returned when a status string is outside the enum domain.
type InvalidStatusError struct{ Status string }

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("Status '%s' is not a valid status", e.Status)
}
func (e *InvalidStatusError) Is(target error) bool { return target == ErrValidation }

// UserHasNoTemplateError is returned when an evaluation is started for a user
// without a selected template.
type UserHasNoTemplateError struct{ Name string }

func (e *UserHasNoTemplateError) Error() string {
	return fmt.Sprintf("User '%s' has not had a template selected", e.Name)
}
func (e *UserHasNoTemplateError) Is(target error) bool { return target == ErrValidation }

// UserHasNoMentorError is returned when an evaluation is started for a user
// without an assigned mentor.
type UserHasNoMentorError struct{ Name string }

func (e *UserHasNoMentorError) Error() string {
	return fmt.Sprintf("User '%s' has not had a mentor selected", e.Name)
}
func (e *UserHasNoMentorError) Is(target error) bool { return target == ErrValidation }
