// package permissions computes the capability set of a requester against an
// evaluation. Every check fails closed: a capability not explicitly granted
// is denied.
package permissions

import (
	"context"
	"log/slog"

	"github.com/skillzio/evaluation-service/internal/apperrors"
	"github.com/skillzio/evaluation-service/internal/domain"
)

// Requester is the authenticated identity attempting an operation.
type Requester struct {
	ID      string
	IsAdmin bool
}

// ClassifyRole determines the requester's role relative to the subject of an
// evaluation. Precedence matters: a user who is both mentor and line manager
// must match the combined role before either plain reviewer role is tested.
func ClassifyRole(requesterID string, subject domain.SubjectRef) domain.Role {
	switch {
	case requesterID == "":
		return domain.RoleNone
	case requesterID == subject.ID:
		return domain.RoleSubject
	case requesterID == subject.MentorID && requesterID == subject.LineManagerID:
		return domain.RoleMentorAndLineManager
	case requesterID == subject.MentorID:
		return domain.RoleMentor
	case requesterID == subject.LineManagerID:
		return domain.RoleLineManager
	}

	return domain.RoleNone
}

// Permissions is the resolved capability set for one request. It is computed
// once and passed to every downstream decision instead of re-deriving role
// booleans at each call site.
type Permissions struct {
	Role    domain.Role
	IsAdmin bool

	status domain.EvaluationStatus
	log    *slog.Logger
}

// Resolve classifies the requester against the evaluation and returns the
// capability set. The logger receives one audit record per resolution.
func Resolve(ctx context.Context, log *slog.Logger, req Requester, eval *domain.Evaluation) Permissions {
	role := ClassifyRole(req.ID, eval.Subject)

	log.DebugContext(ctx, "resolved permissions",
		slog.String("requester_id", req.ID),
		slog.String("evaluation_id", eval.ID),
		slog.String("role", role.String()),
		slog.Bool("is_admin", req.IsAdmin),
	)

	return Permissions{
		Role:    role,
		IsAdmin: req.IsAdmin,
		status:  eval.Status,
		log:     log,
	}
}

// ViewEvaluation is granted to the subject, their reviewers and admins.
func (p Permissions) ViewEvaluation() error {
	if p.Role != domain.RoleNone || p.IsAdmin {
		return nil
	}

	return apperrors.ErrMustBeSubjectOrMentor
}

// UpdateSkill is granted to the role whose review stage is currently open.
func (p Permissions) UpdateSkill() error {
	return domain.EligibleToUpdate(p.Role, p.status)
}

// CompleteEvaluation shares the status gating of UpdateSkill, applied to the
// role closing out its stage.
func (p Permissions) CompleteEvaluation() error {
	return domain.EligibleToUpdate(p.Role, p.status)
}

// AddNote is granted to anyone who may currently view the evaluation as a
// participant; it is not gated by lifecycle status.
func (p Permissions) AddNote() error {
	if p.Role != domain.RoleNone {
		return nil
	}

	return apperrors.ErrMustBeSubjectOrMentor
}

// Admin bypasses role and status gating entirely.
func (p Permissions) Admin() error {
	if p.IsAdmin {
		return nil
	}

	return apperrors.ErrUserNotAdmin
}
