package domain

import "github.com/skillzio/evaluation-service/internal/apperrors"

// SkillUpdate is the minimal diff produced by a skill status change: the
// path of the one mutated skill plus the evaluation id. It never describes
// sibling skills or groups, so the persistence layer can write just that
// path.
type SkillUpdate struct {
	EvaluationID string
	GroupIndex   int
	SkillIndex   int
	SkillID      int
	Status       SkillStatus
}

// StatusUpdate is the diff produced by a lifecycle transition. The subject
// snapshot is carried so the caller can decide which notification to send
// without another lookup.
type StatusUpdate struct {
	EvaluationID string
	Status       EvaluationStatus
	Subject      SubjectRef
}

// SkillNotesUpdate is the diff produced by attaching or detaching a note:
// the full note-id set of the one affected skill.
type SkillNotesUpdate struct {
	EvaluationID string
	GroupIndex   int
	SkillIndex   int
	SkillID      int
	NoteIDs      []string
}

// FindSkill returns the skill with the given id, or nil if the evaluation
// does not contain it.
func (e *Evaluation) FindSkill(skillID int) *Skill {
	_, _, skill := e.locateSkill(skillID)
	return skill
}

func (e *Evaluation) locateSkill(skillID int) (int, int, *Skill) {
	for gi := range e.SkillGroups {
		for si := range e.SkillGroups[gi].Skills {
			if e.SkillGroups[gi].Skills[si].ID == skillID {
				return gi, si, &e.SkillGroups[gi].Skills[si]
			}
		}
	}

	return 0, 0, nil
}

// EligibleToUpdate reports whether a role may mutate the evaluation while it
// is in the given lifecycle status. The permission resolver applies the same
// rule before the state machine runs; the state machine re-checks it so a
// broken caller cannot mutate state it should not.
func EligibleToUpdate(role Role, status EvaluationStatus) error {
	switch role {
	case RoleSubject:
		if status != StatusNew {
			return apperrors.ErrSubjectCanOnlyUpdateNewEvaluation
		}
	case RoleMentor:
		switch status {
		case StatusNew:
			return apperrors.ErrMentorCanOnlyUpdateAfterSelfEvaluation
		case StatusSelfEvaluationComplete:
		default:
			return apperrors.ErrEvaluationReviewComplete
		}
	case RoleMentorAndLineManager:
		switch status {
		case StatusNew:
			return apperrors.ErrMentorCanOnlyUpdateAfterSelfEvaluation
		case StatusSelfEvaluationComplete, StatusMentorReviewComplete:
		default:
			return apperrors.ErrEvaluationReviewComplete
		}
	case RoleLineManager:
		switch status {
		case StatusNew, StatusSelfEvaluationComplete:
			return apperrors.ErrMentorCanOnlyUpdateAfterSelfEvaluation
		case StatusMentorReviewComplete:
		default:
			return apperrors.ErrEvaluationReviewComplete
		}
	default:
		return apperrors.ErrMustBeSubjectOrMentor
	}

	return nil
}

// UpdateSkill shifts the status of one skill: previous becomes the old
// current value, current becomes newStatus. The update is applied only if
// every check passes, so the aggregate never observes a partial write.
func (e *Evaluation) UpdateSkill(skillID int, newStatus StatusValue, role Role) (*SkillUpdate, error) {
	if !newStatus.Valid() {
		return nil, &apperrors.InvalidStatusError{Status: string(newStatus)}
	}

	if err := EligibleToUpdate(role, e.Status); err != nil {
		return nil, err
	}

	return e.applySkillStatus(skillID, newStatus)
}

// AdminUpdateSkill applies a skill status change without role/status gating.
// Structural validation (enum domain, skill existence) still applies.
func (e *Evaluation) AdminUpdateSkill(skillID int, newStatus StatusValue) (*SkillUpdate, error) {
	if !newStatus.Valid() {
		return nil, &apperrors.InvalidStatusError{Status: string(newStatus)}
	}

	return e.applySkillStatus(skillID, newStatus)
}

func (e *Evaluation) applySkillStatus(skillID int, newStatus StatusValue) (*SkillUpdate, error) {
	gi, si, skill := e.locateSkill(skillID)
	if skill == nil {
		return nil, apperrors.ErrSkillNotFound
	}

	skill.Status = SkillStatus{
		Previous: skill.Status.Current,
		Current:  newStatus,
	}

	return &SkillUpdate{
		EvaluationID: e.ID,
		GroupIndex:   gi,
		SkillIndex:   si,
		SkillID:      skillID,
		Status:       skill.Status,
	}, nil
}

// MoveToNextStatus advances the evaluation lifecycle for the given role.
//
//	NEW                      + subject               -> SELF_EVALUATION_COMPLETE
//	SELF_EVALUATION_COMPLETE + mentor                -> MENTOR_REVIEW_COMPLETE
//	SELF_EVALUATION_COMPLETE + mentor & line manager -> LINE_MANAGER_REVIEW_COMPLETE
//	MENTOR_REVIEW_COMPLETE   + line manager          -> LINE_MANAGER_REVIEW_COMPLETE
//
// Any other (status, role) pair is rejected. The combined role collapses the
// mentor and line manager review into a single step.
func (e *Evaluation) MoveToNextStatus(role Role) (*StatusUpdate, error) {
	next, err := nextStatus(e.Status, role)
	if err != nil {
		return nil, err
	}

	e.Status = next

	return &StatusUpdate{
		EvaluationID: e.ID,
		Status:       next,
		Subject:      e.Subject,
	}, nil
}

func nextStatus(current EvaluationStatus, role Role) (EvaluationStatus, error) {
	switch role {
	case RoleSubject:
		if current == StatusNew {
			return StatusSelfEvaluationComplete, nil
		}

		return "", apperrors.ErrSubjectCanOnlyUpdateNewEvaluation
	case RoleMentor:
		switch current {
		case StatusSelfEvaluationComplete:
			return StatusMentorReviewComplete, nil
		case StatusNew:
			return "", apperrors.ErrMentorCanOnlyUpdateAfterSelfEvaluation
		}

		return "", apperrors.ErrEvaluationReviewComplete
	case RoleMentorAndLineManager:
		switch current {
		case StatusSelfEvaluationComplete, StatusMentorReviewComplete:
			return StatusLineManagerReviewComplete, nil
		case StatusNew:
			return "", apperrors.ErrMentorCanOnlyUpdateAfterSelfEvaluation
		}

		return "", apperrors.ErrEvaluationReviewComplete
	case RoleLineManager:
		switch current {
		case StatusMentorReviewComplete:
			return StatusLineManagerReviewComplete, nil
		case StatusNew, StatusSelfEvaluationComplete:
			return "", apperrors.ErrMentorCanOnlyUpdateAfterSelfEvaluation
		}

		return "", apperrors.ErrEvaluationReviewComplete
	}

	return "", apperrors.ErrStatusNotAdvanceable
}

// SetStatus sets the lifecycle status directly, skipping the transition
// table. Admin-only escape hatch; the status must still be a valid enum
// value.
func (e *Evaluation) SetStatus(status EvaluationStatus) (*StatusUpdate, error) {
	if !status.Valid() {
		return nil, &apperrors.InvalidStatusError{Status: string(status)}
	}

	e.Status = status

	return &StatusUpdate{
		EvaluationID: e.ID,
		Status:       status,
		Subject:      e.Subject,
	}, nil
}

// AddSkillNote appends a note id to the skill's note set.
func (e *Evaluation) AddSkillNote(skillID int, noteID string) (*SkillNotesUpdate, error) {
	gi, si, skill := e.locateSkill(skillID)
	if skill == nil {
		return nil, apperrors.ErrSkillNotFound
	}

	skill.NoteIDs = append(skill.NoteIDs, noteID)

	return &SkillNotesUpdate{
		EvaluationID: e.ID,
		GroupIndex:   gi,
		SkillIndex:   si,
		SkillID:      skillID,
		NoteIDs:      skill.NoteIDs,
	}, nil
}

// DeleteSkillNote removes a note id from the skill's note set. Removing an
// id that is not present is a no-op, so the operation is idempotent.
func (e *Evaluation) DeleteSkillNote(skillID int, noteID string) (*SkillNotesUpdate, error) {
	gi, si, skill := e.locateSkill(skillID)
	if skill == nil {
		return nil, apperrors.ErrSkillNotFound
	}

	kept := skill.NoteIDs[:0]
	for _, id := range skill.NoteIDs {
		if id != noteID {
			kept = append(kept, id)
		}
	}
	skill.NoteIDs = kept

	return &SkillNotesUpdate{
		EvaluationID: e.ID,
		GroupIndex:   gi,
		SkillIndex:   si,
		SkillID:      skillID,
		NoteIDs:      skill.NoteIDs,
	}, nil
}
