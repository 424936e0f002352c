// package actions derives tracked follow-up items from skill status
// transitions. The dispatcher is a pure function of the old and new status;
// persistence of the resulting changes belongs to the caller.
package actions

import "github.com/skillzio/evaluation-service/internal/domain"

// Changes describes the action add/remove set produced by one skill status
// transition. Both Add and Remove may be set when a skill moves directly
// between the two action-bearing statuses.
type Changes struct {
	Add    *domain.Action
	Remove *domain.ActionKey
}

func kindFor(status domain.StatusValue) (domain.ActionKind, bool) {
	switch status {
	case domain.FeedbackRequested:
		return domain.ActionFeedback, true
	case domain.Objective:
		return domain.ActionObjective, true
	}

	return "", false
}

// Dispatch computes the action changes for a skill moving from oldStatus to
// newStatus. ATTAINED and NOT_ATTAINED never carry actions; transitioning
// into FEEDBACK_REQUESTED or OBJECTIVE adds one, transitioning out removes
// the one that matched the old status.
func Dispatch(oldStatus, newStatus domain.StatusValue, subjectID string, skillID int, evaluationID string) Changes {
	var changes Changes

	if kind, ok := kindFor(newStatus); ok && newStatus != oldStatus {
		changes.Add = &domain.Action{
			UserID:       subjectID,
			SkillID:      skillID,
			EvaluationID: evaluationID,
			Kind:         kind,
		}
	}

	if kind, ok := kindFor(oldStatus); ok && oldStatus != newStatus {
		changes.Remove = &domain.ActionKey{
			UserID:       subjectID,
			SkillID:      skillID,
			EvaluationID: evaluationID,
			Kind:         kind,
		}
	}

	return changes
}
