// package domain contains the core entities of the skills-matrix service and
// the evaluation state machine that governs them.
package domain

import (
	"encoding/json"
	"time"
)

// StatusValue is the attainment state of a single skill. The zero value means
// the skill has not been evaluated yet and marshals as JSON null.
type StatusValue string

const (
	Attained          StatusValue = "ATTAINED"
	NotAttained       StatusValue = "NOT_ATTAINED"
	FeedbackRequested StatusValue = "FEEDBACK_REQUESTED"
	Objective         StatusValue = "OBJECTIVE"
)

// Valid reports whether the value is inside the enum domain. The empty
// (unset) value is not a valid target for an update.
func (s StatusValue) Valid() bool {
	switch s {
	case Attained, NotAttained, FeedbackRequested, Objective:
		return true
	}

	return false
}

func (s StatusValue) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}

	return json.Marshal(string(s))
}

func (s *StatusValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}

	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	*s = StatusValue(v)

	return nil
}

// EvaluationStatus is the lifecycle stage of an evaluation. The order of the
// constants matches the review chain; the highest status reached is terminal.
type EvaluationStatus string

const (
	StatusNew                       EvaluationStatus = "NEW"
	StatusSelfEvaluationComplete    EvaluationStatus = "SELF_EVALUATION_COMPLETE"
	StatusMentorReviewComplete      EvaluationStatus = "MENTOR_REVIEW_COMPLETE"
	StatusLineManagerReviewComplete EvaluationStatus = "LINE_MANAGER_REVIEW_COMPLETE"
)

func (s EvaluationStatus) Valid() bool {
	switch s {
	case StatusNew, StatusSelfEvaluationComplete, StatusMentorReviewComplete, StatusLineManagerReviewComplete:
		return true
	}

	return false
}

// Role classifies a requester relative to the subject of an evaluation.
// Classification happens once per request; see permissions.ClassifyRole for
// the precedence rules. Admin is an orthogonal flag, not a Role.
type Role int

const (
	RoleNone Role = iota
	RoleSubject
	RoleMentorAndLineManager
	RoleMentor
	RoleLineManager
)

func (r Role) String() string {
	switch r {
	case RoleSubject:
		return "subject"
	case RoleMentorAndLineManager:
		return "lineManagerAndMentor"
	case RoleMentor:
		return "mentor"
	case RoleLineManager:
		return "lineManager"
	}

	return "none"
}

// User is an account in the skills-matrix service. MentorID, LineManagerID
// and TemplateID are weak references and may be empty.
type User struct {
	ID            string `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	Email         string `db:"email" json:"email"`
	IsAdmin       bool   `db:"is_admin" json:"-"`
	MentorID      string `db:"mentor_id" json:"mentorId,omitempty"`
	LineManagerID string `db:"line_manager_id" json:"lineManagerId,omitempty"`
	TemplateID    string `db:"template_id" json:"templateId,omitempty"`
}

// Template is an ordered arrangement of skill groups used to stamp out new
// evaluations. Level/category pairs are unique within a template.
type Template struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Levels      []string     `json:"levels"`
	Categories  []string     `json:"categories"`
	SkillGroups []SkillGroup `json:"skillGroups"`
}

// TemplateRef is the snapshot of the template embedded into an evaluation,
// frozen at creation time.
type TemplateRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SubjectRef is the snapshot of the evaluated user embedded into an
// evaluation. The mentor and line manager ids are captured when the
// evaluation is created and are deliberately not looked up live, so a later
// reassignment never changes the review chain of an in-flight evaluation.
type SubjectRef struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	MentorID      string `json:"mentorId,omitempty"`
	LineManagerID string `json:"lineManagerId,omitempty"`
}

// SkillStatus remembers exactly one prior value alongside the current one.
type SkillStatus struct {
	Previous StatusValue `json:"previous"`
	Current  StatusValue `json:"current"`
}

// Skill is one evaluated skill inside a skill group. NoteIDs reference notes
// owned by the notes collection; the evaluation only tracks membership.
type Skill struct {
	ID      int         `json:"id"`
	Status  SkillStatus `json:"status"`
	NoteIDs []string    `json:"noteIds"`
}

// SkillGroup is a (category, level) bucket of skills.
type SkillGroup struct {
	ID       int     `json:"id"`
	Category string  `json:"category"`
	Level    string  `json:"level"`
	Skills   []Skill `json:"skills"`
}

// Evaluation is the central aggregate. It is only mutated through the state
// machine methods in evaluation.go and the note attach/detach operations.
type Evaluation struct {
	ID          string           `json:"id"`
	Subject     SubjectRef       `json:"user"`
	Template    TemplateRef      `json:"template"`
	Status      EvaluationStatus `json:"status"`
	SkillGroups []SkillGroup     `json:"skillGroups"`
	CreatedAt   time.Time        `json:"createdDate"`
}

// Note is free text attached to a skill within an evaluation. Notes are soft
// deleted; a tombstoned note keeps its id resolvable for historical diffs.
type Note struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	SkillID   int       `db:"skill_id" json:"skillId"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"createdDate"`
	Deleted   bool      `db:"deleted" json:"-"`
}

// ActionKind mirrors the skill status that caused the action to be tracked.
type ActionKind string

const (
	ActionFeedback  ActionKind = "FEEDBACK"
	ActionObjective ActionKind = "OBJECTIVE"
)

// Action is a tracked follow-up item created when a skill enters
// FEEDBACK_REQUESTED or OBJECTIVE. It is keyed by (user, skill, evaluation)
// so add and remove are idempotent.
type Action struct {
	ID           string     `db:"id" json:"id"`
	UserID       string     `db:"user_id" json:"userId"`
	SkillID      int        `db:"skill_id" json:"skillId"`
	EvaluationID string     `db:"evaluation_id" json:"evaluationId"`
	Kind         ActionKind `db:"kind" json:"type"`
	CreatedAt    time.Time  `db:"created_at" json:"createdDate"`
}

// ActionKey identifies an action for removal.
type ActionKey struct {
	UserID       string
	SkillID      int
	EvaluationID string
	Kind         ActionKind
}
