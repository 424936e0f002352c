package http

// evaluationActionRequest is the polymorphic body of POST /evaluations/{id}.
// The action field selects the operation; the remaining fields are validated
// per action because their requiredness depends on it.
type evaluationActionRequest struct {
	Action  string `json:"action" validate:"required,oneof=updateSkillStatus adminUpdateSkillStatus complete addNote deleteNote updateEvaluationStatus"`
	SkillID int    `json:"skillId"`
	Status  string `json:"status"`
	Note    string `json:"note"`
	NoteID  string `json:"noteId"`
}

type updateSkillStatusAction struct {
	SkillID int    `validate:"required,min=1"`
	Status  string `validate:"required,skill_status"`
}

type updateEvaluationStatusAction struct {
	Status string `validate:"required,evaluation_status"`
}

type addNoteAction struct {
	SkillID int    `validate:"required,min=1"`
	Note    string `validate:"required,min=1,max=2000"`
}

type deleteNoteAction struct {
	SkillID int    `validate:"required,min=1"`
	NoteID  string `validate:"required,uuid"`
}

type createUserRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
}

type selectMentorRequest struct {
	MentorID string `json:"mentorId" validate:"required,uuid"`
}

type selectLineManagerRequest struct {
	LineManagerID string `json:"lineManagerId" validate:"required,uuid"`
}

type selectTemplateRequest struct {
	TemplateID string `json:"templateId" validate:"required,uuid"`
}
