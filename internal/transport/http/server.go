// package http implements the HTTP transport layer for the service.
// It handles incoming requests, decodes them, calls the appropriate service
// methods, and encodes the responses.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skillzio/evaluation-service/internal/apperrors"
	"github.com/skillzio/evaluation-service/internal/domain"
	"github.com/skillzio/evaluation-service/internal/service"
	"github.com/skillzio/evaluation-service/internal/validation"
	"github.com/skillzio/evaluation-service/pkg/logger/sl"
)

// Server holds the dependencies for the HTTP server, including the logger
// and service interfaces.
type Server struct {
	log               *slog.Logger
	auth              *Authenticator
	evaluationService service.EvaluationService
	userService       service.UserService
	actionService     service.ActionService
}

// NewServer creates a new instance of the HTTP server.
func NewServer(
	log *slog.Logger,
	auth *Authenticator,
	es service.EvaluationService,
	us service.UserService,
	as service.ActionService,
) *Server {
	return &Server{
		log:               log,
		auth:              auth,
		evaluationService: es,
		userService:       us,
		actionService:     as,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	mux.Handle("/metrics", promhttp.Handler())

	mux.Group(func(r chi.Router) {
		r.Use(s.auth.RequireSession)

		r.Get("/evaluations/{evaluationId}", s.GetEvaluation)
		r.Post("/evaluations/{evaluationId}", s.PostEvaluationAction)

		r.Post("/users", s.PostUser)
		r.Get("/users/{userId}", s.GetUser)
		r.Post("/users/{userId}/mentor", s.PostUserMentor)
		r.Post("/users/{userId}/line-manager", s.PostUserLineManager)
		r.Post("/users/{userId}/template", s.PostUserTemplate)
		r.Post("/users/{userId}/evaluations", s.PostUserEvaluation)
		r.Get("/users/{userId}/evaluations", s.GetUserEvaluations)
		r.Get("/users/{userId}/tasks", s.GetUserTasks)
	})

	return mux
}

func (s *Server) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetEvaluation"

	view, err := s.evaluationService.GetEvaluation(r.Context(), requester(r), chi.URLParam(r, "evaluationId"))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, view)
}

// PostEvaluationAction dispatches on the action field of the request body.
// All mutations of one evaluation share this endpoint so clients hold a
// single URL per evaluation.
func (s *Server) PostEvaluationAction(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostEvaluationAction"

	var req evaluationActionRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	evaluationID := chi.URLParam(r, "evaluationId")

	switch req.Action {
	case "updateSkillStatus":
		s.updateSkillStatus(w, r, evaluationID, req, false)
	case "adminUpdateSkillStatus":
		s.updateSkillStatus(w, r, evaluationID, req, true)
	case "complete":
		s.completeEvaluation(w, r, evaluationID)
	case "updateEvaluationStatus":
		s.updateEvaluationStatus(w, r, evaluationID, req)
	case "addNote":
		s.addNote(w, r, evaluationID, req)
	case "deleteNote":
		s.deleteNote(w, r, evaluationID, req)
	default:
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Unknown action '%s'", req.Action))
	}
}

func (s *Server) updateSkillStatus(w http.ResponseWriter, r *http.Request, evaluationID string, req evaluationActionRequest, asAdmin bool) {
	const op = "internal.transport.http.updateSkillStatus"

	action := updateSkillStatusAction{SkillID: req.SkillID, Status: req.Status}
	if err := validation.ValidateStruct(action); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	var err error
	if asAdmin {
		err = s.evaluationService.AdminUpdateSkillStatus(r.Context(), requester(r), evaluationID, action.SkillID, domain.StatusValue(action.Status))
	} else {
		err = s.evaluationService.UpdateSkillStatus(r.Context(), requester(r), evaluationID, action.SkillID, domain.StatusValue(action.Status))
	}
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) completeEvaluation(w http.ResponseWriter, r *http.Request, evaluationID string) {
	const op = "internal.transport.http.completeEvaluation"

	metadata, err := s.evaluationService.Complete(r.Context(), requester(r), evaluationID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, metadata)
}

func (s *Server) updateEvaluationStatus(w http.ResponseWriter, r *http.Request, evaluationID string, req evaluationActionRequest) {
	const op = "internal.transport.http.updateEvaluationStatus"

	action := updateEvaluationStatusAction{Status: req.Status}
	if err := validation.ValidateStruct(action); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	metadata, err := s.evaluationService.UpdateEvaluationStatus(r.Context(), requester(r), evaluationID, domain.EvaluationStatus(action.Status))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, metadata)
}

func (s *Server) addNote(w http.ResponseWriter, r *http.Request, evaluationID string, req evaluationActionRequest) {
	const op = "internal.transport.http.addNote"

	action := addNoteAction{SkillID: req.SkillID, Note: req.Note}
	if err := validation.ValidateStruct(action); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	note, err := s.evaluationService.AddNote(r.Context(), requester(r), evaluationID, action.SkillID, action.Note)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusCreated, note)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request, evaluationID string, req evaluationActionRequest) {
	const op = "internal.transport.http.deleteNote"

	action := deleteNoteAction{SkillID: req.SkillID, NoteID: req.NoteID}
	if err := validation.ValidateStruct(action); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	if err := s.evaluationService.DeleteNote(r.Context(), requester(r), evaluationID, action.SkillID, action.NoteID); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) PostUser(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostUser"

	var req createUserRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	user, err := s.userService.CreateUser(r.Context(), requester(r), req.Name, req.Email)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusCreated, user)
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetUser"

	user, err := s.userService.GetUser(r.Context(), requester(r), chi.URLParam(r, "userId"))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, user)
}

func (s *Server) PostUserMentor(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostUserMentor"

	var req selectMentorRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	user, err := s.userService.SelectMentor(r.Context(), requester(r), chi.URLParam(r, "userId"), req.MentorID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, user)
}

func (s *Server) PostUserLineManager(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostUserLineManager"

	var req selectLineManagerRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	user, err := s.userService.SelectLineManager(r.Context(), requester(r), chi.URLParam(r, "userId"), req.LineManagerID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, user)
}

func (s *Server) PostUserTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostUserTemplate"

	var req selectTemplateRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	user, err := s.userService.SelectTemplate(r.Context(), requester(r), chi.URLParam(r, "userId"), req.TemplateID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, user)
}

func (s *Server) PostUserEvaluation(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostUserEvaluation"

	view, err := s.evaluationService.StartEvaluation(r.Context(), requester(r), chi.URLParam(r, "userId"))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusCreated, view)
}

func (s *Server) GetUserEvaluations(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetUserEvaluations"

	evaluations, err := s.evaluationService.GetUserEvaluations(r.Context(), requester(r), chi.URLParam(r, "userId"))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, evaluations)
}

func (s *Server) GetUserTasks(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetUserTasks"

	tasks, err := s.actionService.GetTasks(r.Context(), requester(r), chi.URLParam(r, "userId"))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, tasks)
}

// respond is a helper function to encode data to JSON and write it to the
// response. It centralizes setting the Content-Type header and writing the
// status code.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

// respondError is a convenience wrapper around respond for sending simple
// error messages.
func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respond(w, code, map[string]string{"message": message})
}

// decodeAndValidate is a helper that deserializes a JSON request body into a
// struct and then runs validation checks on it.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

// decode is a helper function to decode a JSON request body.
func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

// handleServiceError provides centralized error handling for all HTTP
// handlers. It logs the internal error and maps it to a user-friendly HTTP
// response. Domain errors carry stable user-facing messages, so the message
// of the outermost apperror is sent as-is.
func (s *Server) handleServiceError(w http.ResponseWriter, op string, err error) {
	log := s.log.With(slog.String("op", op))
	log.Error("service error occurred", sl.Err(err))

	var validationErr *validation.ValidationError

	message := userMessage(err)

	switch {
	case errors.As(err, &validationErr):
		s.respondError(w, http.StatusBadRequest, message)
	case errors.Is(err, apperrors.ErrInvalidRequest):
		s.respondError(w, http.StatusBadRequest, "invalid request body")
	case errors.Is(err, apperrors.ErrNotFound):
		s.respondError(w, http.StatusNotFound, message)
	case errors.Is(err, apperrors.ErrForbidden):
		s.respondError(w, http.StatusForbidden, message)
	case errors.Is(err, apperrors.ErrConflict):
		s.respondError(w, http.StatusConflict, message)
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidTransition):
		s.respondError(w, http.StatusBadRequest, message)
	default:
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// userMessage unwraps the stable user-facing message of a domain error.
// Wrapped operational errors fall back to a generic message so internals
// never leak into a response body.
func userMessage(err error) string {
	var (
		appErr           *apperrors.Error
		userExistsErr    *apperrors.UserExistsError
		invalidStatusErr *apperrors.InvalidStatusError
		noTemplateErr    *apperrors.UserHasNoTemplateError
		noMentorErr      *apperrors.UserHasNoMentorError
		validationErr    *validation.ValidationError
	)

	switch {
	case errors.As(err, &appErr):
		return appErr.Error()
	case errors.As(err, &userExistsErr):
		return userExistsErr.Error()
	case errors.As(err, &invalidStatusErr):
		return invalidStatusErr.Error()
	case errors.As(err, &noTemplateErr):
		return noTemplateErr.Error()
	case errors.As(err, &noMentorErr):
		return noMentorErr.Error()
	case errors.As(err, &validationErr):
		return validationErr.Error()
	}

	return "internal server error"
}
