package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/skillzio/evaluation-service/internal/apperrors"
	"github.com/skillzio/evaluation-service/internal/domain"
)

// EvaluationRepository stores the evaluation aggregate in a single row with
// the skill groups as a JSONB document. Diffs are written with jsonb_set on
// the exact path the state machine reports, so two concurrent updates on
// different skills of the same evaluation never clobber each other.
type EvaluationRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewEvaluationRepository(db *sqlx.DB, log *slog.Logger) *EvaluationRepository {
	return &EvaluationRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type evaluationRow struct {
	ID            string         `db:"id"`
	SubjectID     string         `db:"subject_id"`
	SubjectName   string         `db:"subject_name"`
	SubjectEmail  string         `db:"subject_email"`
	MentorID      sql.NullString `db:"mentor_id"`
	LineManagerID sql.NullString `db:"line_manager_id"`
	TemplateID    string         `db:"template_id"`
	TemplateName  string         `db:"template_name"`
	Status        string         `db:"status"`
	SkillGroups   []byte         `db:"skill_groups"`
	CreatedAt     time.Time      `db:"created_at"`
}

var evaluationColumns = []string{
	"id", "subject_id", "subject_name", "subject_email", "mentor_id",
	"line_manager_id", "template_id", "template_name", "status",
	"skill_groups", "created_at",
}

func (row *evaluationRow) toDomain() (*domain.Evaluation, error) {
	var groups []domain.SkillGroup
	if err := json.Unmarshal(row.SkillGroups, &groups); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skill groups: %w", err)
	}

	return &domain.Evaluation{
		ID: row.ID,
		Subject: domain.SubjectRef{
			ID:            row.SubjectID,
			Name:          row.SubjectName,
			Email:         row.SubjectEmail,
			MentorID:      row.MentorID.String,
			LineManagerID: row.LineManagerID.String,
		},
		Template: domain.TemplateRef{
			ID:   row.TemplateID,
			Name: row.TemplateName,
		},
		Status:      domain.EvaluationStatus(row.Status),
		SkillGroups: groups,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *EvaluationRepository) GetEvaluationByID(ctx context.Context, id string) (*domain.Evaluation, error) {
	const op = "internal.repository.postgres.GetEvaluationByID"

	query, args, err := r.sq.Select(evaluationColumns...).
		From("evaluations").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var row evaluationRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrEvaluationNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get evaluation: %w", op, err)
	}

	eval, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return eval, nil
}

func (r *EvaluationRepository) GetEvaluationByIDWithLock(ctx context.Context, tx *sqlx.Tx, id string) (*domain.Evaluation, error) {
	const op = "internal.repository.postgres.GetEvaluationByIDWithLock"

	query, args, err := r.sq.Select(evaluationColumns...).
		From("evaluations").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var row evaluationRow
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrEvaluationNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get evaluation with lock: %w", op, err)
	}

	eval, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return eval, nil
}

func (r *EvaluationRepository) GetEvaluationsByUserID(ctx context.Context, userID string) ([]domain.Evaluation, error) {
	const op = "internal.repository.postgres.GetEvaluationsByUserID"

	query, args, err := r.sq.Select(evaluationColumns...).
		From("evaluations").
		Where(sq.Eq{"subject_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var rows []evaluationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to select evaluations: %w", op, err)
	}

	evaluations := make([]domain.Evaluation, 0, len(rows))
	for i := range rows {
		eval, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		evaluations = append(evaluations, *eval)
	}

	return evaluations, nil
}

func (r *EvaluationRepository) CreateEvaluation(ctx context.Context, eval *domain.Evaluation) (*domain.Evaluation, error) {
	const op = "internal.repository.postgres.CreateEvaluation"

	if eval.ID == "" {
		eval.ID = uuid.NewString()
	}

	groups, err := json.Marshal(eval.SkillGroups)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal skill groups: %w", op, err)
	}

	query, args, err := r.sq.Insert("evaluations").
		Columns(evaluationColumns...).
		Values(
			eval.ID, eval.Subject.ID, eval.Subject.Name, eval.Subject.Email,
			nullable(eval.Subject.MentorID), nullable(eval.Subject.LineManagerID),
			eval.Template.ID, eval.Template.Name, string(eval.Status),
			groups, eval.CreatedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return eval, nil
}

func (r *EvaluationRepository) ApplySkillUpdate(ctx context.Context, tx *sqlx.Tx, update *domain.SkillUpdate) error {
	const op = "internal.repository.postgres.ApplySkillUpdate"

	status, err := json.Marshal(update.Status)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal skill status: %w", op, err)
	}

	path := fmt.Sprintf("{%d,skills,%d,status}", update.GroupIndex, update.SkillIndex)

	query, args, err := r.sq.Update("evaluations").
		Set("skill_groups", sq.Expr("jsonb_set(skill_groups, ?::text[], ?::jsonb)", path, string(status))).
		Where(sq.Eq{"id": update.EvaluationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	return r.execUpdate(ctx, tx, op, query, args)
}

func (r *EvaluationRepository) ApplyStatusUpdate(ctx context.Context, tx *sqlx.Tx, update *domain.StatusUpdate) error {
	const op = "internal.repository.postgres.ApplyStatusUpdate"

	query, args, err := r.sq.Update("evaluations").
		Set("status", string(update.Status)).
		Where(sq.Eq{"id": update.EvaluationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	return r.execUpdate(ctx, tx, op, query, args)
}

func (r *EvaluationRepository) ApplySkillNotesUpdate(ctx context.Context, tx *sqlx.Tx, update *domain.SkillNotesUpdate) error {
	const op = "internal.repository.postgres.ApplySkillNotesUpdate"

	noteIDs := update.NoteIDs
	if noteIDs == nil {
		noteIDs = []string{}
	}

	ids, err := json.Marshal(noteIDs)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal note ids: %w", op, err)
	}

	path := fmt.Sprintf("{%d,skills,%d,noteIds}", update.GroupIndex, update.SkillIndex)

	query, args, err := r.sq.Update("evaluations").
		Set("skill_groups", sq.Expr("jsonb_set(skill_groups, ?::text[], ?::jsonb)", path, string(ids))).
		Where(sq.Eq{"id": update.EvaluationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	return r.execUpdate(ctx, tx, op, query, args)
}

func (r *EvaluationRepository) execUpdate(ctx context.Context, tx *sqlx.Tx, op, query string, args []interface{}) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.ErrEvaluationNotFound)
	}

	return nil
}
