package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/skillzio/evaluation-service/internal/domain"
)

type ActionRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewActionRepository(db *sqlx.DB, log *slog.Logger) *ActionRepository {
	return &ActionRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ActionRepository) AddAction(ctx context.Context, tx *sqlx.Tx, action *domain.Action) error {
	const op = "internal.repository.postgres.AddAction"

	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.sq.Insert("actions").
		Columns("id", "user_id", "skill_id", "evaluation_id", "kind", "created_at").
		Values(action.ID, action.UserID, action.SkillID, action.EvaluationID, action.Kind, action.CreatedAt).
		Suffix("ON CONFLICT (user_id, skill_id, evaluation_id, kind) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (r *ActionRepository) RemoveAction(ctx context.Context, tx *sqlx.Tx, key domain.ActionKey) error {
	const op = "internal.repository.postgres.RemoveAction"

	query, args, err := r.sq.Delete("actions").
		Where(sq.Eq{
			"user_id":       key.UserID,
			"skill_id":      key.SkillID,
			"evaluation_id": key.EvaluationID,
			"kind":          key.Kind,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build delete query: %w", op, err)
	}

	// Removing a missing key is a no-op, so affected rows are not checked.
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute delete: %w", op, err)
	}

	return nil
}

func (r *ActionRepository) GetActionsByUserID(ctx context.Context, userID string) ([]domain.Action, error) {
	const op = "internal.repository.postgres.GetActionsByUserID"

	query, args, err := r.sq.Select("id", "user_id", "skill_id", "evaluation_id", "kind", "created_at").
		From("actions").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var actions []domain.Action
	if err := r.db.SelectContext(ctx, &actions, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to select actions: %w", op, err)
	}

	return actions, nil
}
