package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/skillzio/evaluation-service/internal/apperrors"
	"github.com/skillzio/evaluation-service/internal/domain"
)

type TemplateRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewTemplateRepository(db *sqlx.DB, log *slog.Logger) *TemplateRepository {
	return &TemplateRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type templateRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Levels      []byte `db:"levels"`
	Categories  []byte `db:"categories"`
	SkillGroups []byte `db:"skill_groups"`
}

func (r *TemplateRepository) GetTemplateByID(ctx context.Context, id string) (*domain.Template, error) {
	const op = "internal.repository.postgres.GetTemplateByID"

	query, args, err := r.sq.Select("id", "name", "levels", "categories", "skill_groups").
		From("templates").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var row templateRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrTemplateNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get template: %w", op, err)
	}

	template := &domain.Template{
		ID:   row.ID,
		Name: row.Name,
	}

	if err := json.Unmarshal(row.Levels, &template.Levels); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal levels: %w", op, err)
	}
	if err := json.Unmarshal(row.Categories, &template.Categories); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal categories: %w", op, err)
	}
	if err := json.Unmarshal(row.SkillGroups, &template.SkillGroups); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal skill groups: %w", op, err)
	}

	return template, nil
}
