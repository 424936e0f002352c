package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/skillzio/evaluation-service/internal/apperrors"
	"github.com/skillzio/evaluation-service/internal/domain"
)

type UserRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewUserRepository(db *sqlx.DB, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type userRow struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	Email         string         `db:"email"`
	IsAdmin       bool           `db:"is_admin"`
	MentorID      sql.NullString `db:"mentor_id"`
	LineManagerID sql.NullString `db:"line_manager_id"`
	TemplateID    sql.NullString `db:"template_id"`
}

var userColumns = []string{
	"id", "name", "email", "is_admin", "mentor_id", "line_manager_id", "template_id",
}

func (row *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:            row.ID,
		Name:          row.Name,
		Email:         row.Email,
		IsAdmin:       row.IsAdmin,
		MentorID:      row.MentorID.String,
		LineManagerID: row.LineManagerID.String,
		TemplateID:    row.TemplateID.String,
	}
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	const op = "internal.repository.postgres.GetUserByID"

	return r.getUserBy(ctx, op, sq.Eq{"id": id})
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	const op = "internal.repository.postgres.GetUserByEmail"

	return r.getUserBy(ctx, op, sq.Eq{"email": email})
}

func (r *UserRepository) getUserBy(ctx context.Context, op string, pred sq.Eq) (*domain.User, error) {
	query, args, err := r.sq.Select(userColumns...).
		From("users").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return row.toDomain(), nil
}

func (r *UserRepository) GetUsersByID(ctx context.Context, ids []string) ([]domain.User, error) {
	const op = "internal.repository.postgres.GetUsersByID"

	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	query, args, err := r.sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to select users: %w", op, err)
	}

	users := make([]domain.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].toDomain()
	}

	return users, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	const op = "internal.repository.postgres.CreateUser"

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query, args, err := r.sq.Insert("users").
		Columns("id", "name", "email", "is_admin").
		Values(user.ID, user.Name, user.Email, user.IsAdmin).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, &apperrors.UserExistsError{Email: user.Email}
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return user, nil
}

func (r *UserRepository) SetMentor(ctx context.Context, userID, mentorID string) (*domain.User, error) {
	const op = "internal.repository.postgres.SetMentor"

	return r.setReference(ctx, op, userID, "mentor_id", mentorID)
}

func (r *UserRepository) SetLineManager(ctx context.Context, userID, lineManagerID string) (*domain.User, error) {
	const op = "internal.repository.postgres.SetLineManager"

	return r.setReference(ctx, op, userID, "line_manager_id", lineManagerID)
}

func (r *UserRepository) SetTemplate(ctx context.Context, userID, templateID string) (*domain.User, error) {
	const op = "internal.repository.postgres.SetTemplate"

	return r.setReference(ctx, op, userID, "template_id", templateID)
}

func (r *UserRepository) setReference(ctx context.Context, op, userID, column, value string) (*domain.User, error) {
	query, args, err := r.sq.Update("users").
		Set(column, value).
		Where(sq.Eq{"id": userID}).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrUserNotFound)
		}

		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return row.toDomain(), nil
}
