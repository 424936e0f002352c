package postgres

import (
	"context"
	"database/sql"
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

type NoteRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewNoteRepository(db *sqlx.DB, log *slog.Logger) *NoteRepository {
	return &NoteRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var noteColumns = []string{"id", "user_id", "skill_id", "note", "created_at", "deleted"}

func (r *NoteRepository) AddNote(ctx context.Context, userID string, skillID int, text string) (*domain.Note, error) {
	const op = "internal.repository.postgres.AddNote"

	note := &domain.Note{
		ID:        uuid.NewString(),
		UserID:    userID,
		SkillID:   skillID,
		Note:      text,
		CreatedAt: time.Now().UTC(),
	}

	query, args, err := r.sq.Insert("notes").
		Columns(noteColumns...).
		Values(note.ID, note.UserID, note.SkillID, note.Note, note.CreatedAt, note.Deleted).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return note, nil
}

func (r *NoteRepository) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	const op = "internal.repository.postgres.GetNote"

	query, args, err := r.sq.Select(noteColumns...).
		From("notes").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var note domain.Note
	if err := r.db.GetContext(ctx, &note, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrNoteNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get note: %w", op, err)
	}

	return &note, nil
}

func (r *NoteRepository) GetNotes(ctx context.Context, ids []string) ([]domain.Note, error) {
	const op = "internal.repository.postgres.GetNotes"

	if len(ids) == 0 {
		return []domain.Note{}, nil
	}

	query, args, err := r.sq.Select(noteColumns...).
		From("notes").
		Where(sq.Eq{"id": ids}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var notes []domain.Note
	if err := r.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to select notes: %w", op, err)
	}

	return notes, nil
}

func (r *NoteRepository) SetDeleted(ctx context.Context, id string) error {
	const op = "internal.repository.postgres.SetDeleted"

	query, args, err := r.sq.Update("notes").
		Set("deleted", true).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	// No affected-rows check: tombstoning an already deleted note is a no-op.
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return nil
}
