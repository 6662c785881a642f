package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-blog/backend/internal/comments/domain"
	"github.com/inkwell-blog/backend/internal/comments/ports"
	"github.com/inkwell-blog/backend/internal/platform/postgres"
)

// CommentRepository implements the comments.CommentRepository interface using PostgreSQL
type CommentRepository struct {
	postgres.BaseRepository // Embed the base repository for common functionality
}

// NewCommentRepository creates a new PostgreSQL comments repository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// Create inserts a new comment into the database
func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query, args, err := r.SB.
		Insert("comments").
		Columns(
			"id", "content", "user_id", "commentable_type", "commentable_id",
			"created_at", "updated_at",
		).
		Values(
			pgtype.UUID{Bytes: comment.ID, Valid: true},
			comment.Content,
			pgtype.UUID{Bytes: comment.UserID, Valid: true},
			comment.CommentableType,
			pgtype.UUID{Bytes: comment.CommentableID, Valid: true},
			pgtype.Timestamptz{Time: comment.CreatedAt, Valid: true},
			pgtype.Timestamptz{Time: comment.UpdatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("CommentRepository.Create: build query: %w", err)
	}

	if _, err = r.DB.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("CommentRepository.Create: %w", err)
	}
	return nil
}

// FindByID retrieves a comment by ID
func (r *CommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query, args, err := r.SB.
		Select(
			"id", "content", "user_id", "commentable_type", "commentable_id",
			"created_at", "updated_at",
		).
		From("comments").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CommentRepository.FindByID: build query: %w", err)
	}

	comment, err := scanComment(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrCommentNotFound
		}
		return nil, fmt.Errorf("CommentRepository.FindByID: %w", err)
	}
	return comment, nil
}

// FindDetailByID retrieves a comment with its author's name
func (r *CommentRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*ports.CommentDetail, error) {
	query, args, err := r.detailSelect().
		Where(sq.Eq{"cm.id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CommentRepository.FindDetailByID: build query: %w", err)
	}

	detail, err := scanCommentDetail(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrCommentNotFound
		}
		return nil, fmt.Errorf("CommentRepository.FindDetailByID: %w", err)
	}
	return detail, nil
}

// Update updates an existing comment
func (r *CommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	query, args, err := r.SB.
		Update("comments").
		Set("content", comment.Content).
		Set("updated_at", pgtype.Timestamptz{Time: comment.UpdatedAt, Valid: true}).
		Where(sq.Eq{"id": pgtype.UUID{Bytes: comment.ID, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CommentRepository.Update: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CommentRepository.Update: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrCommentNotFound
	}
	return nil
}

// Delete removes a comment from the database
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.SB.
		Delete("comments").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CommentRepository.Delete: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CommentRepository.Delete: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrCommentNotFound
	}
	return nil
}

// List returns comments across all targets, newest first
func (r *CommentRepository) List(ctx context.Context, limit, offset int) ([]*ports.CommentDetail, error) {
	qb := r.detailSelect().OrderBy("cm.created_at DESC")

	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	if offset > 0 {
		qb = qb.Offset(uint64(offset))
	}

	return r.queryDetails(ctx, qb, "CommentRepository.List")
}

// ListForTarget returns the comments under one commentable entity, oldest first
func (r *CommentRepository) ListForTarget(ctx context.Context, commentableType string, commentableID uuid.UUID, limit, offset int) ([]*ports.CommentDetail, error) {
	qb := r.detailSelect().
		Where(sq.Eq{
			"cm.commentable_type": commentableType,
			"cm.commentable_id":   pgtype.UUID{Bytes: commentableID, Valid: true},
		}).
		OrderBy("cm.created_at ASC")

	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	if offset > 0 {
		qb = qb.Offset(uint64(offset))
	}

	return r.queryDetails(ctx, qb, "CommentRepository.ListForTarget")
}

// ListByUser returns a user's own comments, newest first
func (r *CommentRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*ports.CommentDetail, error) {
	qb := r.detailSelect().
		Where(sq.Eq{"cm.user_id": pgtype.UUID{Bytes: userID, Valid: true}}).
		OrderBy("cm.created_at DESC")

	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	if offset > 0 {
		qb = qb.Offset(uint64(offset))
	}

	return r.queryDetails(ctx, qb, "CommentRepository.ListByUser")
}

// Helper methods

func (r *CommentRepository) detailSelect() sq.SelectBuilder {
	return r.SB.Select(
		"cm.id", "cm.content", "cm.user_id", "u.name AS user_name",
		"cm.commentable_type", "cm.commentable_id",
		"cm.created_at", "cm.updated_at",
	).
		From("comments cm").
		LeftJoin("users u ON cm.user_id = u.id")
}

func (r *CommentRepository) queryDetails(ctx context.Context, qb sq.SelectBuilder, op string) ([]*ports.CommentDetail, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var details []*ports.CommentDetail
	for rows.Next() {
		detail, err := scanCommentDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}
	return details, nil
}

// scanComment scans a single comment from pgx.Row
func scanComment(row pgx.Row) (*domain.Comment, error) {
	var comment domain.Comment
	var idBytes, userIDBytes, commentableIDBytes pgtype.UUID

	err := row.Scan(
		&idBytes,
		&comment.Content,
		&userIDBytes,
		&comment.CommentableType,
		&commentableIDBytes,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	comment.ID = idBytes.Bytes
	comment.UserID = userIDBytes.Bytes
	comment.CommentableID = commentableIDBytes.Bytes
	return &comment, nil
}

// scanCommentDetail scans a comment detail row with the joined author name
func scanCommentDetail(row pgx.Row) (*ports.CommentDetail, error) {
	var detail ports.CommentDetail
	var idBytes, userIDBytes, commentableIDBytes pgtype.UUID
	var userName pgtype.Text

	err := row.Scan(
		&idBytes,
		&detail.Content,
		&userIDBytes,
		&userName,
		&detail.CommentableType,
		&commentableIDBytes,
		&detail.CreatedAt,
		&detail.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	detail.ID = idBytes.Bytes
	detail.UserID = userIDBytes.Bytes
	detail.CommentableID = commentableIDBytes.Bytes
	if userName.Valid {
		detail.UserName = userName.String
	}
	return &detail, nil
}

// Compile-time check to ensure CommentRepository implements ports.CommentRepository
var _ ports.CommentRepository = (*CommentRepository)(nil)
