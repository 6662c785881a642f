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

	"github.com/inkwell-blog/backend/internal/platform/postgres"
	"github.com/inkwell-blog/backend/internal/taxonomy/domain"
	"github.com/inkwell-blog/backend/internal/taxonomy/ports"
)

// TagRepository implements the taxonomy.TagRepository interface using PostgreSQL
type TagRepository struct {
	postgres.BaseRepository // Embed the base repository for common functionality
	txManager postgres.TransactionManager
}

// NewTagRepository creates a new PostgreSQL tags repository
func NewTagRepository(db *pgxpool.Pool, txManager postgres.TransactionManager) *TagRepository {
	return &TagRepository{
		BaseRepository: postgres.NewBaseRepository(db),
		txManager:      txManager,
	}
}

// Create inserts a new tag into the database
func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	query, args, err := r.SB.
		Insert("tags").
		Columns("id", "name", "slug", "created_at", "updated_at").
		Values(
			pgtype.UUID{Bytes: tag.ID, Valid: true},
			tag.Name,
			tag.Slug,
			pgtype.Timestamptz{Time: tag.CreatedAt, Valid: true},
			pgtype.Timestamptz{Time: tag.UpdatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("TagRepository.Create: build query: %w", err)
	}

	if _, err = r.DB.Exec(ctx, query, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return ports.ErrDuplicateName
		}
		return fmt.Errorf("TagRepository.Create: %w", err)
	}
	return nil
}

// FindByID retrieves a tag by ID
func (r *TagRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	query, args, err := r.SB.
		Select("id", "name", "slug", "created_at", "updated_at").
		From("tags").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("TagRepository.FindByID: build query: %w", err)
	}

	tag, err := scanTag(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrTagNotFound
		}
		return nil, fmt.Errorf("TagRepository.FindByID: %w", err)
	}
	return tag, nil
}

// Update updates an existing tag
func (r *TagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	query, args, err := r.SB.
		Update("tags").
		Set("name", tag.Name).
		Set("slug", tag.Slug).
		Set("updated_at", pgtype.Timestamptz{Time: tag.UpdatedAt, Valid: true}).
		Where(sq.Eq{"id": pgtype.UUID{Bytes: tag.ID, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("TagRepository.Update: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ports.ErrDuplicateName
		}
		return fmt.Errorf("TagRepository.Update: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrTagNotFound
	}
	return nil
}

// Delete removes a tag and its post associations in one transaction
func (r *TagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.txManager.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("TagRepository.Delete: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txSB := r.SB
	tagID := pgtype.UUID{Bytes: id, Valid: true}

	taggablesQuery, taggablesArgs, err := txSB.
		Delete("taggables").
		Where(sq.Eq{"tag_id": tagID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("TagRepository.Delete: build taggables query: %w", err)
	}
	if _, err = tx.Tx().Exec(ctx, taggablesQuery, taggablesArgs...); err != nil {
		return fmt.Errorf("TagRepository.Delete: detach: %w", err)
	}

	tagQuery, tagArgs, err := txSB.
		Delete("tags").
		Where(sq.Eq{"id": tagID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("TagRepository.Delete: build tag query: %w", err)
	}
	result, err := tx.Tx().Exec(ctx, tagQuery, tagArgs...)
	if err != nil {
		return fmt.Errorf("TagRepository.Delete: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrTagNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("TagRepository.Delete: commit: %w", err)
	}
	return nil
}

// List returns tags, newest first
func (r *TagRepository) List(ctx context.Context) ([]*domain.Tag, error) {
	query, args, err := r.SB.
		Select("id", "name", "slug", "created_at", "updated_at").
		From("tags").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("TagRepository.List: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("TagRepository.List: %w", err)
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("TagRepository.List: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("TagRepository.List: rows error: %w", err)
	}
	return tags, nil
}

// SlugExists checks name uniqueness through the derived slug
func (r *TagRepository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	subQuery := r.SB.Select("1").From("tags").Where(sq.Eq{"slug": slug})
	if excludeID != nil {
		subQuery = subQuery.Where(sq.NotEq{"id": pgtype.UUID{Bytes: *excludeID, Valid: true}})
	}

	subQuerySQL, subQueryArgs, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("TagRepository.SlugExists: build subquery: %w", err)
	}

	query := fmt.Sprintf("SELECT EXISTS(%s)", subQuerySQL)

	var exists bool
	if err := r.DB.QueryRow(ctx, query, subQueryArgs...).Scan(&exists); err != nil {
		return false, fmt.Errorf("TagRepository.SlugExists: %w", err)
	}
	return exists, nil
}

// Missing returns the subset of ids that do not exist
func (r *TagRepository) Missing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idValues := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		idValues[i] = pgtype.UUID{Bytes: id, Valid: true}
	}

	query, args, err := r.SB.
		Select("id").
		From("tags").
		Where(sq.Eq{"id": idValues}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("TagRepository.Missing: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("TagRepository.Missing: %w", err)
	}
	defer rows.Close()

	found := make(map[uuid.UUID]bool, len(ids))
	for rows.Next() {
		var idBytes pgtype.UUID
		if err := rows.Scan(&idBytes); err != nil {
			return nil, fmt.Errorf("TagRepository.Missing: %w", err)
		}
		found[idBytes.Bytes] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("TagRepository.Missing: rows error: %w", err)
	}

	var missing []uuid.UUID
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// MissingTags implements the posts module's TagChecker port
func (r *TagRepository) MissingTags(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return r.Missing(ctx, ids)
}

// scanTag scans a single tag from pgx.Row
func scanTag(row pgx.Row) (*domain.Tag, error) {
	var tag domain.Tag
	var idBytes pgtype.UUID

	err := row.Scan(
		&idBytes,
		&tag.Name,
		&tag.Slug,
		&tag.CreatedAt,
		&tag.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tag.ID = idBytes.Bytes
	return &tag, nil
}

// Compile-time check to ensure TagRepository implements ports.TagRepository
var _ ports.TagRepository = (*TagRepository)(nil)
