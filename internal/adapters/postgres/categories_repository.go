package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-blog/backend/internal/platform/postgres"
	"github.com/inkwell-blog/backend/internal/taxonomy/domain"
	"github.com/inkwell-blog/backend/internal/taxonomy/ports"
)

// foreignKeyViolationCode is the PostgreSQL error code raised when deleting
// a category that posts still reference.
const foreignKeyViolationCode = "23503"

// CategoryRepository implements the taxonomy.CategoryRepository interface using PostgreSQL
type CategoryRepository struct {
	postgres.BaseRepository // Embed the base repository for common functionality
}

// NewCategoryRepository creates a new PostgreSQL categories repository
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// Create inserts a new category into the database
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query, args, err := r.SB.
		Insert("categories").
		Columns("id", "name", "slug", "created_at", "updated_at").
		Values(
			pgtype.UUID{Bytes: category.ID, Valid: true},
			category.Name,
			category.Slug,
			pgtype.Timestamptz{Time: category.CreatedAt, Valid: true},
			pgtype.Timestamptz{Time: category.UpdatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("CategoryRepository.Create: build query: %w", err)
	}

	if _, err = r.DB.Exec(ctx, query, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return ports.ErrDuplicateName
		}
		return fmt.Errorf("CategoryRepository.Create: %w", err)
	}
	return nil
}

// FindByID retrieves a category by ID
func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query, args, err := r.SB.
		Select("id", "name", "slug", "created_at", "updated_at").
		From("categories").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CategoryRepository.FindByID: build query: %w", err)
	}

	category, err := scanCategory(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("CategoryRepository.FindByID: %w", err)
	}
	return category, nil
}

// FindDetailByID retrieves a category with its posts
func (r *CategoryRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*ports.CategoryDetail, error) {
	category, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	postsByCategory, err := r.loadPosts(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	return &ports.CategoryDetail{
		ID:        category.ID,
		Name:      category.Name,
		Slug:      category.Slug,
		Posts:     postsByCategory[id],
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}, nil
}

// Update updates an existing category
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query, args, err := r.SB.
		Update("categories").
		Set("name", category.Name).
		Set("slug", category.Slug).
		Set("updated_at", pgtype.Timestamptz{Time: category.UpdatedAt, Valid: true}).
		Where(sq.Eq{"id": pgtype.UUID{Bytes: category.ID, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CategoryRepository.Update: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ports.ErrDuplicateName
		}
		return fmt.Errorf("CategoryRepository.Update: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category. The posts.category_id foreign key turns
// deleting a non-empty category into a constraint violation.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.SB.
		Delete("categories").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CategoryRepository.Delete: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
			return ports.ErrCategoryInUse
		}
		return fmt.Errorf("CategoryRepository.Delete: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrCategoryNotFound
	}
	return nil
}

// List returns categories with their posts, newest first
func (r *CategoryRepository) List(ctx context.Context) ([]*ports.CategoryDetail, error) {
	query, args, err := r.SB.
		Select("id", "name", "slug", "created_at", "updated_at").
		From("categories").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CategoryRepository.List: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("CategoryRepository.List: %w", err)
	}
	defer rows.Close()

	var details []*ports.CategoryDetail
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("CategoryRepository.List: %w", err)
		}
		details = append(details, &ports.CategoryDetail{
			ID:        category.ID,
			Name:      category.Name,
			Slug:      category.Slug,
			CreatedAt: category.CreatedAt,
			UpdatedAt: category.UpdatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CategoryRepository.List: rows error: %w", err)
	}

	if len(details) == 0 {
		return details, nil
	}

	ids := make([]uuid.UUID, len(details))
	for i, d := range details {
		ids[i] = d.ID
	}
	postsByCategory, err := r.loadPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range details {
		d.Posts = postsByCategory[d.ID]
	}
	return details, nil
}

// SlugExists checks name uniqueness through the derived slug
func (r *CategoryRepository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	subQuery := r.SB.Select("1").From("categories").Where(sq.Eq{"slug": slug})
	if excludeID != nil {
		subQuery = subQuery.Where(sq.NotEq{"id": pgtype.UUID{Bytes: *excludeID, Valid: true}})
	}

	subQuerySQL, subQueryArgs, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("CategoryRepository.SlugExists: build subquery: %w", err)
	}

	query := fmt.Sprintf("SELECT EXISTS(%s)", subQuerySQL)

	var exists bool
	if err := r.DB.QueryRow(ctx, query, subQueryArgs...).Scan(&exists); err != nil {
		return false, fmt.Errorf("CategoryRepository.SlugExists: %w", err)
	}
	return exists, nil
}

// Exists reports whether a category id is present
func (r *CategoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	subQuerySQL, subQueryArgs, err := r.SB.
		Select("1").
		From("categories").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("CategoryRepository.Exists: build query: %w", err)
	}

	query := fmt.Sprintf("SELECT EXISTS(%s)", subQuerySQL)

	var exists bool
	if err := r.DB.QueryRow(ctx, query, subQueryArgs...).Scan(&exists); err != nil {
		return false, fmt.Errorf("CategoryRepository.Exists: %w", err)
	}
	return exists, nil
}

// CategoryExists implements the posts module's CategoryChecker port
func (r *CategoryRepository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.Exists(ctx, id)
}

// loadPosts batch-loads the compact post views for a set of categories
func (r *CategoryRepository) loadPosts(ctx context.Context, categoryIDs []uuid.UUID) (map[uuid.UUID][]ports.CategoryPost, error) {
	idValues := make([]pgtype.UUID, len(categoryIDs))
	for i, id := range categoryIDs {
		idValues[i] = pgtype.UUID{Bytes: id, Valid: true}
	}

	query, args, err := r.SB.
		Select("category_id", "id", "title", "slug", "status", "author_id", "created_at").
		From("posts").
		Where(sq.Eq{"category_id": idValues}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CategoryRepository.loadPosts: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("CategoryRepository.loadPosts: %w", err)
	}
	defer rows.Close()

	postsByCategory := make(map[uuid.UUID][]ports.CategoryPost)
	for rows.Next() {
		var categoryIDBytes, postIDBytes, authorIDBytes pgtype.UUID
		var post ports.CategoryPost
		if err := rows.Scan(&categoryIDBytes, &postIDBytes, &post.Title, &post.Slug, &post.Status, &authorIDBytes, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("CategoryRepository.loadPosts: %w", err)
		}
		post.ID = postIDBytes.Bytes
		post.AuthorID = authorIDBytes.Bytes
		categoryID := uuid.UUID(categoryIDBytes.Bytes)
		postsByCategory[categoryID] = append(postsByCategory[categoryID], post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CategoryRepository.loadPosts: rows error: %w", err)
	}
	return postsByCategory, nil
}

// scanCategory scans a single category from pgx.Row
func scanCategory(row pgx.Row) (*domain.Category, error) {
	var category domain.Category
	var idBytes pgtype.UUID

	err := row.Scan(
		&idBytes,
		&category.Name,
		&category.Slug,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	category.ID = idBytes.Bytes
	return &category, nil
}

// Compile-time check to ensure CategoryRepository implements ports.CategoryRepository
var _ ports.CategoryRepository = (*CategoryRepository)(nil)
