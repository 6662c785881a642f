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
	"github.com/inkwell-blog/backend/internal/posts/domain"
	"github.com/inkwell-blog/backend/internal/posts/ports"
)

// commentableTypePosts is the polymorphic discriminator for post comments
// and tag attachments.
const commentableTypePosts = "posts"

// PostRepository implements the posts.PostRepository interface using PostgreSQL
type PostRepository struct {
	postgres.BaseRepository // Embed the base repository for common functionality
	txManager postgres.TransactionManager
}

// NewPostRepository creates a new PostgreSQL posts repository
func NewPostRepository(db *pgxpool.Pool, txManager postgres.TransactionManager) *PostRepository {
	return &PostRepository{
		BaseRepository: postgres.NewBaseRepository(db),
		txManager:      txManager,
	}
}

// withTx creates a repository bound to the provided transaction
func (r *PostRepository) withTx(tx pgx.Tx) *PostRepository {
	return &PostRepository{
		BaseRepository: r.BaseRepository.WithTx(tx),
		txManager:      r.txManager,
	}
}

// Create inserts a new post into the database
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	query, args, err := r.SB.
		Insert("posts").
		Columns(
			"id", "title", "slug", "description", "category_id",
			"author_id", "status", "created_at", "updated_at",
		).
		Values(
			pgtype.UUID{Bytes: post.ID, Valid: true},
			post.Title,
			post.Slug,
			post.Description,
			pgtype.UUID{Bytes: post.CategoryID, Valid: true},
			pgtype.UUID{Bytes: post.AuthorID, Valid: true},
			string(post.Status),
			pgtype.Timestamptz{Time: post.CreatedAt, Valid: true},
			pgtype.Timestamptz{Time: post.UpdatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.Create: build query: %w", err)
	}

	if _, err = r.DB.Exec(ctx, query, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return ports.ErrSlugAlreadyExists
		}
		return fmt.Errorf("PostRepository.Create: %w", err)
	}
	return nil
}

// FindByID retrieves a post by its ID
func (r *PostRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	query, args, err := r.SB.
		Select(
			"id", "title", "slug", "description", "category_id",
			"author_id", "status", "created_at", "updated_at",
		).
		From("posts").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.FindByID: build query: %w", err)
	}

	post, err := scanPost(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrPostNotFound
		}
		return nil, fmt.Errorf("PostRepository.FindByID: %w", err)
	}
	return post, nil
}

// FindDetailByID retrieves a post with its joined relations by ID
func (r *PostRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*ports.PostDetail, error) {
	return r.findDetail(ctx, sq.Eq{"p.id": pgtype.UUID{Bytes: id, Valid: true}})
}

// FindDetailBySlug retrieves a post with its joined relations by slug
func (r *PostRepository) FindDetailBySlug(ctx context.Context, slug string) (*ports.PostDetail, error) {
	return r.findDetail(ctx, sq.Eq{"p.slug": slug})
}

// Update updates an existing post in the database
func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	query, args, err := r.SB.
		Update("posts").
		Set("title", post.Title).
		Set("slug", post.Slug).
		Set("description", post.Description).
		Set("category_id", pgtype.UUID{Bytes: post.CategoryID, Valid: true}).
		Set("status", string(post.Status)).
		Set("updated_at", pgtype.Timestamptz{Time: post.UpdatedAt, Valid: true}).
		Where(sq.Eq{"id": pgtype.UUID{Bytes: post.ID, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.Update: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ports.ErrSlugAlreadyExists
		}
		return fmt.Errorf("PostRepository.Update: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrPostNotFound
	}
	return nil
}

// Delete removes a post together with its comments and tag associations.
// Everything happens in one transaction so a failure leaves no orphans.
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.txManager.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("PostRepository.Delete: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txRepo := r.withTx(tx.Tx())
	postID := pgtype.UUID{Bytes: id, Valid: true}

	commentsQuery, commentsArgs, err := txRepo.SB.
		Delete("comments").
		Where(sq.Eq{"commentable_type": commentableTypePosts, "commentable_id": postID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.Delete: build comments query: %w", err)
	}
	if _, err = txRepo.DB.Exec(ctx, commentsQuery, commentsArgs...); err != nil {
		return fmt.Errorf("PostRepository.Delete: purge comments: %w", err)
	}

	taggablesQuery, taggablesArgs, err := txRepo.SB.
		Delete("taggables").
		Where(sq.Eq{"taggable_type": commentableTypePosts, "taggable_id": postID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.Delete: build taggables query: %w", err)
	}
	if _, err = txRepo.DB.Exec(ctx, taggablesQuery, taggablesArgs...); err != nil {
		return fmt.Errorf("PostRepository.Delete: detach tags: %w", err)
	}

	postQuery, postArgs, err := txRepo.SB.
		Delete("posts").
		Where(sq.Eq{"id": postID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.Delete: build post query: %w", err)
	}
	result, err := txRepo.DB.Exec(ctx, postQuery, postArgs...)
	if err != nil {
		return fmt.Errorf("PostRepository.Delete: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrPostNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("PostRepository.Delete: commit: %w", err)
	}
	return nil
}

// Search retrieves post details matching the filter, newest first
func (r *PostRepository) Search(ctx context.Context, filter ports.SearchFilter) ([]*ports.PostDetail, error) {
	qb := r.detailSelect()
	qb = applySearchFilter(qb, filter)
	qb = qb.OrderBy("p.created_at DESC")

	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		qb = qb.Offset(uint64(filter.Offset))
	}

	return r.queryDetails(ctx, qb, "PostRepository.Search")
}

// Count returns the total number of posts matching the filter
func (r *PostRepository) Count(ctx context.Context, filter ports.SearchFilter) (int, error) {
	qb := r.SB.Select("COUNT(*)").
		From("posts p").
		LeftJoin("users u ON p.author_id = u.id").
		LeftJoin("categories c ON p.category_id = c.id")
	qb = applySearchFilter(qb, filter)

	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("PostRepository.Count: build query: %w", err)
	}

	var count int
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("PostRepository.Count: %w", err)
	}
	return count, nil
}

// ListByAuthor retrieves post details by a specific author, newest first
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*ports.PostDetail, error) {
	qb := r.detailSelect().
		Where(sq.Eq{"p.author_id": pgtype.UUID{Bytes: authorID, Valid: true}}).
		OrderBy("p.created_at DESC")

	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	if offset > 0 {
		qb = qb.Offset(uint64(offset))
	}

	return r.queryDetails(ctx, qb, "PostRepository.ListByAuthor")
}

// SlugExists checks if a slug already exists, optionally excluding a specific post ID
func (r *PostRepository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	subQuery := r.SB.Select("1").From("posts").Where(sq.Eq{"slug": slug})
	if excludeID != nil {
		subQuery = subQuery.Where(sq.NotEq{"id": pgtype.UUID{Bytes: *excludeID, Valid: true}})
	}

	subQuerySQL, subQueryArgs, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("PostRepository.SlugExists: build subquery: %w", err)
	}

	query := fmt.Sprintf("SELECT EXISTS(%s)", subQuerySQL)

	var exists bool
	if err := r.DB.QueryRow(ctx, query, subQueryArgs...).Scan(&exists); err != nil {
		return false, fmt.Errorf("PostRepository.SlugExists: %w", err)
	}
	return exists, nil
}

// GetPostAuthor retrieves just the author ID for a post (for ownership checks)
func (r *PostRepository) GetPostAuthor(ctx context.Context, postID uuid.UUID) (uuid.UUID, error) {
	query, args, err := r.SB.
		Select("author_id").
		From("posts").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: postID, Valid: true}}).
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("PostRepository.GetPostAuthor: build query: %w", err)
	}

	var authorIDBytes pgtype.UUID
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&authorIDBytes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ports.ErrPostNotFound
		}
		return uuid.Nil, fmt.Errorf("PostRepository.GetPostAuthor: %w", err)
	}
	return authorIDBytes.Bytes, nil
}

// ReplaceTags atomically replaces the post's tag set
func (r *PostRepository) ReplaceTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	tx, err := r.txManager.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("PostRepository.ReplaceTags: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txRepo := r.withTx(tx.Tx())
	postIDValue := pgtype.UUID{Bytes: postID, Valid: true}

	deleteQuery, deleteArgs, err := txRepo.SB.
		Delete("taggables").
		Where(sq.Eq{"taggable_type": commentableTypePosts, "taggable_id": postIDValue}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PostRepository.ReplaceTags: build delete query: %w", err)
	}
	if _, err = txRepo.DB.Exec(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("PostRepository.ReplaceTags: detach: %w", err)
	}

	if len(tagIDs) > 0 {
		insert := txRepo.SB.
			Insert("taggables").
			Columns("tag_id", "taggable_type", "taggable_id")
		for _, tagID := range tagIDs {
			insert = insert.Values(
				pgtype.UUID{Bytes: tagID, Valid: true},
				commentableTypePosts,
				postIDValue,
			)
		}

		insertQuery, insertArgs, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("PostRepository.ReplaceTags: build insert query: %w", err)
		}
		if _, err = txRepo.DB.Exec(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("PostRepository.ReplaceTags: attach: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("PostRepository.ReplaceTags: commit: %w", err)
	}
	return nil
}

// PostExists reports whether a post id is present.
// Implements the comments module's PostChecker port.
func (r *PostRepository) PostExists(ctx context.Context, id uuid.UUID) (bool, error) {
	subQuerySQL, subQueryArgs, err := r.SB.
		Select("1").
		From("posts").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("PostRepository.PostExists: build query: %w", err)
	}

	query := fmt.Sprintf("SELECT EXISTS(%s)", subQuerySQL)

	var exists bool
	if err := r.DB.QueryRow(ctx, query, subQueryArgs...).Scan(&exists); err != nil {
		return false, fmt.Errorf("PostRepository.PostExists: %w", err)
	}
	return exists, nil
}

// Helper methods

func (r *PostRepository) detailSelect() sq.SelectBuilder {
	return r.SB.Select(
		"p.id", "p.title", "p.slug", "p.description", "p.status",
		"p.author_id", "u.name AS author_name",
		"p.category_id", "c.name AS category_name",
		"p.created_at", "p.updated_at",
	).
		From("posts p").
		LeftJoin("users u ON p.author_id = u.id").
		LeftJoin("categories c ON p.category_id = c.id")
}

func (r *PostRepository) findDetail(ctx context.Context, pred any) (*ports.PostDetail, error) {
	query, args, err := r.detailSelect().Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.findDetail: build query: %w", err)
	}

	detail, err := scanPostDetail(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrPostNotFound
		}
		return nil, fmt.Errorf("PostRepository.findDetail: %w", err)
	}

	tagsByPost, err := r.loadTags(ctx, []uuid.UUID{detail.ID})
	if err != nil {
		return nil, err
	}
	detail.Tags = tagsByPost[detail.ID]

	comments, err := r.loadComments(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	detail.Comments = comments
	return detail, nil
}

// loadComments loads the comments under one post with their authors' names,
// oldest first. Only single-post reads carry comments; list views stay light.
func (r *PostRepository) loadComments(ctx context.Context, postID uuid.UUID) ([]ports.CommentInfo, error) {
	query, args, err := r.SB.
		Select(
			"cm.id", "cm.content", "cm.user_id", "u.name AS user_name",
			"cm.created_at", "cm.updated_at",
		).
		From("comments cm").
		LeftJoin("users u ON cm.user_id = u.id").
		Where(sq.Eq{
			"cm.commentable_type": commentableTypePosts,
			"cm.commentable_id":   pgtype.UUID{Bytes: postID, Valid: true},
		}).
		OrderBy("cm.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.loadComments: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("PostRepository.loadComments: %w", err)
	}
	defer rows.Close()

	var comments []ports.CommentInfo
	for rows.Next() {
		var comment ports.CommentInfo
		var idBytes, userIDBytes pgtype.UUID
		var userName pgtype.Text
		err := rows.Scan(
			&idBytes,
			&comment.Content,
			&userIDBytes,
			&userName,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("PostRepository.loadComments: %w", err)
		}
		comment.ID = idBytes.Bytes
		comment.UserID = userIDBytes.Bytes
		if userName.Valid {
			comment.UserName = userName.String
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PostRepository.loadComments: rows error: %w", err)
	}
	return comments, nil
}

func (r *PostRepository) queryDetails(ctx context.Context, qb sq.SelectBuilder, op string) ([]*ports.PostDetail, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var details []*ports.PostDetail
	for rows.Next() {
		detail, err := scanPostDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	if len(details) == 0 {
		return details, nil
	}

	ids := make([]uuid.UUID, len(details))
	for i, d := range details {
		ids[i] = d.ID
	}
	tagsByPost, err := r.loadTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range details {
		d.Tags = tagsByPost[d.ID]
	}
	return details, nil
}

// loadTags batch-loads the tags for a set of posts in one query
func (r *PostRepository) loadTags(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]ports.TagInfo, error) {
	idValues := make([]pgtype.UUID, len(postIDs))
	for i, id := range postIDs {
		idValues[i] = pgtype.UUID{Bytes: id, Valid: true}
	}

	query, args, err := r.SB.
		Select("tg.taggable_id", "t.id", "t.name", "t.slug").
		From("taggables tg").
		Join("tags t ON tg.tag_id = t.id").
		Where(sq.Eq{"tg.taggable_type": commentableTypePosts, "tg.taggable_id": idValues}).
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.loadTags: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("PostRepository.loadTags: %w", err)
	}
	defer rows.Close()

	tagsByPost := make(map[uuid.UUID][]ports.TagInfo)
	for rows.Next() {
		var postIDBytes, tagIDBytes pgtype.UUID
		var tag ports.TagInfo
		if err := rows.Scan(&postIDBytes, &tagIDBytes, &tag.Name, &tag.Slug); err != nil {
			return nil, fmt.Errorf("PostRepository.loadTags: %w", err)
		}
		tag.ID = tagIDBytes.Bytes
		postID := uuid.UUID(postIDBytes.Bytes)
		tagsByPost[postID] = append(tagsByPost[postID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PostRepository.loadTags: rows error: %w", err)
	}
	return tagsByPost, nil
}

// applySearchFilter applies the search criteria as WHERE clauses. All
// populated fields AND together; matching is case-insensitive substring.
func applySearchFilter(qb sq.SelectBuilder, filter ports.SearchFilter) sq.SelectBuilder {
	if filter.Title != "" {
		qb = qb.Where(sq.ILike{"p.title": "%" + filter.Title + "%"})
	}
	if filter.CategoryName != "" {
		qb = qb.Where(sq.ILike{"c.name": "%" + filter.CategoryName + "%"})
	}
	if filter.AuthorName != "" {
		qb = qb.Where(sq.ILike{"u.name": "%" + filter.AuthorName + "%"})
	}
	if filter.TagName != "" {
		qb = qb.Where(
			"EXISTS (SELECT 1 FROM taggables tg JOIN tags t ON tg.tag_id = t.id "+
				"WHERE tg.taggable_type = 'posts' AND tg.taggable_id = p.id AND t.name ILIKE ?)",
			"%"+filter.TagName+"%",
		)
	}
	return qb
}

// scanPost scans a single post from pgx.Row
func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	var idBytes, categoryIDBytes, authorIDBytes pgtype.UUID
	var statusStr string

	err := row.Scan(
		&idBytes,
		&post.Title,
		&post.Slug,
		&post.Description,
		&categoryIDBytes,
		&authorIDBytes,
		&statusStr,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.ID = idBytes.Bytes
	post.CategoryID = categoryIDBytes.Bytes
	post.AuthorID = authorIDBytes.Bytes
	post.Status = domain.PostStatus(statusStr)
	if !post.Status.IsValid() {
		return nil, fmt.Errorf("scanPost: invalid status %s", statusStr)
	}
	return &post, nil
}

// scanPostDetail scans a post detail row with joined names
func scanPostDetail(row pgx.Row) (*ports.PostDetail, error) {
	var detail ports.PostDetail
	var idBytes, authorIDBytes, categoryIDBytes pgtype.UUID
	var statusStr string
	var authorName, categoryName pgtype.Text

	err := row.Scan(
		&idBytes,
		&detail.Title,
		&detail.Slug,
		&detail.Description,
		&statusStr,
		&authorIDBytes,
		&authorName,
		&categoryIDBytes,
		&categoryName,
		&detail.CreatedAt,
		&detail.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	detail.ID = idBytes.Bytes
	detail.AuthorID = authorIDBytes.Bytes
	detail.CategoryID = categoryIDBytes.Bytes
	if authorName.Valid {
		detail.AuthorName = authorName.String
	}
	if categoryName.Valid {
		detail.CategoryName = categoryName.String
	}

	detail.Status = domain.PostStatus(statusStr)
	if !detail.Status.IsValid() {
		return nil, fmt.Errorf("scanPostDetail: invalid status %s", statusStr)
	}
	return &detail, nil
}

// Compile-time check to ensure PostRepository implements ports.PostRepository
var _ ports.PostRepository = (*PostRepository)(nil)
