// AngelaMos | 2026
// repository.go

package community

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/codeburry/api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, post *Post) error
	List(ctx context.Context) ([]Post, error)
	// Like records userID as a liker and bumps the counter in one step. It
	// returns ErrDuplicateAction when userID already liked the post.
	Like(ctx context.Context, postID, userID string) (int, error)
	AddComment(ctx context.Context, postID string, comment Comment) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const postColumns = `id, seq, author_id, author_name, author_avatar, content,
		       likes, liked_by, comments, created_at`

func (r *repository) Create(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO community_posts
		    (id, author_id, author_name, author_avatar, content, liked_by, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq, likes, created_at`

	row := r.db.QueryRowxContext(ctx, query,
		post.ID,
		post.AuthorID,
		post.AuthorName,
		post.AuthorAvatar,
		post.Content,
		post.LikedBy,
		post.Comments,
	)
	if err := row.Scan(&post.Seq, &post.Likes, &post.CreatedAt); err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

func (r *repository) List(ctx context.Context) ([]Post, error) {
	query := `SELECT ` + postColumns + `
		FROM community_posts
		ORDER BY created_at DESC, seq DESC`

	posts := []Post{}
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}

func (r *repository) Like(
	ctx context.Context,
	postID, userID string,
) (int, error) {
	query := `
		UPDATE community_posts
		SET likes = likes + 1,
		    liked_by = liked_by || jsonb_build_array($2::text)
		WHERE id = $1
		  AND NOT (liked_by @> jsonb_build_array($2::text))
		RETURNING likes`

	var likes int
	err := r.db.GetContext(ctx, &likes, query, postID, userID)
	if err == nil {
		return likes, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("like post: %w", err)
	}

	exists, err := r.exists(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("like post: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("like post: %w", core.ErrNotFound)
	}

	return 0, fmt.Errorf("like post: %w", core.ErrDuplicateAction)
}

func (r *repository) AddComment(
	ctx context.Context,
	postID string,
	comment Comment,
) error {
	payload, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}

	query := `
		UPDATE community_posts
		SET comments = comments || jsonb_build_array($2::jsonb)
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, postID, string(payload))
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("add comment: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) exists(ctx context.Context, postID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM community_posts WHERE id = $1)`, postID)
	if err != nil {
		return false, err
	}
	return exists, nil
}
