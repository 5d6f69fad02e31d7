package repository

import (
	"context"
	"database/sql"

	"github.com/atinyakov/quill/internal/models"
)

const commentColumns = `id, user_id, post_id, content, created_at`

// PostgresCommentRepository stores comments in the comments table.
type PostgresCommentRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresCommentRepository creates a PostgresCommentRepository over db.
func NewPostgresCommentRepository(db *sql.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{DB: db}
}

func (r *PostgresCommentRepository) query(ctx context.Context, op, query string, args ...any) ([]models.Comment, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err, op)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.PostID, &c.Content, &c.CreatedAt); err != nil {
			return nil, translate(err, "scan comment")
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, op)
	}
	return comments, nil
}

// FindAll returns every comment ordered by id.
func (r *PostgresCommentRepository) FindAll(ctx context.Context) ([]models.Comment, error) {
	return r.query(ctx, "list comments",
		`SELECT `+commentColumns+` FROM comments ORDER BY id`)
}

// FindByPostID returns the comments on a post, oldest first.
func (r *PostgresCommentRepository) FindByPostID(ctx context.Context, postID int64) ([]models.Comment, error) {
	return r.query(ctx, "list comments by post",
		`SELECT `+commentColumns+` FROM comments WHERE post_id = $1 ORDER BY id`, postID)
}

// FindByUserID returns the comments written by a user, oldest first.
func (r *PostgresCommentRepository) FindByUserID(ctx context.Context, userID int64) ([]models.Comment, error) {
	return r.query(ctx, "list comments by user",
		`SELECT `+commentColumns+` FROM comments WHERE user_id = $1 ORDER BY id`, userID)
}

// Save inserts c when c.ID is zero, otherwise updates its content.
func (r *PostgresCommentRepository) Save(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if c.ID == 0 {
		err := r.DB.QueryRowContext(ctx,
			`INSERT INTO comments (user_id, post_id, content, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
			c.UserID, c.PostID, c.Content, c.CreatedAt,
		).Scan(&c.ID)
		if err != nil {
			return nil, translate(err, "insert comment")
		}
		return c, nil
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE comments SET content = $1 WHERE id = $2`,
		c.Content, c.ID,
	)
	if err != nil {
		return nil, translate(err, "update comment")
	}
	if err := affectedOne(res, "update comment"); err != nil {
		return nil, err
	}
	return c, nil
}

// ExistsByID reports whether a comment with id exists.
func (r *PostgresCommentRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)`,
		id,
	).Scan(&exists)
	return exists, translate(err, "comment exists")
}

// DeleteByID removes the comment with id, or returns models.ErrNotFound.
func (r *PostgresCommentRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete comment")
	}
	return affectedOne(res, "delete comment")
}
