package repository

import (
	"context"
	"database/sql"

	"github.com/atinyakov/quill/internal/models"
)

const postColumns = `id, title, content, author, created_at`

// PostgresPostRepository stores blog posts in the posts table.
type PostgresPostRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresPostRepository creates a PostgresPostRepository over db.
func NewPostgresPostRepository(db *sql.DB) *PostgresPostRepository {
	return &PostgresPostRepository{DB: db}
}

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Author, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindAll returns every post in storage order. Callers sort as needed.
func (r *PostgresPostRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+postColumns+` FROM posts`)
	if err != nil {
		return nil, translate(err, "list posts")
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, translate(err, "scan post")
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list posts")
	}
	return posts, nil
}

// FindByID returns the post with id or models.ErrNotFound.
func (r *PostgresPostRepository) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err != nil {
		return nil, translate(err, "find post")
	}
	return p, nil
}

// Save inserts p when p.ID is zero, otherwise updates the existing row.
// created_at is never rewritten on update.
func (r *PostgresPostRepository) Save(ctx context.Context, p *models.Post) (*models.Post, error) {
	if p.ID == 0 {
		err := r.DB.QueryRowContext(ctx,
			`INSERT INTO posts (title, content, author, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
			p.Title, p.Content, p.Author, p.CreatedAt,
		).Scan(&p.ID)
		if err != nil {
			return nil, translate(err, "insert post")
		}
		return p, nil
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE posts SET title = $1, content = $2, author = $3 WHERE id = $4`,
		p.Title, p.Content, p.Author, p.ID,
	)
	if err != nil {
		return nil, translate(err, "update post")
	}
	if err := affectedOne(res, "update post"); err != nil {
		return nil, err
	}
	return p, nil
}

// ExistsByID reports whether a post with id exists.
func (r *PostgresPostRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`,
		id,
	).Scan(&exists)
	return exists, translate(err, "post exists")
}

// DeleteByID removes the post with id, or returns models.ErrNotFound.
// Its comments are left for the orphan cleaner.
func (r *PostgresPostRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete post")
	}
	return affectedOne(res, "delete post")
}

// Count returns the number of posts.
func (r *PostgresPostRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, translate(err, "count posts")
}
