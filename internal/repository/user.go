package repository

import (
	"context"
	"database/sql"

	"github.com/atinyakov/quill/internal/models"
)

const userColumns = `id, username, email, password, role`

// PostgresUserRepository stores users in the users table.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a PostgresUserRepository over db.
// db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Role); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByUsername returns the user with the given username or models.ErrNotFound.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, translate(err, "find user by username")
	}
	return u, nil
}

// FindByID returns the user with the given id or models.ErrNotFound.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, translate(err, "find user by id")
	}
	return u, nil
}

// FindAll returns every user ordered by id.
func (r *PostgresUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, translate(err, "list users")
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, translate(err, "scan user")
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}

// Save inserts u when u.ID is zero and assigns the generated id; otherwise
// it overwrites every column of the existing row.
// A taken username yields models.ErrDuplicate.
func (r *PostgresUserRepository) Save(ctx context.Context, u *models.User) (*models.User, error) {
	if u.ID == 0 {
		err := r.DB.QueryRowContext(ctx,
			`INSERT INTO users (username, email, password, role) VALUES ($1, $2, $3, $4) RETURNING id`,
			u.Username, u.Email, u.Password, u.Role,
		).Scan(&u.ID)
		if err != nil {
			return nil, translate(err, "insert user")
		}
		return u, nil
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET username = $1, email = $2, password = $3, role = $4 WHERE id = $5`,
		u.Username, u.Email, u.Password, u.Role, u.ID,
	)
	if err != nil {
		return nil, translate(err, "update user")
	}
	if err := affectedOne(res, "update user"); err != nil {
		return nil, err
	}
	return u, nil
}

// ExistsByID reports whether a user with id exists.
func (r *PostgresUserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`,
		id,
	).Scan(&exists)
	return exists, translate(err, "user exists")
}

// DeleteByID removes the user with id, or returns models.ErrNotFound.
func (r *PostgresUserRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete user")
	}
	return affectedOne(res, "delete user")
}

// Count returns the number of users.
func (r *PostgresUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, translate(err, "count users")
}
