package repository

import (
	"context"
	"database/sql"
	"errors"

	"todo-server/internal/models"
	"todo-server/pkg/logger"
)

const userColumns = `id, name, email, age, phone, address, created_at, updated_at`

// UserRepository runs the users statements against the shared pool.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns a repository bound to db.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.Phone, &u.Address, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user with name and email and returns the stored row.
func (r *UserRepository) Create(ctx context.Context, in models.UserInput) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING `+userColumns,
		in.Name, in.Email))
	if err != nil {
		logger.Error(ctx, "Repository CreateUser failed", "error", err)
		return models.User{}, err
	}
	return u, nil
}

// List returns every user in store order.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		logger.Error(ctx, "Repository ListUsers failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			logger.Error(ctx, "Repository scan user failed", "error", err)
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Get returns the user with the given id or models.ErrNotFound.
func (r *UserRepository) Get(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository GetUser failed", "error", err, "id", id)
		return models.User{}, err
	}
	return u, nil
}

// Update overwrites name and email of the user and returns the updated row.
func (r *UserRepository) Update(ctx context.Context, id int64, in models.UserInput) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`UPDATE users SET name = $1, email = $2 WHERE id = $3 RETURNING `+userColumns,
		in.Name, in.Email, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository UpdateUser failed", "error", err, "id", id)
		return models.User{}, err
	}
	return u, nil
}

// Delete removes the user; the store cascades the delete to its todos.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		logger.Error(ctx, "Repository DeleteUser failed", "error", err, "id", id)
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
