package repository

import (
	"context"
	"database/sql"
	"errors"

	"todo-server/internal/models"
	"todo-server/pkg/logger"
)

const todoColumns = `id, user_id, title, description, completed, due_date, created_at, updated_at`

// TodoRepository runs the todos statements against the shared pool.
type TodoRepository struct {
	db *sql.DB
}

// NewTodoRepository returns a repository bound to db.
func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func scanTodo(row interface{ Scan(...any) error }) (models.Todo, error) {
	var t models.Todo
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create inserts a todo with user_id and title.
func (r *TodoRepository) Create(ctx context.Context, in models.TodoInput) (models.Todo, error) {
	t, err := scanTodo(r.db.QueryRowContext(ctx,
		`INSERT INTO todos (user_id, title) VALUES ($1, $2) RETURNING `+todoColumns,
		in.UserID, in.Title))
	if err != nil {
		logger.Error(ctx, "Repository CreateTodo failed", "error", err)
		return models.Todo{}, err
	}
	return t, nil
}

// List returns all todos.
func (r *TodoRepository) List(ctx context.Context) ([]models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+todoColumns+` FROM todos`)
	if err != nil {
		logger.Error(ctx, "Repository ListTodos failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	todos := make([]models.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			logger.Error(ctx, "Repository scan todo failed", "error", err)
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Get looks the id up in the todos table.
func (r *TodoRepository) Get(ctx context.Context, id int64) (models.Todo, error) {
	t, err := scanTodo(r.db.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, models.ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository GetTodo failed", "error", err, "id", id)
		return models.Todo{}, err
	}
	return t, nil
}

// Update overwrites user_id and title.
func (r *TodoRepository) Update(ctx context.Context, id int64, in models.TodoInput) (models.Todo, error) {
	t, err := scanTodo(r.db.QueryRowContext(ctx,
		`UPDATE todos SET user_id = $1, title = $2 WHERE id = $3 RETURNING `+todoColumns,
		in.UserID, in.Title, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, models.ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository UpdateTodo failed", "error", err, "id", id)
		return models.Todo{}, err
	}
	return t, nil
}

// Delete removes a todo by id.
func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		logger.Error(ctx, "Repository DeleteTodo failed", "error", err, "id", id)
		return err
	}
	return requireAffected(res)
}
