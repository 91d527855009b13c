package models

import "time"

// Todo is a row of the todos table.
type Todo struct {
	ID          int64      `json:"id"`
	UserID      *int64     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TodoInput is the writable subset of a todo.
type TodoInput struct {
	UserID *int64  `json:"user_id"`
	Title  *string `json:"title"`
}
