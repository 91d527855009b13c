package database

import (
	"context"
	"database/sql"
	"fmt"

	"todo-server/pkg/logger"
)

const createUsersTable = `CREATE TABLE IF NOT EXISTS users(
	id SERIAL PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	email VARCHAR(150) UNIQUE NOT NULL,
	age INT,
	phone VARCHAR(15),
	address TEXT,
	created_at TIMESTAMP DEFAULT NOW(),
	updated_at TIMESTAMP DEFAULT NOW()
)`

const createTodosTable = `CREATE TABLE IF NOT EXISTS todos(
	id SERIAL PRIMARY KEY,
	user_id INT REFERENCES users(id) ON DELETE CASCADE,
	title VARCHAR(200) NOT NULL,
	description TEXT,
	completed BOOLEAN DEFAULT false,
	due_date DATE,
	created_at TIMESTAMP DEFAULT NOW(),
	updated_at TIMESTAMP DEFAULT NOW()
)`

// users must exist before todos references it.
var schema = []struct {
	table string
	ddl   string
}{
	{"users", createUsersTable},
	{"todos", createTodosTable},
}

// InitSchema creates the users and todos tables when they do not exist yet.
// Existing tables and rows are left untouched.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", s.table, err)
		}
		logger.Debug(ctx, "Table ensured", "table", s.table)
	}
	return nil
}
