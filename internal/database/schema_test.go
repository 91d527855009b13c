package database

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestInitSchemaCreatesUsersBeforeTodos(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users(")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS todos(")).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := InitSchema(context.Background(), db); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestInitSchemaStopsOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users(")).WillReturnError(errors.New("permission denied"))

	err = InitSchema(context.Background(), db)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "users") || !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("unexpected error text %q", err.Error())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("todos table must not be attempted after a failure: %v", err)
	}
}

func TestTodosReferenceUsersWithCascade(t *testing.T) {
	if !strings.Contains(createTodosTable, "REFERENCES users(id) ON DELETE CASCADE") {
		t.Error("todos.user_id must cascade on user delete")
	}
	if !strings.Contains(createUsersTable, "email VARCHAR(150) UNIQUE NOT NULL") {
		t.Error("users.email must be unique and required")
	}
}
