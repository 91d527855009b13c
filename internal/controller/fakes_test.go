package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"todo-server/internal/models"
)

// memDB emulates the constraints of the two tables: required columns,
// unique email, todos.user_id foreign key and cascade on user delete.
type memDB struct {
	mu       sync.Mutex
	nextUser int64
	nextTodo int64
	users    map[int64]models.User
	todos    map[int64]models.Todo
	failWith error
}

func newMemDB() *memDB {
	return &memDB{users: map[int64]models.User{}, todos: map[int64]models.Todo{}}
}

type memUsers struct{ db *memDB }
type memTodos struct{ db *memDB }

func (m *memDB) checkUser(id int64, in models.UserInput) error {
	if in.Name == nil {
		return errors.New(`null value in column "name" violates not-null constraint`)
	}
	if in.Email == nil {
		return errors.New(`null value in column "email" violates not-null constraint`)
	}
	for _, u := range m.users {
		if u.ID != id && u.Email == *in.Email {
			return errors.New(`duplicate key value violates unique constraint "users_email_key"`)
		}
	}
	return nil
}

func (m *memDB) checkTodo(in models.TodoInput) error {
	if in.Title == nil {
		return errors.New(`null value in column "title" violates not-null constraint`)
	}
	if in.UserID != nil {
		if _, ok := m.users[*in.UserID]; !ok {
			return errors.New(`insert or update on table "todos" violates foreign key constraint "todos_user_id_fkey"`)
		}
	}
	return nil
}

func (s memUsers) Create(_ context.Context, in models.UserInput) (models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failWith != nil {
		return models.User{}, s.db.failWith
	}
	if err := s.db.checkUser(0, in); err != nil {
		return models.User{}, err
	}
	s.db.nextUser++
	now := time.Now()
	u := models.User{ID: s.db.nextUser, Name: *in.Name, Email: *in.Email, CreatedAt: now, UpdatedAt: now}
	s.db.users[u.ID] = u
	return u, nil
}

func (s memUsers) List(_ context.Context) ([]models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failWith != nil {
		return nil, s.db.failWith
	}
	out := make([]models.User, 0, len(s.db.users))
	for _, u := range s.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memUsers) Get(_ context.Context, id int64) (models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return u, nil
}

func (s memUsers) Update(_ context.Context, id int64, in models.UserInput) (models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	if err := s.db.checkUser(id, in); err != nil {
		return models.User{}, err
	}
	u.Name, u.Email = *in.Name, *in.Email
	s.db.users[id] = u
	return u, nil
}

func (s memUsers) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.db.users, id)
	for tid, t := range s.db.todos {
		if t.UserID != nil && *t.UserID == id {
			delete(s.db.todos, tid)
		}
	}
	return nil
}

func (s memTodos) Create(_ context.Context, in models.TodoInput) (models.Todo, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.checkTodo(in); err != nil {
		return models.Todo{}, err
	}
	s.db.nextTodo++
	now := time.Now()
	t := models.Todo{ID: s.db.nextTodo, UserID: in.UserID, Title: *in.Title, CreatedAt: now, UpdatedAt: now}
	s.db.todos[t.ID] = t
	return t, nil
}

func (s memTodos) List(_ context.Context) ([]models.Todo, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]models.Todo, 0, len(s.db.todos))
	for _, t := range s.db.todos {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memTodos) Get(_ context.Context, id int64) (models.Todo, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	t, ok := s.db.todos[id]
	if !ok {
		return models.Todo{}, models.ErrNotFound
	}
	return t, nil
}

func (s memTodos) Update(_ context.Context, id int64, in models.TodoInput) (models.Todo, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	t, ok := s.db.todos[id]
	if !ok {
		return models.Todo{}, models.ErrNotFound
	}
	if err := s.db.checkTodo(in); err != nil {
		return models.Todo{}, err
	}
	t.UserID, t.Title = in.UserID, *in.Title
	s.db.todos[id] = t
	return t, nil
}

func (s memTodos) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.todos[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.db.todos, id)
	return nil
}

// memCache records invalidations on top of a map.
type memCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	invalidated []string
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) GetList(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	return b, ok
}

func (c *memCache) SetList(_ context.Context, key string, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = b
}

func (c *memCache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.invalidated = append(c.invalidated, k)
	}
}

type memEvents struct {
	mu     sync.Mutex
	events []models.ChangeEvent
	err    error
}

func (e *memEvents) Publish(_ context.Context, ev models.ChangeEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, ev)
	return nil
}

type testServer struct {
	engine *gin.Engine
	db     *memDB
	cache  *memCache
	events *memEvents
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newMemDB()
	lc := newMemCache()
	ev := &memEvents{}
	lists := NewLists(lc)
	users := NewUserController(memUsers{db}, lists, ev)
	todos := NewTodoController(memTodos{db}, lists, ev)

	r := gin.New()
	r.GET("/", Root)
	r.POST("/users", users.CreateUser)
	r.GET("/users", users.GetUsers)
	r.GET("/users/:id", users.GetUser)
	r.PUT("/users/:id", users.UpdateUser)
	r.DELETE("/users/:id", users.DeleteUser)
	r.POST("/todos", todos.CreateTodo)
	r.GET("/todos", todos.GetTodos)
	r.GET("/todos/:id", todos.GetTodo)
	r.PUT("/todos/:id", todos.UpdateTodo)
	r.DELETE("/todos/:id", todos.DeleteTodo)
	return &testServer{engine: r, db: db, cache: lc, events: ev}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: response is not an envelope: %v (%s)", method, path, err, w.Body.String())
	}
	return w.Code, env
}

func (s *testServer) createUser(t *testing.T, name, email string) models.User {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/users", fmt.Sprintf(`{"name":%q,"email":%q}`, name, email))
	if code != http.StatusCreated {
		t.Fatalf("create user: expected 201, got %d (%s)", code, env.Message)
	}
	var u models.User
	if err := json.Unmarshal(env.Data, &u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	return u
}

func (s *testServer) createTodo(t *testing.T, userID int64, title string) models.Todo {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/todos", fmt.Sprintf(`{"user_id":%d,"title":%q}`, userID, title))
	if code != http.StatusCreated {
		t.Fatalf("create todo: expected 201, got %d (%s)", code, env.Message)
	}
	var td models.Todo
	if err := json.Unmarshal(env.Data, &td); err != nil {
		t.Fatalf("decode todo: %v", err)
	}
	return td
}
