package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"todo-server/internal/cache"
	"todo-server/internal/models"
	"todo-server/internal/utils"
)

// TodoStore is the todos table access the handlers need.
type TodoStore interface {
	Create(ctx context.Context, in models.TodoInput) (models.Todo, error)
	List(ctx context.Context) ([]models.Todo, error)
	Get(ctx context.Context, id int64) (models.Todo, error)
	Update(ctx context.Context, id int64, in models.TodoInput) (models.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// TodoController serves /todos.
type TodoController struct {
	store   TodoStore
	lists   *Lists
	changes *changes
}

// NewTodoController wires the handlers to the store. Pass the same lists to every
// controller; a nil lists gets an uncached one. events may be nil.
func NewTodoController(store TodoStore, lists *Lists, events EventPublisher) *TodoController {
	if lists == nil {
		lists = NewLists(nil)
	}
	return &TodoController{
		store:   store,
		lists:   lists,
		changes: &changes{lists: lists, events: events},
	}
}

// CreateTodo handles POST /todos. A user_id that references no user fails in the store.
func (h *TodoController) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	var in models.TodoInput
	if err := bindBody(c, &in); err != nil {
		serverError(c, "CreateTodo", err)
		return
	}
	t, err := h.store.Create(ctx, in)
	if err != nil {
		serverError(c, "CreateTodo", err)
		return
	}
	h.changes.record(ctx, models.EntityTodo, models.ActionCreate, t.ID)
	utils.Send(c, http.StatusCreated, true, "todo created successfully", t)
}

// GetTodos handles GET /todos.
func (h *TodoController) GetTodos(c *gin.Context) {
	b, err := h.lists.load(c.Request.Context(), cache.TodosKey, func(ctx context.Context) (any, error) {
		return h.store.List(ctx)
	})
	if err != nil {
		serverError(c, "GetTodos", err)
		return
	}
	utils.Send(c, http.StatusOK, true, "todo fetch successfully", b)
}

// GetTodo handles GET /todos/:id.
func (h *TodoController) GetTodo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFound(c, models.EntityTodo)
		return
	}
	t, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		notFound(c, models.EntityTodo)
		return
	}
	if err != nil {
		serverError(c, "GetTodo", err)
		return
	}
	utils.Send(c, http.StatusOK, true, "single todo fetch successfully", t)
}

// UpdateTodo handles PUT /todos/:id, overwriting user_id and title.
func (h *TodoController) UpdateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		notFound(c, models.EntityTodo)
		return
	}
	var in models.TodoInput
	if err := bindBody(c, &in); err != nil {
		serverError(c, "UpdateTodo", err)
		return
	}
	t, err := h.store.Update(ctx, id, in)
	if errors.Is(err, models.ErrNotFound) {
		notFound(c, models.EntityTodo)
		return
	}
	if err != nil {
		serverError(c, "UpdateTodo", err)
		return
	}
	h.changes.record(ctx, models.EntityTodo, models.ActionUpdate, t.ID)
	utils.Send(c, http.StatusOK, true, "update todo successfully", t)
}

// DeleteTodo handles DELETE /todos/:id.
func (h *TodoController) DeleteTodo(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		notFound(c, models.EntityTodo)
		return
	}
	err := h.store.Delete(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		notFound(c, models.EntityTodo)
		return
	}
	if err != nil {
		serverError(c, "DeleteTodo", err)
		return
	}
	h.changes.record(ctx, models.EntityTodo, models.ActionDelete, id)
	utils.Send(c, http.StatusOK, true, "todo delete successfully", nil)
}
