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

// UserStore is the users table access the handlers need.
type UserStore interface {
	Create(ctx context.Context, in models.UserInput) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (models.User, error)
	Update(ctx context.Context, id int64, in models.UserInput) (models.User, error)
	Delete(ctx context.Context, id int64) error
}

// UserController serves /users.
type UserController struct {
	store   UserStore
	lists   *Lists
	changes *changes
}

// NewUserController wires the handlers to the store. Pass the same lists to every
// controller; a nil lists gets an uncached one. events may be nil.
func NewUserController(store UserStore, lists *Lists, events EventPublisher) *UserController {
	if lists == nil {
		lists = NewLists(nil)
	}
	return &UserController{
		store:   store,
		lists:   lists,
		changes: &changes{lists: lists, events: events},
	}
}

// CreateUser handles POST /users.
func (h *UserController) CreateUser(c *gin.Context) {
	ctx := c.Request.Context()
	var in models.UserInput
	if err := bindBody(c, &in); err != nil {
		serverError(c, "CreateUser", err)
		return
	}
	u, err := h.store.Create(ctx, in)
	if err != nil {
		serverError(c, "CreateUser", err)
		return
	}
	h.changes.record(ctx, models.EntityUser, models.ActionCreate, u.ID)
	utils.Send(c, http.StatusCreated, true, "user created successfully", u)
}

// GetUsers handles GET /users.
func (h *UserController) GetUsers(c *gin.Context) {
	b, err := h.lists.load(c.Request.Context(), cache.UsersKey, func(ctx context.Context) (any, error) {
		return h.store.List(ctx)
	})
	if err != nil {
		serverError(c, "GetUsers", err)
		return
	}
	utils.Send(c, http.StatusOK, true, "user fetch successfully", b)
}

// GetUser handles GET /users/:id.
func (h *UserController) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		notFound(c, models.EntityUser)
		return
	}
	u, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		notFound(c, models.EntityUser)
		return
	}
	if err != nil {
		serverError(c, "GetUser", err)
		return
	}
	utils.Send(c, http.StatusOK, true, "single user fetch successfully", u)
}

// UpdateUser handles PUT /users/:id. Both name and email are overwritten.
func (h *UserController) UpdateUser(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		notFound(c, models.EntityUser)
		return
	}
	var in models.UserInput
	if err := bindBody(c, &in); err != nil {
		serverError(c, "UpdateUser", err)
		return
	}
	u, err := h.store.Update(ctx, id, in)
	if errors.Is(err, models.ErrNotFound) {
		notFound(c, models.EntityUser)
		return
	}
	if err != nil {
		serverError(c, "UpdateUser", err)
		return
	}
	h.changes.record(ctx, models.EntityUser, models.ActionUpdate, u.ID)
	utils.Send(c, http.StatusOK, true, "update user successfully", u)
}

// DeleteUser handles DELETE /users/:id. The user's todos go with it.
func (h *UserController) DeleteUser(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		notFound(c, models.EntityUser)
		return
	}
	err := h.store.Delete(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		notFound(c, models.EntityUser)
		return
	}
	if err != nil {
		serverError(c, "DeleteUser", err)
		return
	}
	h.changes.record(ctx, models.EntityUser, models.ActionDelete, id)
	utils.Send(c, http.StatusOK, true, "user delete successfully", nil)
}
