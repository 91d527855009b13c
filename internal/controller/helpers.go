package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
	"todo-server/internal/cache"
	"todo-server/internal/database"
	"todo-server/internal/models"
	"todo-server/internal/queue"
	"todo-server/internal/utils"
	"todo-server/pkg/logger"
)

// ListCache holds serialized list responses.
type ListCache interface {
	GetList(ctx context.Context, key string) ([]byte, bool)
	SetList(ctx context.Context, key string, b []byte)
	Invalidate(ctx context.Context, keys ...string)
}

// EventPublisher announces successful mutations.
type EventPublisher interface {
	Publish(ctx context.Context, ev models.ChangeEvent) error
}

// Lists serves list reads from the cache, collapsing concurrent misses into one
// query. One Lists is shared by all controllers so a user delete also retires
// in-flight todo list loads.
type Lists struct {
	cache ListCache
	group singleflight.Group

	mu  sync.Mutex
	gen map[string]uint64
}

// NewLists returns a loader over lc, which may be nil.
func NewLists(lc ListCache) *Lists {
	return &Lists{cache: lc, gen: map[string]uint64{}}
}

func (l *Lists) generation(key string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen[key]
}

// invalidate must run after the write commits. Requests that start afterwards
// never join a load that began before it, and that load does not refill the cache.
func (l *Lists) invalidate(ctx context.Context, keys ...string) {
	l.mu.Lock()
	for _, k := range keys {
		l.gen[k]++
		l.group.Forget(k)
	}
	l.mu.Unlock()
	if l.cache != nil {
		l.cache.Invalidate(ctx, keys...)
	}
}

// fill stores b unless key was invalidated since gen was read. The check and the
// write share the lock with the generation bump, so a racing invalidate either
// sees the entry and deletes it or makes fill skip it.
func (l *Lists) fill(ctx context.Context, key string, gen uint64, b []byte) {
	if l.cache == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen[key] != gen {
		return
	}
	l.cache.SetList(ctx, key, b)
}

func (l *Lists) load(ctx context.Context, key string, fetch func(context.Context) (any, error)) (json.RawMessage, error) {
	if l.cache != nil {
		if b, ok := l.cache.GetList(ctx, key); ok {
			if json.Valid(b) {
				return b, nil
			}
			logger.Warn(ctx, "Cached list is not valid JSON; reloading", "key", key)
		}
	}
	v, err, _ := l.group.Do(key, func() (any, error) {
		gen := l.generation(key)
		items, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		l.fill(ctx, key, gen, b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// changes runs after every successful mutation: stale lists are dropped before
// the response is written, then the change event is published.
type changes struct {
	lists  *Lists
	events EventPublisher
}

func (ch *changes) record(ctx context.Context, entity, action string, id int64) {
	ch.lists.invalidate(ctx, cache.KeysFor(entity)...)
	if ch.events == nil {
		return
	}
	if err := ch.events.Publish(ctx, queue.NewEvent(entity, action, id)); err != nil {
		logger.Warn(ctx, "Change event publish failed", "error", err, "entity", entity, "action", action, "id", id)
	}
}

// parseID reads the :id path parameter. Ids outside the int4 range of the
// serial columns can never match a row.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	return id, err == nil
}

// bindBody decodes the JSON body into v. An empty body leaves v untouched.
func bindBody(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func notFound(c *gin.Context, entity string) {
	utils.Send(c, http.StatusNotFound, false, entity+" not found", nil)
}

func serverError(c *gin.Context, op string, err error) {
	ctx := c.Request.Context()
	logger.Error(ctx, op+" failed", "error", err, "pg_code", database.ErrorCode(err))
	utils.Send(c, http.StatusInternalServerError, false, err.Error(), nil)
}

// Root answers GET / with a plain text greeting.
func Root(c *gin.Context) {
	c.String(http.StatusOK, "Hello World.......This is a Todo server!")
}
