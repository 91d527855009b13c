package models

import "time"

// Entity names, also used in response messages.
const (
	EntityUser = "user"
	EntityTodo = "todo"
)

// Change actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ChangeEvent is the Kafka payload published after a successful mutation.
type ChangeEvent struct {
	ID         string    `json:"id"`
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	EntityID   int64     `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
