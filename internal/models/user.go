package models

import "time"

// User is a row of the users table.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       *int      `json:"age"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserInput is the writable subset of a user. Omitted fields stay nil and are stored as NULL.
type UserInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
