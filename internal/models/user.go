package models

import "time"

// User is a row of the users table.
type User struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Avatar    *string   `db:"avatar" json:"avatar,omitempty"`
	IsOnline  bool      `db:"is_online" json:"isOnline"`
	LastSeen  time.Time `db:"last_seen" json:"lastSeen"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// UserProfile is the public subset of a user shared with other participants.
type UserProfile struct {
	ID       string  `db:"id" json:"id"`
	Username string  `db:"username" json:"username"`
	Avatar   *string `db:"avatar" json:"avatar"`
	IsOnline bool    `db:"is_online" json:"isOnline"`
}
