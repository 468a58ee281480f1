package models

import "time"

// Session binds a browser cookie to an account id. Stored outside the database.
type Session struct {
	ID        string    `json:"-"`
	AccountID int       `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}
