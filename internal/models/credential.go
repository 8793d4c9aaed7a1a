package models

import "time"

// Namespace separates user and admin accounts; an email is unique within a
// namespace only.
type Namespace struct {
	Name       string
	Collection string
	Role       string
}

var (
	Users  = Namespace{Name: "user", Collection: "users", Role: "user"}
	Admins = Namespace{Name: "admin", Collection: "admins", Role: "admin"}
)

type Credential struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
