package models

import "time"

type User struct {
	ID           string    `json:"id" bson:"_id,omitempty" db:"id"`
	Email        string    `json:"email" bson:"email" db:"email"`
	PasswordHash string    `json:"-" bson:"password_hash" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// Credentials is the body of POST /users and POST /login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
