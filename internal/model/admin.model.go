package model

import "time"

// Admin is a dashboard operator. PasswordHash holds a bcrypt hash.
type Admin struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (p LoginRequest) Validate() error {
	return validateStruct(p, "Username and password required")
}
