package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account document in the users collection. The password hash and
// the current refresh-token value are never serialized to clients.
type User struct {
	ID                  primitive.ObjectID   `json:"id"                             bson:"_id,omitempty"`
	Name                string               `json:"name"                           bson:"name"`
	Email               string               `json:"email"                          bson:"email"`
	Password            string               `json:"-"                              bson:"password"`
	Avatar              string               `json:"avatar,omitempty"               bson:"avatar,omitempty"`
	Role                string               `json:"role"                           bson:"role"`
	Verified            bool                 `json:"verified"                       bson:"verified"`
	RefreshToken        string               `json:"-"                              bson:"refresh_token,omitempty"`
	ResetPasswordToken  string               `json:"-"                              bson:"reset_password_token,omitempty"`
	ResetPasswordExpire time.Time            `json:"-"                              bson:"reset_password_expire,omitempty"`
	Applications        []primitive.ObjectID `json:"applications,omitempty"         bson:"applications,omitempty"`
	CreatedAt           time.Time            `json:"created_at"                     bson:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"                     bson:"updated_at"`
}

// RegisterRequest is the JSON body for POST /api/v1/auth/register.
type RegisterRequest struct {
	Name            string `json:"name"            validate:"required,min=3"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=8,max=32"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest is the JSON body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest is the JSON body for PUT /api/v1/users/me. The current
// password must verify before any field is changed.
type UpdateUserRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required,min=8"`
	Name            string `json:"name"            validate:"omitempty,min=3"`
	Email           string `json:"email"           validate:"omitempty,email"`
	NewPassword     string `json:"newPassword"     validate:"omitempty,min=8,max=32"`
}
