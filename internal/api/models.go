package api

import (
	"time"

	"github.com/phrazzld/accounts-api/internal/domain"
)

// Response messages used in the {data, message} envelope.
const (
	MessageSignup  = "signup"
	MessageLogin   = "login"
	MessageLogout  = "logout"
	MessageFindAll = "findAll"
	MessageFindOne = "findOne"
	MessageCreated = "created"
	MessageUpdated = "updated"
	MessageDeleted = "deleted"
)

// CredentialsRequest is the body of /signup and /login.
type CredentialsRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Email    string  `json:"email"    validate:"required,email"`
	Password string  `json:"password" validate:"required,max=72"`
	Name     *string `json:"name"     validate:"omitempty,max=255"`
}

// UpdateUserRequest is the body of PUT /users/{id}. An omitted password
// keeps the current one.
type UpdateUserRequest struct {
	Email    string  `json:"email"    validate:"required,email"`
	Password string  `json:"password" validate:"omitempty,max=72"`
	Name     *string `json:"name"     validate:"omitempty,max=255"`
}

// UserResponse is the public view of a user. It never includes the
// password hash.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse converts a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUserResponses converts a list of domain users.
func NewUserResponses(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
