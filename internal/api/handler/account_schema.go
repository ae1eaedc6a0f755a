package handler

import "github.com/userhub/accounts-api/internal/core/domain"

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,account_email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// updateUserRequest is a partial edit. Role and Active are decoded loosely so
// that any attempt to send them can be refused, whatever the JSON type.
type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     any     `json:"role"`
	Active   any     `json:"active"`
}

type deleteUserRequest struct {
	Password string `json:"password"`
}

// --- Response types ---

type authResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token"`
	ID      string `json:"id"`
	Active  int    `json:"active"`
	Role    int    `json:"role"`
}

type userResponse struct {
	Status bool            `json:"status"`
	Data   domain.UserView `json:"data"`
}

type listUsersResponse struct {
	Status     bool              `json:"status"`
	Page       int               `json:"page"`
	PagesCount int               `json:"pagesCount"`
	Result     []domain.UserView `json:"result"`
}

type messageResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

type demoResponse struct {
	Name    string   `json:"name"`
	Message string   `json:"message"`
	Icon    string   `json:"icon"`
	Stack   []string `json:"stack"`
}
