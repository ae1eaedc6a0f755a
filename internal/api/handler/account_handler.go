package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/accounts-api/internal/api/metrics"
	"github.com/userhub/accounts-api/internal/core/ports"
)

// AccountHandler serves the /users and /account endpoints. Failures are
// returned to echo's HTTPErrorHandler, which renders the error envelope.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Name, email and password"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      500   {object}  api.errorResponse
// @Router       /users [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	res, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	metrics.RegistrationsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Status:  true,
		Message: "user created successfully",
		Token:   res.Token,
		ID:      res.ID,
		Active:  res.Active,
		Role:    res.Role,
	})
}

// Login authenticates a user and rotates their token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Router       /users/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return err
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	res, err := h.service.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	metrics.LoginsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Status:  true,
		Message: "user logged in successfully",
		Token:   res.Token,
		ID:      res.ID,
		Active:  res.Active,
		Role:    res.Role,
	})
}

// List handles GET /users?page=N.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page  query     int  false  "Page number (10 users per page)"
// @Success      200   {object}  listUsersResponse
// @Failure      500   {object}  api.errorResponse
// @Router       /users [get]
func (h *AccountHandler) List(c echo.Context) error {
	page, err := h.service.ListUsers(c.Request().Context(), pageParam(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Status:     len(page.Users) > 0,
		Page:       page.Page,
		PagesCount: page.PagesCount,
		Result:     page.Users,
	})
}

// Get handles GET /users/:id.
//
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  api.errorResponse
// @Router       /users/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	view, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Status: true, Data: *view})
}

// Update handles PATCH /users/:id.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      403   {object}  api.errorResponse
// @Failure      500   {object}  api.errorResponse
// @Router       /users/{id} [patch]
func (h *AccountHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bindJSON(c, &req); err != nil {
		metrics.AccountOperationsTotal.WithLabelValues("update_self", "invalid").Inc()
		return err
	}

	view, err := h.service.UpdateSelf(c.Request().Context(), ports.UpdateSelfInput{
		ID:    c.Param("id"),
		Token: bearerToken(c),
		Patch: ports.UserPatch{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Role:     presentInt(req.Role),
			Active:   presentInt(req.Active),
		},
	})
	metrics.AccountOperationsTotal.WithLabelValues("update_self", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Status: true, Data: *view})
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete own account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      deleteUserRequest  true  "Current password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      403   {object}  api.errorResponse
// @Failure      500   {object}  api.errorResponse
// @Router       /users/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	var req deleteUserRequest
	if err := bindJSON(c, &req); err != nil {
		metrics.AccountOperationsTotal.WithLabelValues("delete_self", "invalid").Inc()
		return err
	}

	err := h.service.DeleteSelf(c.Request().Context(), ports.DeleteSelfInput{
		ID:       c.Param("id"),
		Token:    bearerToken(c),
		Password: req.Password,
	})
	metrics.AccountOperationsTotal.WithLabelValues("delete_self", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Status: true, Message: "User deleted successfully"})
}

// Account handles GET /account.
//
// @Summary      Get own account
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      400  {object}  api.errorResponse
// @Failure      403  {object}  api.errorResponse
// @Router       /account [get]
func (h *AccountHandler) Account(c echo.Context) error {
	view, err := h.service.GetSelf(c.Request().Context(), bearerToken(c))
	metrics.AccountOperationsTotal.WithLabelValues("get_self", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Status: true, Data: *view})
}
