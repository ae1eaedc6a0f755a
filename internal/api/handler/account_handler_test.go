package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/userhub/accounts-api/internal/api/middleware"
	"github.com/userhub/accounts-api/internal/core/domain"
	"github.com/userhub/accounts-api/internal/core/ports"
)

type stubAccountService struct {
	registerFn   func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn      func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error)
	getSelfFn    func(ctx context.Context, token string) (*domain.UserView, error)
	listFn       func(ctx context.Context, page int) (*ports.UserPage, error)
	getUserFn    func(ctx context.Context, id string) (*domain.UserView, error)
	updateSelfFn func(ctx context.Context, in ports.UpdateSelfInput) (*domain.UserView, error)
	deleteSelfFn func(ctx context.Context, in ports.DeleteSelfInput) error
}

func (s *stubAccountService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAccountService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAccountService) GetSelf(ctx context.Context, token string) (*domain.UserView, error) {
	return s.getSelfFn(ctx, token)
}

func (s *stubAccountService) ListUsers(ctx context.Context, page int) (*ports.UserPage, error) {
	return s.listFn(ctx, page)
}

func (s *stubAccountService) GetUser(ctx context.Context, id string) (*domain.UserView, error) {
	return s.getUserFn(ctx, id)
}

func (s *stubAccountService) UpdateSelf(ctx context.Context, in ports.UpdateSelfInput) (*domain.UserView, error) {
	return s.updateSelfFn(ctx, in)
}

func (s *stubAccountService) DeleteSelf(ctx context.Context, in ports.DeleteSelfInput) error {
	return s.deleteSelfFn(ctx, in)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func expectMessage(t *testing.T, err error, want string) {
	t.Helper()
	msg, ok := domain.Message(err)
	if !ok {
		t.Fatalf("expected domain error %q, got %v", want, err)
	}
	if msg != want {
		t.Fatalf("expected message %q, got %q", want, msg)
	}
}

// ---------------------------------------------------------------------------
// Register / Login
// ---------------------------------------------------------------------------

func TestAccountHandler_Register_Success(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Name != "A" || in.Email != "a@b.com" || in.Password != "secret1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{Token: "tok", ID: "id1", Role: 0, Active: 1}, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/users", `{"name":"A","email":"a@b.com","password":"secret1"}`)

	if err := NewAccountHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["status"] != true || resp["token"] != "tok" || resp["id"] != "id1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["message"] != "user created successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	if _, ok := resp["password"]; ok {
		t.Fatalf("password leaked: %+v", resp)
	}
}

func TestAccountHandler_Register_InvalidInput(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	cases := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", "not-json", "Invalid JSON payload"},
		{"missing field", `{"name":"A","email":"a@b.com"}`, "please enter all data"},
		{"missing beats malformed", `{"name":"A","email":"bad"}`, "please enter all data"},
		{"bad email", `{"name":"A","email":"bad","password":"x"}`, "Invalid email"},
		{"password not a string", `{"name":"A","email":"a@b.com","password":123}`, "Password must be a string"},
		{"name not a string", `{"name":true,"email":"a@b.com","password":"x"}`, "Name must be a string"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/users", tc.body)
			err := NewAccountHandler(stub).Register(c)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			expectMessage(t, err, tc.want)
		})
	}
}

func TestAccountHandler_Register_Conflict(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrEmailExists
		},
	}
	c, _ := newTestContext(http.MethodPost, "/users", `{"name":"A","email":"a@b.com","password":"x"}`)

	if err := NewAccountHandler(stub).Register(c); err != domain.ErrEmailExists {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAccountHandler_Login_Success(t *testing.T) {
	stub := &stubAccountService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
			if in.Email != "a@b.com" || in.Password != "secret1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{Token: "tok2", ID: "id1", Role: 1, Active: 1}, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/users/login", `{"email":"a@b.com","password":"secret1"}`)

	if err := NewAccountHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["token"] != "tok2" || resp["role"] != float64(1) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["message"] != "user logged in successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestAccountHandler_Login_Failures(t *testing.T) {
	stub := &stubAccountService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
			return nil, domain.ErrBadCredentials
		},
	}

	c, _ := newTestContext(http.MethodPost, "/users/login", `{"email":"a@b.com","password":"bad"}`)
	if err := NewAccountHandler(stub).Login(c); err != domain.ErrBadCredentials {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}

	c, _ = newTestContext(http.MethodPost, "/users/login", "{")
	expectMessage(t, NewAccountHandler(stub).Login(c), "Invalid JSON payload")
}

// ---------------------------------------------------------------------------
// List / Get
// ---------------------------------------------------------------------------

func TestAccountHandler_List(t *testing.T) {
	var gotPage int
	stub := &stubAccountService{
		listFn: func(ctx context.Context, page int) (*ports.UserPage, error) {
			gotPage = page
			return &ports.UserPage{
				Page:       page,
				PagesCount: 1,
				Users:      []domain.UserView{{ID: "1", Name: "A", Active: 1}},
			}, nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/users?page=1", "")

	if err := NewAccountHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotPage != 1 {
		t.Fatalf("expected page 1, got %d", gotPage)
	}
	resp := decodeBody(t, rec)
	if resp["status"] != true || resp["pagesCount"] != float64(1) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	result := resp["result"].([]any)
	if len(result) != 1 {
		t.Fatalf("expected one user, got %d", len(result))
	}
}

func TestAccountHandler_List_EmptyPage(t *testing.T) {
	stub := &stubAccountService{
		listFn: func(ctx context.Context, page int) (*ports.UserPage, error) {
			if page != 1 {
				t.Fatalf("unparsable page must fall back to 1, got %d", page)
			}
			return &ports.UserPage{Page: page, Users: []domain.UserView{}}, nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/users?page=abc", "")

	if err := NewAccountHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["status"] != false {
		t.Fatalf("expected status false for empty page, got %+v", resp)
	}
	if result, ok := resp["result"].([]any); !ok || len(result) != 0 {
		t.Fatalf("expected empty result list, got %+v", resp["result"])
	}
}

func TestAccountHandler_Get(t *testing.T) {
	stub := &stubAccountService{
		getUserFn: func(ctx context.Context, id string) (*domain.UserView, error) {
			if id != "abc" {
				return nil, domain.ErrNoSuchUser
			}
			return &domain.UserView{ID: "abc", Name: "E", Email: "e@b.com", Role: 1, Active: 1}, nil
		},
	}
	h := NewAccountHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/users/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	if data["email"] != "e@b.com" {
		t.Fatalf("unexpected data: %+v", data)
	}
	if _, ok := data["token"]; ok {
		t.Fatalf("token leaked: %+v", data)
	}

	c, _ = newTestContext(http.MethodGet, "/users/nope", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")
	if err := h.Get(c); err != domain.ErrNoSuchUser {
		t.Fatalf("expected ErrNoSuchUser, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update / Delete / Account
// ---------------------------------------------------------------------------

func TestAccountHandler_Update_MapsPatch(t *testing.T) {
	stub := &stubAccountService{
		updateSelfFn: func(ctx context.Context, in ports.UpdateSelfInput) (*domain.UserView, error) {
			if in.ID != "id1" || in.Token != "tok" {
				t.Fatalf("unexpected identity: %+v", in)
			}
			if in.Patch.Name == nil || *in.Patch.Name != "B" {
				t.Fatalf("name not mapped: %+v", in.Patch)
			}
			if in.Patch.Email != nil || in.Patch.Password != nil || in.Patch.Role != nil || in.Patch.Active != nil {
				t.Fatalf("unexpected fields in patch: %+v", in.Patch)
			}
			return &domain.UserView{ID: "id1", Name: "B", Email: "a@b.com", Token: "tok"}, nil
		},
	}
	c, rec := newTestContext(http.MethodPatch, "/users/id1", `{"name":"B"}`)
	c.SetParamNames("id")
	c.SetParamValues("id1")
	c.Set(middleware.ContextKeyToken, "tok")

	if err := NewAccountHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	if data["name"] != "B" {
		t.Fatalf("unexpected data: %+v", data)
	}
	if _, ok := data["password"]; ok {
		t.Fatalf("password leaked: %+v", data)
	}
}

func TestAccountHandler_Update_RoleAndActiveReachService(t *testing.T) {
	bodies := []string{`{"role":1}`, `{"role":"1"}`, `{"active":0}`, `{"active":"yes"}`}
	for _, body := range bodies {
		stub := &stubAccountService{
			updateSelfFn: func(ctx context.Context, in ports.UpdateSelfInput) (*domain.UserView, error) {
				if in.Patch.Role == nil && in.Patch.Active == nil {
					t.Fatalf("body %s: role/active dropped from patch", body)
				}
				return nil, domain.NewError(domain.ErrForbidden, "Cannot update role by user")
			},
		}
		c, _ := newTestContext(http.MethodPatch, "/users/id1", body)
		c.Set(middleware.ContextKeyToken, "tok")

		if err := NewAccountHandler(stub).Update(c); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("body %s: expected forbidden, got %v", body, err)
		}
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	stub := &stubAccountService{
		deleteSelfFn: func(ctx context.Context, in ports.DeleteSelfInput) error {
			if in.ID != "id1" || in.Token != "tok" || in.Password != "secret1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil
		},
	}
	c, rec := newTestContext(http.MethodDelete, "/users/id1", `{"password":"secret1"}`)
	c.SetParamNames("id")
	c.SetParamValues("id1")
	c.Set(middleware.ContextKeyToken, "tok")

	if err := NewAccountHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["status"] != true || resp["message"] != "User deleted successfully" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAccountHandler_Delete_WrongPassword(t *testing.T) {
	stub := &stubAccountService{
		deleteSelfFn: func(ctx context.Context, in ports.DeleteSelfInput) error {
			return domain.ErrWrongPassword
		},
	}
	c, _ := newTestContext(http.MethodDelete, "/users/id1", `{"password":"nope"}`)
	c.Set(middleware.ContextKeyToken, "tok")

	if err := NewAccountHandler(stub).Delete(c); err != domain.ErrWrongPassword {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}

func TestAccountHandler_Account(t *testing.T) {
	stub := &stubAccountService{
		getSelfFn: func(ctx context.Context, token string) (*domain.UserView, error) {
			if token == "" {
				return nil, domain.ErrMissingToken
			}
			return &domain.UserView{ID: "id1", Name: "A", Email: "a@b.com", Token: token}, nil
		},
	}
	h := NewAccountHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/account", "")
	c.Set(middleware.ContextKeyToken, "tok")
	if err := h.Account(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	if data["token"] != "tok" || data["email"] != "a@b.com" {
		t.Fatalf("unexpected data: %+v", data)
	}

	c, _ = newTestContext(http.MethodGet, "/account", "")
	if err := h.Account(c); err != domain.ErrMissingToken {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestDemo(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/", "")

	if err := Demo(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["name"] != "Demo" || resp["message"] != "Hello World!" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/health", "")

	if err := NewHealthHandler(nil, nil).Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness_WithoutStore(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/health/ready", "")

	if err := NewHealthHandler(nil, nil).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	deps := decodeBody(t, rec)["dependencies"].(map[string]any)
	if deps["redis"].(map[string]any)["status"] != "disabled" {
		t.Fatalf("unexpected redis status: %+v", deps["redis"])
	}
}
