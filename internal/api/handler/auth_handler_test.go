package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookloop/bookloop-api/internal/core/domain"
	"github.com/bookloop/bookloop-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error)
	validateFn func(ctx context.Context, email, password string) (*domain.User, error)
	loginFn    func(user *domain.User) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) ValidateUser(ctx context.Context, email, password string) (*domain.User, error) {
	return s.validateFn(ctx, email, password)
}

func (s *stubAuthService) Login(user *domain.User) (string, error) {
	return s.loginFn(user)
}

func newAuthTestContext(t *testing.T, body string) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e, e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
			if input.Name != "Angela" || input.Email != "angela@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.RegisterResult{
				Message: "Successfully registered user",
				User: &domain.User{
					ID:           "user_1",
					Name:         input.Name,
					Email:        input.Email,
					PasswordHash: "$2a$10$secret",
					Role:         domain.RoleUser,
				},
			}, nil
		},
	}
	handler := NewAuthHandler(stub, 7*24*time.Hour)

	_, c, rec := newAuthTestContext(t, `{"name":"Angela","email":"angela@example.com","password":"123456"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Successfully registered user" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["email"] != "angela@example.com" || user["role"] != "USER" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	for key := range user {
		if strings.Contains(strings.ToLower(key), "password") {
			t.Fatalf("password material leaked in response: %s", key)
		}
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, time.Hour)

	cases := map[string]string{
		"missing email":   `{"name":"Angela","password":"123456"}`,
		"malformed email": `{"name":"Angela","email":"not-an-email","password":"123456"}`,
		"short password":  `{"name":"Angela","email":"angela@example.com","password":"123"}`,
		"missing name":    `{"email":"angela@example.com","password":"123456"}`,
		"not json at all": `not-json`,
	}

	for name, body := range cases {
		e, c, rec := newAuthTestContext(t, body)
		if err := handler.Register(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, rec.Code)
		}
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	handler := NewAuthHandler(stub, time.Hour)

	_, c, _ := newAuthTestContext(t, `{"name":"Angela","email":"angela@example.com","password":"123456"}`)
	err := handler.Register(c)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken passthrough, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	ttl := 7 * 24 * time.Hour
	stub := &stubAuthService{
		validateFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			if email != "angela@example.com" || password != "1234" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.User{ID: "user_1", Email: email, Name: "Angela", Role: domain.RoleUser}, nil
		},
		loginFn: func(user *domain.User) (string, error) {
			return "token123", nil
		},
	}
	handler := NewAuthHandler(stub, ttl)

	_, c, rec := newAuthTestContext(t, `{"email":"angela@example.com","password":"1234"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token in body, got %v", resp["token"])
	}
	if resp["message"] != "Login successful" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}

	cookie := findCookie(t, rec, "token")
	if cookie.Value != "token123" {
		t.Fatalf("cookie value mismatch: %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatalf("token cookie must be httpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("token cookie must be SameSite=Lax")
	}
	if cookie.MaxAge != int(ttl.Seconds()) {
		t.Fatalf("cookie max-age %d does not match token ttl %d", cookie.MaxAge, int(ttl.Seconds()))
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		validateFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, time.Hour)

	_, c, rec := newAuthTestContext(t, `{"email":"angela@example.com","password":"wrong"}`)
	err := handler.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials passthrough, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie must be set on failed login")
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, time.Hour)

	_, c, rec := newAuthTestContext(t, ``)
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookie := findCookie(t, rec, "token")
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("expected expired empty cookie, got value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
}

func TestAuthHandler_WhoAmI(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, time.Hour)

	_, c, rec := newAuthTestContext(t, ``)
	c.Set("user_id", "user_1")
	c.Set("email", "angela@example.com")
	c.Set("name", "Angela")
	c.Set("role", "USER")

	if err := handler.WhoAmI(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "user_1" || resp["email"] != "angela@example.com" || resp["role"] != "USER" {
		t.Fatalf("unexpected identity payload: %+v", resp)
	}
}

func TestAuthHandler_WhoAmI_MissingClaims(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, time.Hour)

	e, c, rec := newAuthTestContext(t, ``)
	if err := handler.WhoAmI(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}
