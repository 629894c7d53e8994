package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/swarmhq/feedback-gateway/internal/core/domain"
)

// stubSessions implements ports.SessionService for handler tests.
type stubSessions struct {
	cur        *domain.Session
	loginErr   error
	refreshErr error
	logouts    int
	registered []domain.RoleSet
}

func (s *stubSessions) Current() *domain.Session { return s.cur.Clone() }

func (s *stubSessions) Hydrate(context.Context) {}

func (s *stubSessions) Login(_ context.Context, username, _ string) (*domain.Session, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	s.cur = &domain.Session{UserID: "u1", Username: username, Token: "tok", Roles: domain.RoleSet{domain.RoleSubmitter}}
	return s.cur.Clone(), nil
}

func (s *stubSessions) Logout(context.Context) {
	s.logouts++
	s.cur = nil
}

func (s *stubSessions) Register(_ context.Context, _, _, _ string, roles domain.RoleSet) error {
	s.registered = append(s.registered, roles)
	return nil
}

func (s *stubSessions) Refresh(context.Context) (*domain.Session, error) {
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return s.cur.Clone(), nil
}

func (s *stubSessions) ForgotPassword(context.Context, string) error { return nil }

func (s *stubSessions) ResetPassword(context.Context, string, string) error { return nil }

func (s *stubSessions) Watch(func(*domain.Session)) {}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	sessions := &stubSessions{}
	h := NewAuthHandler(sessions)

	c, rec := newTestContext(t, http.MethodPost, "/login", `{"username":"alice","password":"pass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "tok") {
		t.Fatalf("response must not leak the bearer token: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"username":"alice"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	sessions := &stubSessions{loginErr: domain.ErrInvalidCredentials}
	h := NewAuthHandler(sessions)

	c, _ := newTestContext(t, http.MethodPost, "/login", `{"username":"alice","password":"nope"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubSessions{})

	c, _ := newTestContext(t, http.MethodPost, "/login", `{"username":"alice"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_Logout_AlwaysSucceeds(t *testing.T) {
	sessions := &stubSessions{}
	h := NewAuthHandler(sessions)

	for i := 0; i < 2; i++ {
		c, rec := newTestContext(t, http.MethodPost, "/logout", "")
		if err := h.Logout(c); err != nil {
			t.Fatalf("Logout returned error: %v", err)
		}
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	}
	if sessions.logouts != 2 {
		t.Fatalf("expected logout to be delegated both times, got %d", sessions.logouts)
	}
}

func TestAuthHandler_Register_DefaultsToSubmitter(t *testing.T) {
	sessions := &stubSessions{}
	h := NewAuthHandler(sessions)

	c, rec := newTestContext(t, http.MethodPost, "/register",
		`{"username":"bob","email":"bob@example.com","password":"secret1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(sessions.registered) != 1 || !sessions.registered[0].Has(domain.RoleSubmitter) {
		t.Fatalf("expected submitter default role, got %v", sessions.registered)
	}
}

func TestAuthHandler_Register_RejectsAdminRole(t *testing.T) {
	h := NewAuthHandler(&stubSessions{})

	c, _ := newTestContext(t, http.MethodPost, "/register",
		`{"username":"bob","email":"bob@example.com","password":"secret1","roles":["ROLE_ADMIN"]}`)
	err := h.Register(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("self-service admin registration must fail validation, got %v", err)
	}
}

func TestAuthHandler_Refresh_DiscardedResult(t *testing.T) {
	sessions := &stubSessions{} // nil current session, Refresh returns (nil, nil)
	h := NewAuthHandler(sessions)

	c, rec := newTestContext(t, http.MethodPost, "/refresh", "")
	if err := h.Refresh(c); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for discarded refresh, got %d", rec.Code)
	}
}

func TestAuthHandler_Refresh_Expired(t *testing.T) {
	sessions := &stubSessions{refreshErr: domain.ErrSessionExpired}
	h := NewAuthHandler(sessions)

	c, _ := newTestContext(t, http.MethodPost, "/refresh", "")
	if err := h.Refresh(c); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestAuthHandler_ForgotPassword_Validation(t *testing.T) {
	h := NewAuthHandler(&stubSessions{})

	c, _ := newTestContext(t, http.MethodPost, "/forgot-password", `{"email":"not-an-email"}`)
	if err := h.ForgotPassword(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	c, rec := newTestContext(t, http.MethodPost, "/forgot-password", `{"email":"a@example.com"}`)
	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
}
