package server

import (
	"net/http"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Email:    "maria@example.com",
		Username: "maria",
		Password: testPassword,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	user := decode[UserResponse](t, w)
	if user.Username != "maria" || user.IsAdmin {
		t.Errorf("unexpected user: %+v", user)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "maria@example.com",
		Password: testPassword,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	login := decode[LoginResponse](t, w)
	if login.Token == "" {
		t.Fatal("login: expected a session token")
	}

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", login.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", w.Code)
	}
	me := decode[UserResponse](t, w)
	if me.Email != "maria@example.com" {
		t.Errorf("me = %+v", me)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/logout", login.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", login.Token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name string
		req  RegisterRequest
		want int
	}{
		{"missing fields", RegisterRequest{Email: "a@example.com"}, http.StatusBadRequest},
		{"bad email", RegisterRequest{Email: "not-an-email", Username: "x", Password: testPassword}, http.StatusBadRequest},
		{"short password", RegisterRequest{Email: "a@example.com", Username: "x", Password: "short"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", tt.req)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := newTestRouter(t)

	req := RegisterRequest{Email: "maria@example.com", Username: "maria", Password: testPassword}
	doJSON(t, r, http.MethodPost, "/api/auth/register", "", req)

	req.Username = "maria2"
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Email: "maria@example.com", Username: "maria", Password: testPassword,
	})

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "maria@example.com", Password: "wrong password!",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
