package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/filehost/filehost/internal/models"
)

func TestRegisterHandler(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("registers new user", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/register", map[string]any{
			"username": "alice",
			"password": "pw1",
			"email":    "a@x.com",
		}, nil)
		assertStatus(t, resp, http.StatusOK)
		assertMessage(t, decodeJSONMap(t, resp), "User registered successfully")
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/register", map[string]any{
			"username": "alice",
			"password": "other",
			"email":    "other@x.com",
		}, nil)
		assertStatus(t, resp, http.StatusBadRequest)
		assertError(t, decodeJSONMap(t, resp), "Username or email already exists")
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/register", map[string]any{
			"username": "alice2",
			"password": "pw",
			"email":    "a@x.com",
		}, nil)
		assertStatus(t, resp, http.StatusBadRequest)
		assertError(t, decodeJSONMap(t, resp), "Username or email already exists")
	})

	t.Run("rejects missing email or username", func(t *testing.T) {
		for _, body := range []map[string]any{
			{"username": "carol", "password": "x"},
			{"password": "x", "email": "c@x.com"},
		} {
			resp := performJSONRequest(t, env.app, http.MethodPost, "/api/register", body, nil)
			assertStatus(t, resp, http.StatusBadRequest)
			assertError(t, decodeJSONMap(t, resp), "Username and email are required")
		}

		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/login", map[string]any{
			"username": "alice",
			"password": "pw1",
		}, nil)
		assertStatus(t, resp, http.StatusOK)
	})

	t.Run("accepts form encoded body", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodPost, "/api/register",
			strings.NewReader("username=bob&password=pw2&email=b%40x.com"),
			map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
		assertStatus(t, resp, http.StatusOK)

		if err := env.users.Authenticate(context.Background(), "bob", "pw2"); err != nil {
			t.Fatalf("expected bob to authenticate, got %v", err)
		}
	})
}

func TestLoginHandler(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alice", "pw1", "a@x.com")

	tests := []struct {
		name     string
		username string
		password string
		status   int
	}{
		{"correct password", "alice", "pw1", http.StatusOK},
		{"wrong password", "alice", "wrong", http.StatusBadRequest},
		{"unknown user", "bob", "pw1", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performJSONRequest(t, env.app, http.MethodPost, "/api/login", map[string]any{
				"username": tt.username,
				"password": tt.password,
			}, nil)
			assertStatus(t, resp, tt.status)
			body := decodeJSONMap(t, resp)
			if tt.status == http.StatusOK {
				assertMessage(t, body, "Login successful")
			} else {
				assertError(t, body, "Invalid username or password")
			}
		})
	}
}

func TestPasswordResetHandlers(t *testing.T) {
	env := setupTestEnv(t)
	env.register(t, "alice", "pw1", "a@x.com")

	t.Run("unknown email", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/request-reset-password", map[string]any{
			"email": "nobody@x.com",
		}, nil)
		assertStatus(t, resp, http.StatusBadRequest)
		assertError(t, decodeJSONMap(t, resp), "Email not found")
	})

	t.Run("reset then change password once", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/request-reset-password", map[string]any{
			"email": "a@x.com",
		}, nil)
		assertStatus(t, resp, http.StatusOK)
		assertMessage(t, decodeJSONMap(t, resp), "Password reset link has been sent to your email")

		token := env.notifier.tokenFor(t, "a@x.com")

		resp = performJSONRequest(t, env.app, http.MethodPost, "/api/change-password", map[string]any{
			"token":       token,
			"newPassword": "pw2",
		}, nil)
		assertStatus(t, resp, http.StatusOK)
		body := decodeJSONMap(t, resp)
		assertMessage(t, body, "New password for alice is pw2")
		if body["username"] != "alice" {
			t.Fatalf("expected username alice, got %v", body["username"])
		}

		resp = performJSONRequest(t, env.app, http.MethodPost, "/api/login", map[string]any{
			"username": "alice",
			"password": "pw2",
		}, nil)
		assertStatus(t, resp, http.StatusOK)

		resp = performJSONRequest(t, env.app, http.MethodPost, "/api/change-password", map[string]any{
			"token":       token,
			"newPassword": "pw3",
		}, nil)
		assertStatus(t, resp, http.StatusBadRequest)
		assertError(t, decodeJSONMap(t, resp), "Invalid or expired token")
	})

	t.Run("expired token rejected", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/request-reset-password", map[string]any{
			"email": "a@x.com",
		}, nil)
		assertStatus(t, resp, http.StatusOK)
		token := env.notifier.tokenFor(t, "a@x.com")

		env.clock = env.clock.Add(time.Hour)

		resp = performJSONRequest(t, env.app, http.MethodPost, "/api/change-password", map[string]any{
			"token":       token,
			"newPassword": "pw9",
		}, nil)
		assertStatus(t, resp, http.StatusBadRequest)
		assertError(t, decodeJSONMap(t, resp), "Invalid or expired token")
	})
}

type failingRepository struct{}

func (failingRepository) Load(ctx context.Context) ([]models.User, error) {
	return nil, errors.New("disk unavailable")
}

func (failingRepository) Save(ctx context.Context, users []models.User) error {
	return errors.New("disk unavailable")
}

func TestStoreFailureIsInternalError(t *testing.T) {
	env := setupTestEnvWithRepo(t, failingRepository{})

	resp := performJSONRequest(t, env.app, http.MethodPost, "/api/login", map[string]any{
		"username": "alice",
		"password": "pw1",
	}, nil)
	assertStatus(t, resp, http.StatusInternalServerError)
	body := decodeJSONMap(t, resp)
	assertError(t, body, "internal server error")
}
