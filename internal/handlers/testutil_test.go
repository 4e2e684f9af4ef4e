package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/filehost/filehost/internal/middleware"
	"github.com/filehost/filehost/internal/services"
	"github.com/filehost/filehost/internal/storage"
	"github.com/filehost/filehost/internal/store"
	"github.com/filehost/filehost/pkg/logger"
	"github.com/filehost/filehost/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type capturingNotifier struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (n *capturingNotifier) Notify(recipient, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tokens[recipient] = token
}

func (n *capturingNotifier) tokenFor(t *testing.T, recipient string) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	token, ok := n.tokens[recipient]
	if !ok {
		t.Fatalf("no reset token sent to %s", recipient)
	}
	return token
}

type testEnv struct {
	app       *fiber.App
	users     *services.UserStoreService
	repo      store.Repository
	blobs     *storage.DiskStore
	notifier  *capturingNotifier
	publicDir string
	clock     time.Time
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupTestEnvWithRepo(t, store.NewMemoryRepository())
}

func setupTestEnvWithRepo(t *testing.T, repo store.Repository) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		logger.Init()
	})

	blobs, err := storage.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed creating disk store: %v", err)
	}

	publicDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(publicDir, "index.html"), []byte("<h1>home</h1>"), 0o644); err != nil {
		t.Fatalf("failed writing index page: %v", err)
	}

	env := &testEnv{
		repo:      repo,
		blobs:     blobs,
		notifier:  &capturingNotifier{tokens: map[string]string{}},
		publicDir: publicDir,
		clock:     time.UnixMilli(1_700_000_000_000),
	}

	env.users = services.NewUserStoreService(repo, blobs, env.notifier, utils.PasswordPolicy{}, time.Hour)
	env.users.Now = func() time.Time { return env.clock }

	pagesHandler := NewPagesHandler(publicDir)
	authHandler := NewAuthHandler(env.users)
	filesHandler := NewFilesHandler(env.users, blobs, pagesHandler)
	filesHandler.Now = func() time.Time { return env.clock }

	app := fiber.New(fiber.Config{BodyLimit: 100 * 1024 * 1024, UnescapePath: true})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS("*"))
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	RegisterRoutes(app, authHandler, filesHandler, pagesHandler)

	env.app = app
	return env
}

func (e *testEnv) register(t *testing.T, username, password, email string) {
	t.Helper()
	resp := performJSONRequest(t, e.app, http.MethodPost, "/api/register", map[string]any{
		"username": username,
		"password": password,
		"email":    email,
	}, nil)
	assertStatus(t, resp, http.StatusOK)
}

func (e *testEnv) upload(t *testing.T, username, displayName, clientName, content string) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if username != "" {
		_ = writer.WriteField("username", username)
	}
	if displayName != "" {
		_ = writer.WriteField("filename", displayName)
	}
	if clientName != "" {
		part, err := writer.CreateFormFile("file", clientName)
		if err != nil {
			t.Fatalf("failed creating form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("failed writing form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}

	return performRequest(t, e.app, http.MethodPost, "/api/upload", &body, map[string]string{
		"Content-Type": writer.FormDataContentType(),
	})
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func decodeJSONList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload []map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON list: %v body=%q", err, string(raw))
	}

	return payload
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}
	return string(raw)
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertError(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if got, _ := body["error"].(string); got != expected {
		t.Fatalf("expected error %q, got %+v", expected, body)
	}
}

func assertMessage(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if got, _ := body["message"].(string); got != expected {
		t.Fatalf("expected message %q, got %+v", expected, body)
	}
}
