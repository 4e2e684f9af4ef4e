package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestNewClient(t *testing.T) {
	t.Run("appends api prefix and trims slashes", func(t *testing.T) {
		client := NewClient("http://localhost:3000///")
		if client.BaseURL != "http://localhost:3000/api" {
			t.Errorf("expected BaseURL 'http://localhost:3000/api', got %s", client.BaseURL)
		}
		if client.HTTPClient == nil || client.HTTPClient.Timeout == 0 {
			t.Error("expected HTTPClient with a timeout")
		}
	})
}

func TestAPIError(t *testing.T) {
	err := &APIError{Status: 400, Message: "User not found"}
	if err.Error() != "api: 400: User not found" {
		t.Errorf("unexpected error text %q", err.Error())
	}
}

func TestPathEscape(t *testing.T) {
	if got := PathEscape("delete", "alice", "my doc-1.txt"); got != "/delete/alice/my%20doc-1.txt" {
		t.Errorf("unexpected escaped path %q", got)
	}
}

func TestAuthOperations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %s", r.Header.Get("Content-Type"))
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/register":
			if body["username"] != "alice" || body["email"] != "a@x.com" || body["password"] != "pw1" {
				t.Errorf("unexpected register body %+v", body)
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "User registered successfully"})
		case "/api/login":
			if body["password"] != "pw1" {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid username or password"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Login successful"})
		case "/api/change-password":
			if body["newPassword"] != "pw2" || body["token"] != "tok" {
				t.Errorf("unexpected change-password body %+v", body)
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "New password for alice is pw2", "username": "alice"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)

	t.Run("register", func(t *testing.T) {
		msg, err := client.Register("alice", "pw1", "a@x.com")
		if err != nil {
			t.Fatalf("Register() returned error: %v", err)
		}
		if msg != "User registered successfully" {
			t.Errorf("unexpected message %q", msg)
		}
	})

	t.Run("login failure carries server message", func(t *testing.T) {
		_, err := client.Login("alice", "wrong")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.Status != http.StatusBadRequest || apiErr.Message != "Invalid username or password" {
			t.Errorf("unexpected APIError %+v", apiErr)
		}
	})

	t.Run("change password", func(t *testing.T) {
		resp, err := client.ChangePassword("tok", "pw2")
		if err != nil {
			t.Fatalf("ChangePassword() returned error: %v", err)
		}
		if resp.Username != "alice" {
			t.Errorf("expected username alice, got %q", resp.Username)
		}
	})
}

func TestFileOperations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/files/alice":
			_ = json.NewEncoder(w).Encode([]File{{Filename: "doc-1.txt", Originalname: "doc.txt", Shared: true}})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/delete/alice/doc-1.txt":
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "File deleted successfully"})
		case r.Method == http.MethodPut && r.URL.Path == "/api/share/alice/doc-1.txt":
			var body ShareRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			if !body.Shared {
				t.Errorf("expected shared=true")
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "File sharing status updated"})
		case r.Method == http.MethodPost && r.URL.Path == "/api/upload":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("failed parsing multipart form: %v", err)
			}
			if r.FormValue("username") != "alice" || r.FormValue("filename") != "upload.txt" {
				t.Errorf("unexpected form fields %v", r.MultipartForm.Value)
			}
			file, _, err := r.FormFile("file")
			if err != nil {
				t.Errorf("expected file part: %v", err)
			} else {
				data, _ := io.ReadAll(file)
				file.Close()
				if string(data) != "hello" {
					t.Errorf("unexpected upload content %q", data)
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "File uploaded successfully"})
		case r.URL.Path == "/api/download/doc-1.txt":
			_, _ = w.Write([]byte("hello"))
		case r.URL.Path == "/api/shared/missing.txt":
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("<html>File not found</html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)

	t.Run("list", func(t *testing.T) {
		files, err := client.ListFiles("alice")
		if err != nil {
			t.Fatalf("ListFiles() returned error: %v", err)
		}
		if len(files) != 1 || files[0].Originalname != "doc.txt" || !files[0].Shared {
			t.Errorf("unexpected files %+v", files)
		}
	})

	t.Run("upload uses local name by default", func(t *testing.T) {
		local := filepath.Join(t.TempDir(), "upload.txt")
		if err := os.WriteFile(local, []byte("hello"), 0644); err != nil {
			t.Fatalf("failed writing file: %v", err)
		}
		msg, err := client.UploadFile("alice", local, "")
		if err != nil {
			t.Fatalf("UploadFile() returned error: %v", err)
		}
		if msg != "File uploaded successfully" {
			t.Errorf("unexpected message %q", msg)
		}
	})

	t.Run("upload of missing file", func(t *testing.T) {
		if _, err := client.UploadFile("alice", "/nonexistent/file.txt", ""); err == nil {
			t.Fatal("expected error for missing local file")
		}
	})

	t.Run("delete and share", func(t *testing.T) {
		if _, err := client.DeleteFile("alice", "doc-1.txt"); err != nil {
			t.Fatalf("DeleteFile() returned error: %v", err)
		}
		if _, err := client.SetShared("alice", "doc-1.txt", true); err != nil {
			t.Fatalf("SetShared() returned error: %v", err)
		}
	})

	t.Run("download writes file", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "out.txt")
		if err := client.Download("doc-1.txt", dest); err != nil {
			t.Fatalf("Download() returned error: %v", err)
		}
		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("failed reading downloaded file: %v", err)
		}
		if string(data) != "hello" {
			t.Errorf("unexpected content %q", data)
		}
	})

	t.Run("shared download of missing file", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "out.txt")
		err := client.DownloadShared("missing.txt", dest)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.Status != http.StatusNotFound || apiErr.Message != "file not found" {
			t.Errorf("unexpected APIError %+v", apiErr)
		}
		if _, err := os.Stat(dest); !os.IsNotExist(err) {
			t.Errorf("expected no file written, got %v", err)
		}
	})
}
