package api

import (
	"path/filepath"
	"strings"
)

func (c *Client) Register(username, password, email string) (string, error) {
	var resp MessageResponse
	err := c.Post("/register", RegisterRequest{Username: username, Password: password, Email: email}, &resp)
	return resp.Message, err
}

func (c *Client) Login(username, password string) (string, error) {
	var resp MessageResponse
	err := c.Post("/login", LoginRequest{Username: username, Password: password}, &resp)
	return resp.Message, err
}

func (c *Client) RequestPasswordReset(email string) (string, error) {
	var resp MessageResponse
	err := c.Post("/request-reset-password", ResetRequest{Email: email}, &resp)
	return resp.Message, err
}

func (c *Client) ChangePassword(token, newPassword string) (ChangePasswordResponse, error) {
	var resp ChangePasswordResponse
	err := c.Post("/change-password", ChangePasswordRequest{Token: token, NewPassword: newPassword}, &resp)
	return resp, err
}

// UploadFile uploads localPath for username under displayName. An empty
// displayName uses the local file name.
func (c *Client) UploadFile(username, localPath, displayName string) (string, error) {
	if strings.TrimSpace(displayName) == "" {
		displayName = filepath.Base(localPath)
	}
	var resp MessageResponse
	err := c.Upload("/upload", "file", localPath, map[string]string{
		"username": username,
		"filename": displayName,
	}, &resp)
	return resp.Message, err
}

func (c *Client) ListFiles(username string) ([]File, error) {
	var files []File
	if err := c.Get(PathEscape("files", username), &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *Client) DeleteFile(username, filename string) (string, error) {
	var resp MessageResponse
	err := c.Delete(PathEscape("delete", username, filename), &resp)
	return resp.Message, err
}

func (c *Client) SetShared(username, filename string, shared bool) (string, error) {
	var resp MessageResponse
	err := c.Put(PathEscape("share", username, filename), ShareRequest{Shared: shared}, &resp)
	return resp.Message, err
}

// Download fetches a file by storage name without a sharing check.
func (c *Client) Download(filename, dest string) error {
	return c.DownloadToFile(PathEscape("download", filename), dest)
}

// DownloadShared fetches a file only if its owner shares it.
func (c *Client) DownloadShared(filename, dest string) error {
	return c.DownloadToFile(PathEscape("shared", filename), dest)
}
