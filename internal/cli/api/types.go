package api

// File mirrors one entry of GET /api/files/:username.
type File struct {
	Filename     string `json:"filename"`
	Originalname string `json:"originalname"`
	Shared       bool   `json:"shared"`
}

// MessageResponse is the body of every successful mutating call.
type MessageResponse struct {
	Message string `json:"message"`
}

type ChangePasswordResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetRequest struct {
	Email string `json:"email"`
}

type ChangePasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type ShareRequest struct {
	Shared bool `json:"shared"`
}
