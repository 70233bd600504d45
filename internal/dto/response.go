package dto

import (
	"github.com/Yash-Soni1/vectra-backend/internal/auth"
	"github.com/Yash-Soni1/vectra-backend/model"
)

// UploadResponse confirms a stored upload and carries its blob path.
type UploadResponse struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

// FileListResponse is one page of files plus the unpaginated total.
type FileListResponse struct {
	Total  int64        `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
	Files  []model.File `json:"files"`
}

// DownloadLinkResponse carries a signed, short-lived URL.
type DownloadLinkResponse struct {
	URL string `json:"url"`
}

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SignInResponse wraps the session issued on login.
type SignInResponse struct {
	Message string        `json:"message"`
	Session *auth.Session `json:"session"`
}

// SignUpResponse confirms a registration.
type SignUpResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

// UserResponse wraps the authenticated user.
type UserResponse struct {
	User *model.User `json:"user"`
}
