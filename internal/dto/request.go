package dto

// SignUpRequest is the signup payload.
type SignUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignInRequest is the login payload.
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateFolderRequest creates a folder, optionally nested.
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *uint64 `json:"parent_id"`
}

// RenameFolderRequest renames a folder.
type RenameFolderRequest struct {
	Name string `json:"name"`
}
