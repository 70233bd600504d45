package handler

import (
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/Yash-Soni1/vectra-backend/internal/dto"
	"github.com/Yash-Soni1/vectra-backend/internal/metadata"
	"github.com/Yash-Soni1/vectra-backend/internal/service"
	"github.com/Yash-Soni1/vectra-backend/model"
	"github.com/gin-gonic/gin"
)

// FileHandler serves the /api/files routes.
type FileHandler struct {
	svc *service.FileService
}

// NewFileHandler creates a FileHandler.
func NewFileHandler(svc *service.FileService) *FileHandler {
	return &FileHandler{svc: svc}
}

// Upload accepts a multipart file under any field name, plus an optional
// folder_id form value targeting an existing folder. When several files are
// sent only the first one is stored.
func (h *FileHandler) Upload(c *gin.Context) {
	userID := currentUserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "No file uploaded"})
		return
	}
	fh := firstFile(form)
	if fh == nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "No file uploaded"})
		return
	}

	var folderID *uint64
	if raw := strings.TrimSpace(c.PostForm("folder_id")); raw != "" {
		id, parseErr := strconv.ParseUint(raw, 10, 64)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid folder_id"})
			return
		}
		folderID = &id
	}

	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "No file uploaded"})
		return
	}
	defer src.Close()

	file, err := h.svc.Upload(c.Request.Context(), userID, fh.Filename, fh.Size, fh.Header.Get("Content-Type"), folderID, src)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UploadResponse{Message: "File uploaded successfully", Path: file.Path})
}

// firstFile picks the first multipart file, walking field names in sorted
// order so the choice is deterministic.
func firstFile(form *multipart.Form) *multipart.FileHeader {
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		if len(form.File[field]) > 0 {
			return form.File[field][0]
		}
	}
	return nil
}

// List returns a page of the caller's files. Unparsable limit and offset
// fall back to their defaults instead of failing the request.
func (h *FileHandler) List(c *gin.Context) {
	userID := currentUserID(c)

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	opts := metadata.ListOptions{
		Limit:     limit,
		Offset:    offset,
		OrderBy:   c.DefaultQuery("sortBy", "created_at"),
		Ascending: c.Query("order") == "asc",
	}

	scope, ok := folderScopeQuery(c, "folderId")
	if !ok {
		return
	}

	result, err := h.svc.List(c.Request.Context(), userID, scope, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Files == nil {
		result.Files = []model.File{}
	}
	c.JSON(http.StatusOK, dto.FileListResponse{
		Total:  result.Total,
		Limit:  limit,
		Offset: offset,
		Files:  result.Files,
	})
}

// Search returns the caller's files in one folder level whose name contains
// the query. Without folderId it searches the root level.
func (h *FileHandler) Search(c *gin.Context) {
	userID := currentUserID(c)
	scope, ok := folderScopeQuery(c, "folderId")
	if !ok {
		return
	}
	files, err := h.svc.Search(c.Request.Context(), userID, scope, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	if files == nil {
		files = []model.File{}
	}
	c.JSON(http.StatusOK, files)
}

// Download returns a short-lived signed URL for one of the caller's files.
func (h *FileHandler) Download(c *gin.Context) {
	userID := currentUserID(c)
	fileID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid file id"})
		return
	}
	url, err := h.svc.DownloadLink(c.Request.Context(), userID, fileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DownloadLinkResponse{URL: url})
}

// Delete removes one of the caller's files, blob and metadata both.
func (h *FileHandler) Delete(c *gin.Context) {
	userID := currentUserID(c)
	fileID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid file id"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, fileID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "File deleted successfully"})
}
