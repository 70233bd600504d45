package handler

import (
	"net/http"
	"strconv"

	"github.com/Yash-Soni1/vectra-backend/internal/dto"
	"github.com/Yash-Soni1/vectra-backend/internal/service"
	"github.com/Yash-Soni1/vectra-backend/model"
	"github.com/gin-gonic/gin"
)

// FolderHandler serves the /api/folders routes.
type FolderHandler struct {
	svc *service.FolderService
}

// NewFolderHandler creates a FolderHandler.
func NewFolderHandler(svc *service.FolderService) *FolderHandler {
	return &FolderHandler{svc: svc}
}

// Create makes a folder for the caller.
func (h *FolderHandler) Create(c *gin.Context) {
	userID := currentUserID(c)

	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if _, err := h.svc.Create(c.Request.Context(), userID, req.Name, req.ParentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Folder created"})
}

// List returns the caller's folders directly inside the scope. Without
// parentId it lists the root level.
func (h *FolderHandler) List(c *gin.Context) {
	userID := currentUserID(c)

	scope, ok := folderScopeQuery(c, "parentId")
	if !ok {
		return
	}

	folders, err := h.svc.List(c.Request.Context(), userID, scope)
	if err != nil {
		respondError(c, err)
		return
	}
	if folders == nil {
		folders = []model.Folder{}
	}
	c.JSON(http.StatusOK, folders)
}

// Rename changes a folder's name.
func (h *FolderHandler) Rename(c *gin.Context) {
	userID := currentUserID(c)
	folderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid folder id"})
		return
	}

	var req dto.RenameFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.svc.Rename(c.Request.Context(), userID, folderID, req.Name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Folder renamed"})
}

// Delete removes an empty folder the caller owns.
func (h *FolderHandler) Delete(c *gin.Context) {
	userID := currentUserID(c)
	folderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid folder id"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, folderID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Folder deleted"})
}
