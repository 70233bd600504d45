package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/Yash-Soni1/vectra-backend/internal/dto"
	"github.com/Yash-Soni1/vectra-backend/internal/metadata"
	"github.com/Yash-Soni1/vectra-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status. Unexpected errors
// are logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	switch service.KindOf(err) {
	case service.KindValidation, service.KindConflict, service.KindUpstream:
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case service.KindAuth:
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	default:
		log.Println("unexpected error:", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error."})
	}
}

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) uint64 {
	return c.MustGet("user_id").(uint64)
}

// folderScopeQuery parses an optional folder id query parameter into a
// scope. An absent or blank value means the root level. On a malformed value
// it writes a 400 and reports false.
func folderScopeQuery(c *gin.Context, param string) (metadata.FolderScope, bool) {
	raw := strings.TrimSpace(c.Query(param))
	if raw == "" {
		return metadata.RootScope(), true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + param})
		return metadata.FolderScope{}, false
	}
	return metadata.InFolder(id), true
}
