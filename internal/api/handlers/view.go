package handlers

import (
	"net/http"

	"github.com/File-Sharing-BondBridg/Slide-Service/cmd/middleware"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ViewFile resolves the file's stored locator into something a viewer can
// load, such as a presigned URL.
func (h *Handler) ViewFile(c *gin.Context) {
	invite, ok := middleware.InviteFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invite not resolved", "code": "internal"})
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "malformed file id")
		return
	}

	rec, err := h.files.Get(c.Request.Context(), fileID)
	if err != nil {
		h.writeError(c, err, "failed to fetch file")
		return
	}
	if rec.InviteID != invite.ID {
		h.writeError(c, models.ErrNotFound, "failed to fetch file")
		return
	}

	url, err := h.blobs.Resolve(c.Request.Context(), rec.ContentRef)
	if err != nil {
		h.writeError(c, err, "failed to resolve file content")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
