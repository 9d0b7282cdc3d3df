package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/File-Sharing-BondBridg/Slide-Service/cmd/middleware"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type renameRequest struct {
	ID      string `json:"id"`
	NewName string `json:"newName"`
}

type deleteRequest struct {
	ID string `json:"id"`
}

// ListFiles returns the invite's files oldest first.
func (h *Handler) ListFiles(c *gin.Context) {
	invite, ok := middleware.InviteFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invite not resolved", "code": "internal"})
		return
	}

	files, err := h.files.List(c.Request.Context(), invite.ID)
	if err != nil {
		h.writeError(c, err, "failed to fetch files")
		return
	}

	views := make([]models.FileView, 0, len(files))
	for _, f := range files {
		views = append(views, f.View())
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) RenameFile(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	fileID, err := h.ownedFile(c, req.ID)
	if err != nil {
		h.writeError(c, err, "failed to rename file")
		return
	}

	rec, err := h.files.Rename(c.Request.Context(), fileID, req.NewName)
	if err != nil {
		h.writeError(c, err, "failed to rename file")
		return
	}
	c.JSON(http.StatusOK, rec.View())
}

func (h *Handler) DeleteFile(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	fileID, err := h.ownedFile(c, req.ID)
	if err != nil {
		h.writeError(c, err, "failed to delete file")
		return
	}

	if err := h.files.Remove(c.Request.Context(), fileID); err != nil {
		h.writeError(c, err, "failed to delete file")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": fileID})
}

// ownedFile parses rawID and checks the file belongs to the gated invite. A
// file of another invite is reported as not found so ids cannot be probed.
func (h *Handler) ownedFile(c *gin.Context, rawID string) (uuid.UUID, error) {
	fileID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed file id", models.ErrInvalidArgument)
	}
	invite, ok := middleware.InviteFromContext(c)
	if !ok {
		return uuid.Nil, fmt.Errorf("invite not resolved")
	}
	return fileID, h.checkOwner(c.Request.Context(), fileID, invite.ID)
}

func (h *Handler) checkOwner(ctx context.Context, fileID, inviteID uuid.UUID) error {
	rec, err := h.files.Get(ctx, fileID)
	if err != nil {
		return err
	}
	if rec.InviteID != inviteID {
		return fmt.Errorf("file %s: %w", fileID, models.ErrNotFound)
	}
	return nil
}
