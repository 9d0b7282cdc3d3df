package handlers

import (
	"net/http"
	"time"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InviteResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	URL       string    `json:"url"`
}

// CreateInvite issues a fresh invite and the shareable link for it.
func (h *Handler) CreateInvite(c *gin.Context) {
	invite, err := h.invites.Create(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "failed to create invite")
		return
	}

	c.JSON(http.StatusCreated, InviteResponse{
		ID:        invite.ID,
		Code:      invite.Code,
		CreatedAt: invite.CreatedAt,
		URL:       h.publicBaseURL + "/" + invite.Code,
	})
}

// CheckInvite answers {valid} and never 404s; an unknown or malformed code is
// simply invalid.
func (h *Handler) CheckInvite(c *gin.Context) {
	code := c.Param("code")
	if !services.WellFormed(code) {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	valid, err := h.invites.IsValid(c.Request.Context(), code)
	if err != nil {
		h.writeError(c, err, "failed to check invite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}
