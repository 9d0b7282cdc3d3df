// cmd/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const inviteKey = "invite"

// InviteResolver is satisfied by *services.InviteStore.
type InviteResolver interface {
	Resolve(ctx context.Context, code string) (models.Invite, error)
}

// RequireInvite is the access gate: holding a valid code is the only
// credential. The code comes from the ?code= query parameter.
func RequireInvite(invites InviteResolver, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		if code == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "code parameter is required", "code": "invalid_argument"})
			return
		}
		if !services.WellFormed(code) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed invite code", "code": "invalid_argument"})
			return
		}

		invite, err := invites.Resolve(c.Request.Context(), code)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "invite not found", "code": "not_found"})
				return
			}
			logger.Error().Err(err).Msg("invite lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "invite lookup failed", "code": "internal"})
			return
		}

		c.Set(inviteKey, invite)
		c.Next()
	}
}

// InviteFromContext returns the invite resolved by RequireInvite.
func InviteFromContext(c *gin.Context) (models.Invite, bool) {
	v, exists := c.Get(inviteKey)
	if !exists {
		return models.Invite{}, false
	}
	invite, ok := v.(models.Invite)
	return invite, ok
}
