package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/services"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler serves the invite, file and blob endpoints.
type Handler struct {
	invites       *services.InviteStore
	files         *services.FileStore
	blobs         services.BlobStore
	storage       storage.Storage
	publicBaseURL string
	maxUpload     int64
	logger        zerolog.Logger
}

func New(invites *services.InviteStore, files *services.FileStore, blobs services.BlobStore, st storage.Storage, publicBaseURL string, logger zerolog.Logger) *Handler {
	return &Handler{
		invites:       invites,
		files:         files,
		blobs:         blobs,
		storage:       st,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		maxUpload:     maxUploadSize,
		logger:        logger.With().Str("component", "api").Logger(),
	}
}

func errorKind(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInviteNotFound):
		return http.StatusNotFound, "invite_not_found"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, models.ErrBlobUnavailable):
		return http.StatusServiceUnavailable, "blob_unavailable"
	case errors.Is(err, models.ErrCreationExhausted):
		return http.StatusInternalServerError, "creation_exhausted"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writeError maps the error kind to a status. Client errors echo the cause,
// server errors only the generic message.
func (h *Handler) writeError(c *gin.Context, err error, message string) {
	status, kind := errorKind(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("kind", kind).Msg(message)
		c.JSON(status, gin.H{"error": message, "code": kind})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": kind})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": "invalid_argument"})
}
