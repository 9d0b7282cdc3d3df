package handlers

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/File-Sharing-BondBridg/Slide-Service/cmd/middleware"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	pdfMimeType    = "application/pdf"
	maxUploadSize  = 200 << 20 // 200 MB
	multipartSlack = 1 << 20
)

var pdfMagic = []byte("%PDF-")

// uploadFile is the {name, url, sizeBytes, mimeType} object of an upload body.
type uploadFile struct {
	Name string `json:"name"`
	models.BlobReference
}

type uploadPDFRequest struct {
	InviteCode string     `json:"inviteCode"`
	File       uploadFile `json:"file"`
}

// UploadPDF records a file whose bytes were already placed in the blob store.
func (h *Handler) UploadPDF(c *gin.Context) {
	var req uploadPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if !services.WellFormed(req.InviteCode) {
		badRequest(c, "malformed invite code")
		return
	}

	ref := req.File.BlobReference
	if ref.MimeType == "" {
		ref.MimeType = pdfMimeType
	}
	if ref.MimeType != pdfMimeType {
		badRequest(c, "only PDF files are accepted")
		return
	}

	invite, err := h.invites.Resolve(c.Request.Context(), req.InviteCode)
	if err != nil {
		h.writeError(c, err, "failed to resolve invite")
		return
	}

	rec, err := h.files.Insert(c.Request.Context(), invite.ID, req.File.Name, ref)
	if err != nil {
		h.writeError(c, err, "failed to save file")
		return
	}
	c.JSON(http.StatusCreated, rec.View())
}

// UploadBlob streams one multipart PDF into the blob store and returns the
// reference to pass to UploadPDF. Nothing is recorded here.
func (h *Handler) UploadBlob(c *gin.Context) {
	if _, ok := middleware.InviteFromContext(c); !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invite not resolved", "code": "internal"})
		return
	}

	// Cap the body before the multipart parser spools it to disk; the slack
	// covers part headers and boundaries.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartSlack)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			badRequest(c, "file too large")
			return
		}
		badRequest(c, "no file provided")
		return
	}
	if fh.Size > h.maxUpload {
		badRequest(c, "file too large: "+fh.Filename)
		return
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if services.GetContentType(ext) != pdfMimeType {
		badRequest(c, "only PDF files are accepted")
		return
	}

	file, err := fh.Open()
	if err != nil {
		badRequest(c, "failed to open uploaded file")
		return
	}
	defer file.Close()

	body := bufio.NewReader(file)
	head, err := body.Peek(len(pdfMagic))
	if err != nil || !bytes.Equal(head, pdfMagic) {
		badRequest(c, fmt.Sprintf("%s is not a PDF document", fh.Filename))
		return
	}

	ref, err := h.blobs.Store(c.Request.Context(), body, fh.Size, pdfMimeType)
	if err != nil {
		h.writeError(c, err, "failed to upload to storage")
		return
	}
	c.JSON(http.StatusCreated, ref)
}
