// Package client talks to the slide service HTTP API and turns its error
// replies back into the sentinel errors of the models package.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

type Invite struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	URL       string    `json:"url"`
}

// New returns a client for the API rooted at baseURL, e.g.
// http://localhost:8080. A nil httpClient gets a 30s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// APIError carries the server's message; errors.Is matches the sentinel
// derived from the reply.
type APIError struct {
	Status  int
	Code    string
	Message string
	kind    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.kind }

func kindFor(status int, code string) error {
	switch code {
	case "invite_not_found":
		return models.ErrInviteNotFound
	case "not_found":
		return models.ErrNotFound
	case "invalid_argument":
		return models.ErrInvalidArgument
	case "blob_unavailable":
		return models.ErrBlobUnavailable
	case "creation_exhausted":
		return models.ErrCreationExhausted
	}
	switch status {
	case http.StatusNotFound:
		return models.ErrNotFound
	case http.StatusBadRequest:
		return models.ErrInvalidArgument
	case http.StatusServiceUnavailable:
		return models.ErrBlobUnavailable
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(data, &body); err != nil {
		body.Error = strings.TrimSpace(string(data))
	}
	return &APIError{
		Status:  resp.StatusCode,
		Code:    body.Code,
		Message: body.Error,
		kind:    kindFor(resp.StatusCode, body.Code),
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func codeQuery(code string) url.Values {
	return url.Values{"code": {code}}
}

func (c *Client) do(ctx context.Context, method, target string, body io.Reader, contentType string, want int, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, target string, in any, want int, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, target, body, contentType, want, out)
}

func (c *Client) CreateInvite(ctx context.Context) (Invite, error) {
	var invite Invite
	err := c.doJSON(ctx, http.MethodPost, c.endpoint("/api/invites", nil), nil, http.StatusCreated, &invite)
	return invite, err
}

func (c *Client) CheckInvite(ctx context.Context, code string) (bool, error) {
	var body struct {
		Valid bool `json:"valid"`
	}
	err := c.doJSON(ctx, http.MethodGet, c.endpoint("/api/invites/"+url.PathEscape(code), nil), nil, http.StatusOK, &body)
	return body.Valid, err
}

func (c *Client) ListFiles(ctx context.Context, code string) ([]models.FileView, error) {
	files := []models.FileView{}
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("/api/files", codeQuery(code)), nil, http.StatusOK, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// InsertFile records a file whose bytes already sit behind ref.
func (c *Client) InsertFile(ctx context.Context, code, name string, ref models.BlobReference) (models.FileView, error) {
	req := map[string]any{
		"inviteCode": code,
		"file": map[string]any{
			"name":      name,
			"url":       ref.Locator,
			"sizeBytes": ref.SizeBytes,
			"mimeType":  ref.MimeType,
		},
	}
	var view models.FileView
	err := c.doJSON(ctx, http.MethodPost, c.endpoint("/api/upload-pdf", nil), req, http.StatusCreated, &view)
	return view, err
}

func (c *Client) RenameFile(ctx context.Context, code string, fileID uuid.UUID, newName string) (models.FileView, error) {
	req := map[string]any{"id": fileID, "newName": newName}
	var view models.FileView
	err := c.doJSON(ctx, http.MethodPatch, c.endpoint("/api/files", codeQuery(code)), req, http.StatusOK, &view)
	return view, err
}

func (c *Client) DeleteFile(ctx context.Context, code string, fileID uuid.UUID) error {
	req := map[string]any{"id": fileID}
	return c.doJSON(ctx, http.MethodDelete, c.endpoint("/api/files", codeQuery(code)), req, http.StatusOK, nil)
}

// UploadBlob sends the PDF bytes and returns the reference to record.
func (c *Client) UploadBlob(ctx context.Context, code, filename string, r io.Reader) (models.BlobReference, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return models.BlobReference{}, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return models.BlobReference{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return models.BlobReference{}, fmt.Errorf("build upload: %w", err)
	}

	var ref models.BlobReference
	err = c.do(ctx, http.MethodPost, c.endpoint("/api/blobs", codeQuery(code)), &buf, mw.FormDataContentType(), http.StatusCreated, &ref)
	return ref, err
}

// ViewURL returns a locator the viewer can fetch for the file.
func (c *Client) ViewURL(ctx context.Context, code string, fileID uuid.UUID) (string, error) {
	var body struct {
		URL string `json:"url"`
	}
	err := c.doJSON(ctx, http.MethodGet, c.endpoint("/api/files/"+fileID.String()+"/view", codeQuery(code)), nil, http.StatusOK, &body)
	return body.URL, err
}

// Fetch downloads the bytes behind a resolved locator. data: URIs from the
// in-memory blob backend are decoded locally.
func (c *Client) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if strings.HasPrefix(locator, "data:") {
		return decodeDataURI(locator)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch: %v", models.ErrBlobUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch returned %d", models.ErrBlobUnavailable, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

var errBadDataURI = errors.New("malformed data URI")
