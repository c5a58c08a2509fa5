package resumes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

const (
	defaultMaxUploadBytes = 10 << 20
	multipartMemory       = 8 << 20

	msgUnsupportedMedia = "Only JPEG, PNG, JPG images and PDF, DOC, DOCX documents are allowed"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
	// PublicBaseURL overrides the request origin in stored file links.
	PublicBaseURL string
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64, publicBaseURL string) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{
		Svc:            svc,
		MaxUploadBytes: maxUploadBytes,
		PublicBaseURL:  strings.TrimRight(publicBaseURL, "/"),
	}
}

// RegisterRoutes attaches resume routes to an authenticated /api/resume group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/create", h.create)
	rg.GET("/", h.list)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.remove)
	rg.POST("/:id/duplicate", h.duplicate)
	rg.PUT("/:id/upload-images", h.uploadImages)
}

type createRequest struct {
	Title string `json:"title"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Resume title is required", "")
		return
	}

	resume, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), req.Title)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set(middleware.ResumeIDKey, resume.ID)
	respond.Success(c, http.StatusCreated, "Resume created successfully", resume)
}

func (h *Handler) list(c *gin.Context) {
	summaries, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.List(c, "Resumes retrieved successfully", summaries)
}

func (h *Handler) get(c *gin.Context) {
	id := h.resumeID(c)
	resume, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "Resume retrieved successfully", resume)
}

func (h *Handler) update(c *gin.Context) {
	id := h.resumeID(c)
	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body", err.Error())
		return
	}

	res, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "Resume updated successfully", res.Resume)
}

func (h *Handler) remove(c *gin.Context) {
	id := h.resumeID(c)
	res, err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "Resume and associated files deleted successfully", res.Resume)
}

func (h *Handler) duplicate(c *gin.Context) {
	id := h.resumeID(c)
	resume, err := h.Svc.Duplicate(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Success(c, http.StatusCreated, "Resume duplicated successfully", resume)
}

func (h *Handler) uploadImages(c *gin.Context) {
	id := h.resumeID(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	req := UploadRequest{BaseURL: h.baseURL(c)}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "File too large", err.Error())
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid multipart body", err.Error())
		return
	}

	var files []multipart.File
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
		if c.Request.MultipartForm != nil {
			_ = c.Request.MultipartForm.RemoveAll()
		}
	}()

	for _, slot := range []string{SlotThumbnail, SlotProfileImage} {
		upload, f, err := openSlot(c.Request.MultipartForm, slot)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), "")
			return
		}
		if upload == nil {
			continue
		}
		files = append(files, f)
		if slot == SlotThumbnail {
			req.Thumbnail = upload
		} else {
			req.ProfileImage = upload
		}
	}

	res, err := h.Svc.AttachUpload(c.Request.Context(), middleware.UserIDFromContext(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Success(c, http.StatusOK, "Image uploaded successfully", res)
}

// openSlot opens the single file sent for slot, resolving its media type from
// content when the client did not declare one.
func openSlot(form *multipart.Form, slot string) (*Upload, multipart.File, error) {
	if form == nil {
		return nil, nil, nil
	}
	headers := form.File[slot]
	switch len(headers) {
	case 0:
		return nil, nil, nil
	case 1:
	default:
		return nil, nil, fmt.Errorf("only one %s file is allowed", slot)
	}

	fh := headers[0]
	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read %s", slot)
	}

	contentType := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if contentType == "" || strings.EqualFold(contentType, "application/octet-stream") {
		detected, err := mimetype.DetectReader(f)
		if err == nil {
			contentType = detected.String()
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			_ = f.Close()
			return nil, nil, fmt.Errorf("unable to read %s", slot)
		}
	}

	return &Upload{
		FileName:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

func (h *Handler) resumeID(c *gin.Context) string {
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)
	return id
}

func (h *Handler) baseURL(c *gin.Context) string {
	if h.PublicBaseURL != "" {
		return h.PublicBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Resume not found", "")
	case errors.Is(err, ErrUnsupportedMedia):
		respond.Error(c, http.StatusBadRequest, "unsupported_media", msgUnsupportedMedia, err.Error())
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "), "")
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", err.Error())
	}
}
