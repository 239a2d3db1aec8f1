package handler

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appErrors "github.com/eduverse-labs/eduverse-api/pkg/errors"
	"github.com/eduverse-labs/eduverse-api/pkg/response"
	"github.com/eduverse-labs/eduverse-api/pkg/storage"
)

// allowedUploadMIMEs maps upload kinds to their accepted content types.
var allowedUploadMIMEs = map[string]map[string]string{
	"profile": {
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
		"image/gif":  ".gif",
	},
	"course": {
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	},
}

// UploadHandler stores media files for profiles and courses.
type UploadHandler struct {
	store   *storage.LocalStorage
	maxSize int64
}

// NewUploadHandler creates a new handler.
func NewUploadHandler(store *storage.LocalStorage, maxSize int64) *UploadHandler {
	return &UploadHandler{store: store, maxSize: maxSize}
}

// Upload godoc
// @Summary Upload a media file
// @Description Store a profile or course image and return its serving URL
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Media file"
// @Param type formData string false "Upload kind: profile or course" default(course)
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Validation("file", "is required"))
		return
	}

	kind := c.PostForm("type")
	allowed, ok := allowedUploadMIMEs[kind]
	if !ok {
		allowed = allowedUploadMIMEs["course"]
	}

	contentType := fileHeader.Header.Get("Content-Type")
	ext, ok := allowed[contentType]
	if !ok {
		response.Error(c, appErrors.Validation("file", fmt.Sprintf("has unsupported content type %q", contentType)))
		return
	}

	if fileHeader.Size > h.maxSize {
		response.Error(c, appErrors.Validation("file", fmt.Sprintf("exceeds the maximum size of %d bytes", h.maxSize)))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer src.Close() //nolint:errcheck

	name := filepath.Join(kindDir(kind), uuid.NewString()+ext)
	if _, err := h.store.SaveStream(name, src); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store upload"))
		return
	}

	response.JSON(c, http.StatusCreated, gin.H{"url": "/media/" + filepath.ToSlash(name)})
}

func kindDir(kind string) string {
	if _, ok := allowedUploadMIMEs[kind]; ok {
		return kind
	}
	return "course"
}
