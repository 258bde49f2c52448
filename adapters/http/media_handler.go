package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	mediaUC "github.com/khoahotran/talent-directory/internal/application/usecase/media"
	"github.com/khoahotran/talent-directory/pkg/apperror"
)

const maxImageBytes = 5 << 20

type MediaHandler struct {
	profileImageUC *mediaUC.ProfileImageUseCase
}

func NewMediaHandler(profileImageUC *mediaUC.ProfileImageUseCase) *MediaHandler {
	return &MediaHandler{profileImageUC: profileImageUC}
}

// UploadProfileImage takes the photo from the multipart "file" field.
func (h *MediaHandler) UploadProfileImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	if ct := fileHeader.Header.Get("Content-Type"); !acceptedImageType(ct) {
		c.Error(apperror.NewInvalidInput("'file' must be an image, got "+ct, nil))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	updated, err := h.profileImageUC.Upload(c.Request.Context(), c.Param("id"), file)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Browsers and curl fall back to octet-stream for unknown extensions; the
// image resource type on the storage side rejects anything that is not one.
func acceptedImageType(ct string) bool {
	return ct == "" || ct == "application/octet-stream" || strings.HasPrefix(ct, "image/")
}

func (h *MediaHandler) DeleteProfileImage(c *gin.Context) {
	updated, err := h.profileImageUC.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
