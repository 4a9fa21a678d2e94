package handler

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/internal/response"
	"github.com/aromakopi/pos-backend/internal/storage"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedImageExt = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
	"gif":  true,
}

type UploadHandler struct {
	store      storage.Storage
	publicBase string
	maxBytes   int64
}

func NewUploadHandler(store storage.Storage, publicBase string, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		store:      store,
		publicBase: publicBase,
		maxBytes:   maxBytes,
	}
}

// Upload stores the multipart "image" field and returns its public URL.
// POST /api/upload
func (h *UploadHandler) Upload(c *gin.Context) {
	// Leave room for the multipart framing around the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+64<<10)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, apperror.Validation([]string{"image file is required"}))
		return
	}
	if fileHeader.Size > h.maxBytes {
		response.Error(c, apperror.Validation([]string{
			fmt.Sprintf("image must be at most %d MB", h.maxBytes>>20),
		}))
		return
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileHeader.Filename), "."))
	if !allowedImageExt[ext] {
		response.Error(c, apperror.Validation([]string{"image must be a jpg, jpeg, png, webp or gif file"}))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		response.Error(c, apperror.Validation([]string{"image content is not a recognised image"}))
		return
	}

	key, err := h.store.Save(c.Request.Context(), data, storage.SaveOptions{
		Category:  c.DefaultPostForm("category", "images"),
		Extension: ext,
		BaseName:  uuid.NewString(),
	})
	if err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}

	url := storage.PublicURL(h.publicBase, key)
	logger.Log.Info("Image uploaded",
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	response.Created(c, "Image uploaded successfully", gin.H{
		"imageUrl": url,
		"key":      key,
	})
}
