package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"apparel-catalog/internal/storage"
)

type ImageOpener interface {
	Open(ctx context.Context, kind, name string) (*storage.File, error)
}

type UploadHandler struct {
	images ImageOpener
}

func NewUploadHandler(images ImageOpener) *UploadHandler {
	return &UploadHandler{images: images}
}

// GET /uploads/:kind/:filename
func (h *UploadHandler) Serve(c *gin.Context) {
	f, err := h.images.Open(c.Request.Context(), c.Param("kind"), c.Param("filename"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Message: "File not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, f.ContentType, f.Data)
}
