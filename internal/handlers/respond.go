package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"apparel-catalog/internal/logger"
	"apparel-catalog/internal/repository"
	"apparel-catalog/internal/storage"
)

const msgInternal = "Internal server error"

type ErrorResponse struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// respondError maps a repository or storage error to its HTTP status. Store
// failures are logged in full and reported by operation only.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *repository.ValidationError
	var serr *repository.StoreError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: verr.Message})
	case errors.Is(err, storage.ErrInvalidImageType):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid image file type"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case errors.Is(err, repository.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Email already registered"})
	case errors.Is(err, repository.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid email or password"})
	case errors.As(err, &serr):
		logger.From(c.Request.Context()).Error("store failure", zap.String("op", serr.Op), zap.Error(serr.Err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: serr.Op})
	default:
		logger.From(c.Request.Context()).Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: msgInternal})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: msg})
}
