package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/ecomap-backend-go/internal/service"
	"github.com/jengzang/ecomap-backend-go/pkg/response"
)

// serviceError maps service errors onto HTTP responses
func serviceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoTasks):
		response.Error(c, http.StatusNotFound, message, err)
	case errors.Is(err, service.ErrInvalidGeometry),
		errors.Is(err, service.ErrInvalidGrid),
		errors.Is(err, service.ErrInvalidViewport),
		errors.Is(err, service.ErrInvalidMode):
		response.Error(c, http.StatusBadRequest, message, err)
	case errors.Is(err, service.ErrOutsideTask), errors.Is(err, service.ErrTooManyAnnotations):
		response.Error(c, http.StatusUnprocessableEntity, message, err)
	default:
		response.Error(c, http.StatusInternalServerError, message, err)
	}
}

// projectID parses the :id path parameter
func projectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "Invalid project ID")
		return 0, false
	}
	return id, true
}
