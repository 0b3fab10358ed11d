package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/etnz/analyzer"
)

// statusOf maps an analyzer error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, analyzer.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, analyzer.ErrInsufficientData), errors.Is(err, analyzer.ErrInsufficientAssets):
		return http.StatusNotFound
	case errors.Is(err, analyzer.ErrExternalFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail aborts the request with {"detail": msg}. Internal errors are not detailed.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}
