package server

import (
	"errors"
	"net/http"

	apperrors "caltrack-backend-go/internal/errors"
	"github.com/gin-gonic/gin"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(t apperrors.ErrorType) int {
	switch t {
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypePermission:
		return http.StatusUnauthorized
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	case apperrors.ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case apperrors.ErrorTypeExternal:
		return http.StatusBadGateway
	case apperrors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and writes the JSON error response. Internal detail is never
// exposed to clients; only the classified message goes out.
func (s *Server) fail(c *gin.Context, err error) {
	s.errs.Handle(c.Request.Context(), err)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(statusFor(appErr.Type), gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// badRequest writes a plain 400 for malformed request bodies.
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
