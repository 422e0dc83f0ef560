package server

import (
	"errors"
	"net/http"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
	"github.com/gin-gonic/gin"
)

// getProfile returns the authenticated user's profile, or null when the
// account no longer exists. GET /api/user.
func (s *Server) getProfile(c *gin.Context) {
	user, err := s.profiles.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeNotFound {
			c.JSON(http.StatusOK, nil)
			return
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// saveProfile validates and saves the biometric profile and returns the
// freshly derived BMR. POST /api/user.
func (s *Server) saveProfile(c *gin.Context) {
	var body domain.ProfileInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, err := s.profiles.Save(c.Request.Context(), currentUserID(c), body)
	if err != nil {
		s.fail(c, err)
		return
	}
	var bmr float64
	if user.BMR != nil {
		bmr = *user.BMR
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bmr": bmr})
}
