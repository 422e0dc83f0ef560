package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// register creates a new account. POST /api/auth/register.
func (s *Server) register(c *gin.Context) {
	var body credentials
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	userID, err := s.auth.Register(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "userId": userID})
}

// login verifies credentials and returns an access token. POST /api/auth/login.
func (s *Server) login(c *gin.Context) {
	var body credentials
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	token, err := s.auth.Login(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "username": body.Username})
}
