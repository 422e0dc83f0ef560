package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// analyzeFood estimates nutrition from a food image. POST /api/analyze/food.
func (s *Server) analyzeFood(c *gin.Context) {
	var body struct {
		Image  string  `json:"image"`
		Weight float64 `json:"weight"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	result, err := s.analyses.AnalyzeFoodImage(c.Request.Context(), currentUserID(c), body.Image, body.Weight)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// analyzeFoodText estimates nutrition from a food description.
// POST /api/analyze/food-text.
func (s *Server) analyzeFoodText(c *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	result, err := s.analyses.AnalyzeFoodText(c.Request.Context(), currentUserID(c), body.Text)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// analyzeSport estimates calories burned from a sport description.
// POST /api/analyze/sport.
func (s *Server) analyzeSport(c *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	result, err := s.analyses.AnalyzeSportText(c.Request.Context(), currentUserID(c), body.Text)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
