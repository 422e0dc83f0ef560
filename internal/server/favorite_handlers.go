package server

import (
	"net/http"

	"caltrack-backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

// listFavorites returns the user's favorites. GET /api/favorites.
func (s *Server) listFavorites(c *gin.Context) {
	favorites, err := s.favorites.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, favorites)
}

// addFavorite saves a new favorite. POST /api/favorites.
func (s *Server) addFavorite(c *gin.Context) {
	var body domain.FavoriteInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	fav, err := s.favorites.Add(c.Request.Context(), currentUserID(c), body)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": fav.ID, "success": true})
}

// deleteFavorite removes an owned favorite. DELETE /api/favorites/:id.
func (s *Server) deleteFavorite(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := s.favorites.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// scaleFavorite recalculates a favorite's values for a requested weight.
// POST /api/favorites/:id/scale.
func (s *Server) scaleFavorite(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body struct {
		Weight float64 `json:"weight"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	scaled, err := s.favorites.ScaleToWeight(c.Request.Context(), currentUserID(c), id, body.Weight)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, scaled)
}
