package server

import (
	"net/http"
	"strconv"

	"caltrack-backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

// idParam parses the :id path parameter.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		badRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// addEntry persists a new log entry. POST /api/entries.
func (s *Server) addEntry(c *gin.Context) {
	var body domain.EntryInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	entry, err := s.entries.Add(c.Request.Context(), currentUserID(c), body)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": entry.ID, "success": true})
}

// dailyStats returns the stats for one date (today when omitted).
// GET /api/entries/today?date=YYYY-MM-DD.
func (s *Server) dailyStats(c *gin.Context) {
	stats, err := s.entries.DailyStats(c.Request.Context(), currentUserID(c), c.Query("date"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// history returns the bucketed history series.
// GET /api/entries/history?range=week|month|year.
func (s *Server) history(c *gin.Context) {
	points, err := s.entries.History(c.Request.Context(), currentUserID(c), c.Query("range"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// updateEntry edits an owned entry. PUT /api/entries/:id.
func (s *Server) updateEntry(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body domain.EntryUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := s.entries.Update(c.Request.Context(), currentUserID(c), id, body); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// deleteEntry removes an owned entry. DELETE /api/entries/:id.
func (s *Server) deleteEntry(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := s.entries.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
