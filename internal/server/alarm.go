package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	alarmdomain "github.com/wattpay/wattpay/internal/alarm/domain"
)

type createAlarmRequest struct {
	UserID    string  `json:"user_id"`
	Kind      string  `json:"kind"`
	Threshold float64 `json:"threshold"`
	Active    bool    `json:"active"`
}

func (s *Server) CreateAlarm(c *gin.Context) {
	var req createAlarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.alarmsvc.Create(c.Request.Context(), alarmdomain.CreateRequest{
		UserID:    strings.TrimSpace(req.UserID),
		Kind:      alarmdomain.Kind(strings.ToLower(strings.TrimSpace(req.Kind))),
		Threshold: req.Threshold,
		Active:    req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetAlarmByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	alarm, err := s.alarmsvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": alarm})
}

func (s *Server) ToggleAlarm(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	if err := s.alarmsvc.ToggleActive(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) DeleteAlarm(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	if err := s.alarmsvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ListAlarms(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))

	alarms, err := s.alarmsvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": alarms})
}

func (s *Server) AlarmHistory(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))

	entries, err := s.alarmsvc.History(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (s *Server) DeleteAlarmHistory(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	if err := s.alarmsvc.DeleteHistory(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
