package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	readingdomain "github.com/wattpay/wattpay/internal/reading/domain"
)

type createReadingRequest struct {
	UserID    string  `json:"user_id"`
	MeterID   string  `json:"meter_id"`
	Reading   float64 `json:"reading"`
	PaymentID string  `json:"payment_id,omitempty"`
}

func (s *Server) IngestReading(c *gin.Context) {
	var req createReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.readingsvc.Ingest(c.Request.Context(), readingdomain.CreateReadingRequest{
		UserID:    strings.TrimSpace(req.UserID),
		MeterID:   strings.TrimSpace(req.MeterID),
		Reading:   req.Reading,
		PaymentID: strings.TrimSpace(req.PaymentID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GenerateChart(c *gin.Context) {
	var query struct {
		Granularity string `form:"granularity"`
		Start       string `form:"start"`
		End         string `form:"end"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.readingsvc.GenerateChart(c.Request.Context(), readingdomain.GenerateChartRequest{
		UserID:      strings.TrimSpace(c.Param("id")),
		Granularity: strings.TrimSpace(query.Granularity),
		Start:       strings.TrimSpace(query.Start),
		End:         strings.TrimSpace(query.End),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Chart})
}
