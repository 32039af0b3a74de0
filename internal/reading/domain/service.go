package domain

import (
	"context"
	"errors"
)

type Service interface {
	Ingest(ctx context.Context, req CreateReadingRequest) (*CreateReadingResponse, error)
	GenerateChart(ctx context.Context, req GenerateChartRequest) (GenerateChartResponse, error)
}

type CreateReadingRequest struct {
	UserID    string  `json:"user_id"`
	MeterID   string  `json:"meter_id"`
	Reading   float64 `json:"reading"`
	PaymentID string  `json:"payment_id,omitempty"`
}

type CreateReadingResponse struct {
	ID string `json:"id"`
}

// GenerateChartRequest carries the raw caller inputs; the service validates
// them before touching the reading store. Start and End are RFC 3339 and
// optional.
type GenerateChartRequest struct {
	UserID      string `json:"user_id"`
	Granularity string `json:"granularity"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
}

type GenerateChartResponse struct {
	Chart []ChartBucket `json:"chart"`
}

var (
	ErrInvalidMeterID     = errors.New("invalid_meter_id")
	ErrInvalidReading     = errors.New("invalid_reading")
	ErrInvalidPaymentID   = errors.New("invalid_payment_id")
	ErrInvalidGranularity = errors.New("invalid_granularity")
	ErrInvalidRange       = errors.New("invalid_range")
	ErrInvalidBucketKey   = errors.New("invalid_bucket_key")
	ErrPaymentRequired    = errors.New("payment_required")
)
