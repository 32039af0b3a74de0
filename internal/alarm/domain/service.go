package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	GetByID(ctx context.Context, id string) (*Alarm, error)
	ToggleActive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]Alarm, error)
	History(ctx context.Context, userID string) ([]HistoryEntry, error)
	LogTrigger(ctx context.Context, req LogTriggerRequest) error
	DeleteHistory(ctx context.Context, historyID string) error
}

type CreateRequest struct {
	UserID    string  `json:"user_id"`
	Kind      Kind    `json:"kind"`
	Threshold float64 `json:"threshold"`
	Active    bool    `json:"active"`
}

type LogTriggerRequest struct {
	UserID  string
	AlarmID string
	Value   float64
}

type Response struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Kind      Kind    `json:"kind"`
	Threshold float64 `json:"threshold"`
	Active    bool    `json:"active"`
}

var (
	ErrInvalidAlarmID   = errors.New("invalid_alarm_id")
	ErrInvalidKind      = errors.New("invalid_alarm_kind")
	ErrInvalidThreshold = errors.New("invalid_threshold")
	ErrAlarmNotFound    = errors.New("alarm_not_found")
	ErrInvalidHistoryID = errors.New("invalid_history_id")
	ErrHistoryNotFound  = errors.New("alarm_history_not_found")
)
