package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type CreateRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Tariff   float64 `json:"tariff"`
	Currency string  `json:"currency"`
}

type Response struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Tariff   float64 `json:"tariff"`
	Currency string  `json:"currency"`
	Address  string  `json:"address,omitempty"`
}

var (
	ErrInvalidUserID = errors.New("invalid_user_id")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrInvalidTariff = errors.New("invalid_tariff")
	ErrUserNotFound  = errors.New("user_not_found")
)

// ParseID validates the well-formed-identifier contract shared by every
// user-scoped operation.
func ParseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(value)
	if err != nil || id == 0 {
		return 0, ErrInvalidUserID
	}
	return id, nil
}
