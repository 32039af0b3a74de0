package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	alarmdomain "github.com/wattpay/wattpay/internal/alarm/domain"
	paymentdomain "github.com/wattpay/wattpay/internal/payment/domain"
	"github.com/wattpay/wattpay/internal/pricefeed"
	readingdomain "github.com/wattpay/wattpay/internal/reading/domain"
	userdomain "github.com/wattpay/wattpay/internal/user/domain"
	"gorm.io/gorm"
)

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())
	engine.GET("/boom", func(c *gin.Context) {
		AbortWithError(c, err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	engine.ServeHTTP(w, req)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"invalid meter id", readingdomain.ErrInvalidMeterID, http.StatusBadRequest, "validation_error"},
		{"invalid granularity", readingdomain.ErrInvalidGranularity, http.StatusBadRequest, "validation_error"},
		{"invalid alarm kind", alarmdomain.ErrInvalidKind, http.StatusBadRequest, "validation_error"},
		{"wallet missing", paymentdomain.ErrWalletMissing, http.StatusBadRequest, "validation_error"},
		{"user not found", userdomain.ErrUserNotFound, http.StatusNotFound, "not_found"},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"payment required", readingdomain.ErrPaymentRequired, http.StatusPaymentRequired, "payment_required"},
		{"no spendable output", fmt.Errorf("send payment: %w", paymentdomain.ErrNoSpendableOutput), http.StatusPaymentRequired, "payment_required"},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"chain unavailable", paymentdomain.ErrChainUnavailable, http.StatusServiceUnavailable, "service_unavailable"},
		{"signer unavailable", paymentdomain.ErrSignerUnavailable, http.StatusServiceUnavailable, "service_unavailable"},
		{"price feed unavailable", pricefeed.ErrUnavailable, http.StatusServiceUnavailable, "service_unavailable"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := serveError(t, tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.typ, resp.Error.Type)
		})
	}
}

func TestErrorMappingDomainValidationCarriesField(t *testing.T) {
	w, resp := serveError(t, readingdomain.ErrInvalidMeterID)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, resp.Error.Errors, 1)
	assert.Equal(t, "meter_id", resp.Error.Errors[0].Field)
	assert.Equal(t, "invalid_meter_id", resp.Error.Errors[0].Code)
}

func TestErrorMappingStructuredValidationErrors(t *testing.T) {
	w, resp := serveError(t, newValidationError("email", "invalid_email", "invalid email"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", resp.Error.Type)
	require.Len(t, resp.Error.Errors, 1)
	assert.Equal(t, "email", resp.Error.Errors[0].Field)
	assert.Equal(t, "invalid_email", resp.Error.Errors[0].Code)
}
