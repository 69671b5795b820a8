package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jewelcca/storefront/pkg/errors"
)

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_Structured(t *testing.T) {
	resp := response(http.StatusNotFound, `{"error":{"code":"NOT_FOUND","message":"product p-1 not found"}}`)

	err := ParseResponseError(resp, "products")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.Contains(t, appErr.Message, "products")
}

func TestParseResponseError_Unauthorized(t *testing.T) {
	resp := response(http.StatusUnauthorized, `{"error":{"code":"UNAUTHORIZED","message":"token expired"}}`)

	err := ParseResponseError(resp, "cart")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestParseResponseError_PaymentFailed(t *testing.T) {
	resp := response(http.StatusUnprocessableEntity, `{"error":{"code":"PAYMENT_FAILED","message":"signature mismatch"}}`)

	err := ParseResponseError(resp, "payment")
	assert.True(t, errors.Is(err, apperrors.ErrPaymentFailed))
}

func TestParseResponseError_Unstructured(t *testing.T) {
	resp := response(http.StatusBadGateway, "upstream timeout")

	err := ParseResponseError(resp, "orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream timeout")
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(http.StatusBadRequest))
	assert.True(t, IsClientError(http.StatusNotFound))
	assert.False(t, IsClientError(http.StatusOK))
	assert.False(t, IsClientError(http.StatusInternalServerError))
}
