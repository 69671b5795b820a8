package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/jewelcca/storefront/pkg/errors"
)

// BackendErrorResponse mirrors the error envelope returned by the storefront
// backend: {"error": {"code": ..., "message": ..., "fields": {...}}}.
type BackendErrorResponse struct {
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	} `json:"error"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an AppError. If the body matches the standard error envelope, the
// backend's code and message are preserved; otherwise a generic error carrying
// the status code and raw body is returned.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, endpoint string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", endpoint, resp.StatusCode, err)
	}

	var backend BackendErrorResponse
	if json.Unmarshal(bodyBytes, &backend) == nil && backend.Error != nil {
		msg := fmt.Sprintf("%s: %s", endpoint, backend.Error.Message)
		return apperrors.FromStatus(resp.StatusCode, backend.Error.Code, msg)
	}

	// Fallback: unstructured error body.
	return apperrors.FromStatus(resp.StatusCode, "UNKNOWN",
		fmt.Sprintf("%s returned status %d: %s", endpoint, resp.StatusCode, string(bodyBytes)))
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
