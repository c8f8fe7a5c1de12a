// Package server provides the HTTP REST API for the compliance-review service.
package server

import (
	"errors"
	"net/http"

	"github.com/clinsight/compliance-review/internal/pipeline"
	"github.com/clinsight/compliance-review/internal/provider"
)

// HTTPStatus maps a review error onto the HTTP status the caller receives:
// client faults are 400, retryable upstream failures are 502, everything
// else is 500.
func HTTPStatus(err error) int {
	var inputErr *pipeline.ClientInputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest
	}
	if provider.Retryable(err) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
