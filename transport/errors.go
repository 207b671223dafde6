// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"errors"
	"fmt"
)

// CallError represents a non-2xx response from the region controller.
// Callers can use errors.As to extract the structured information:
//
//	var callErr *transport.CallError
//	if errors.As(err, &callErr) {
//	    if callErr.Status == http.StatusConflict { ... }
//	}
type CallError struct {
	// Status is the HTTP status code of the response.
	Status int
	// Method and URL identify the request that failed.
	Method string
	URL    string
	// Body is the raw response body. The region reports most errors as
	// a plain-text sentence.
	Body []byte
}

func (e *CallError) Error() string {
	return fmt.Sprintf("transport: %s %s -> HTTP %d (%s)", e.Method, e.URL, e.Status, truncateBody(e.Body))
}

// truncateBody renders a response body for an error message, capping it
// at 50 characters so a long HTML error page does not swamp the log.
func truncateBody(body []byte) string {
	runes := []rune(string(body))
	if len(runes) > 50 {
		return string(runes[:49]) + "…"
	}
	return string(runes)
}

// IsCallError checks whether err is a *CallError with the given HTTP
// status code.
func IsCallError(err error, status int) bool {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Status == status
	}
	return false
}
