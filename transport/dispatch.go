// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"

	"github.com/quarry-project/quarry/lib/netutil"
)

// Request is one prepared API call: the URI template has been
// interpolated and the operation and remaining parameters separated
// out. Dispatchers decide how the parameters travel on the wire.
type Request struct {
	// Method is the HTTP method, e.g. "GET" or "POST".
	Method string
	// URL is the absolute request URL with URI parameters interpolated,
	// before any query string.
	URL string
	// Op names the operation for non-restful actions. It always travels
	// in the query string.
	Op string
	// Params holds the call parameters that are not URI parameters. GET
	// and DELETE requests encode them in the query string; POST and PUT
	// requests send them as a JSON body.
	Params map[string]any
}

// Dispatcher executes prepared requests. The production implementation
// is [HTTPDispatcher]; tests substitute fakes to script responses.
type Dispatcher interface {
	// Dispatch performs the request and returns the decoded response:
	// decoded JSON (maps, slices, strings, float64 numbers) when the
	// response declares a JSON content type, raw bytes otherwise, nil
	// for an empty body. Non-2xx responses return a *CallError.
	Dispatch(ctx context.Context, request *Request) (any, error)
}

// HTTPDispatcherConfig holds configuration for creating an HTTPDispatcher.
type HTTPDispatcherConfig struct {
	// Credentials sign every request when present. Nil means anonymous
	// access; the session then only binds anonymous handlers.
	Credentials *Credentials
	// HTTPClient is used for all requests. If nil, a client with gzip
	// response decompression is constructed from http.DefaultTransport.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// HTTPDispatcher executes requests against the region controller over
// HTTP. Responses are decompressed transparently, each request carries
// a unique X-Request-Id header for correlation with region logs, and
// requests are OAuth-signed when credentials are configured.
type HTTPDispatcher struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTPDispatcher creates a dispatcher from config.
func NewHTTPDispatcher(config HTTPDispatcherConfig) *HTTPDispatcher {
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Transport: gzhttp.Transport(http.DefaultTransport)}
	}
	if config.Credentials != nil {
		client = config.Credentials.client(client)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPDispatcher{
		client: client,
		logger: logger,
	}
}

// Dispatch implements [Dispatcher].
func (d *HTTPDispatcher) Dispatch(ctx context.Context, request *Request) (any, error) {
	requestURL, bodyReader, err := encodeRequest(request)
	if err != nil {
		return nil, err
	}

	httpRequest, err := http.NewRequestWithContext(ctx, request.Method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("transport: creating request: %w", err)
	}

	requestID := uuid.NewString()
	httpRequest.Header.Set("X-Request-Id", requestID)
	httpRequest.Header.Set("Accept", "application/json,*/*;q=0.9")
	if bodyReader != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}

	response, err := d.client.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("transport: %s %s failed: %w", request.Method, request.URL, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("transport: reading response body: %w", err)
	}

	d.logger.Debug("api call",
		"method", request.Method,
		"url", requestURL,
		"status", response.StatusCode,
		"request_id", requestID,
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &CallError{
			Status: response.StatusCode,
			Method: request.Method,
			URL:    requestURL,
			Body:   responseBody,
		}
	}

	return decodeBody(response.Header.Get("Content-Type"), responseBody)
}

// encodeRequest builds the final URL and body for a request. The op
// always travels in the query string. GET and DELETE carry their
// parameters in the query string too; POST and PUT send them as a JSON
// body.
func encodeRequest(request *Request) (string, io.Reader, error) {
	query := url.Values{}
	if request.Op != "" {
		query.Set("op", request.Op)
	}

	var body io.Reader
	switch request.Method {
	case http.MethodGet, http.MethodDelete:
		if err := encodeQuery(query, request.Params); err != nil {
			return "", nil, err
		}
	default:
		if len(request.Params) > 0 {
			encoded, err := json.Marshal(request.Params)
			if err != nil {
				return "", nil, fmt.Errorf("transport: encoding request body: %w", err)
			}
			body = bytes.NewReader(encoded)
		}
	}

	requestURL := request.URL
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}
	return requestURL, body, nil
}

// encodeQuery flattens call parameters into query values. Slices expand
// to repeated keys, matching how the region parses multi-valued
// constraints such as tags.
func encodeQuery(query url.Values, params map[string]any) error {
	for name, value := range params {
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				query.Add(name, item)
			}
		case []any:
			for _, item := range v {
				text, err := queryValue(name, item)
				if err != nil {
					return err
				}
				query.Add(name, text)
			}
		default:
			text, err := queryValue(name, value)
			if err != nil {
				return err
			}
			query.Add(name, text)
		}
	}
	return nil
}

// queryValue renders a single scalar parameter as a query string value.
func queryValue(name string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool, int, int64, float64, json.Number:
		return fmt.Sprintf("%v", v), nil
	default:
		return "", fmt.Errorf("transport: parameter %q of type %T cannot be encoded in a query string", name, value)
	}
}

// decodeBody interprets a successful response body. JSON media types
// decode into generic Go values; anything else passes through as raw
// bytes; an empty body becomes nil.
func decodeBody(contentType string, body []byte) (any, error) {
	if len(body) == 0 {
		return nil, nil
	}
	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}
	if isJSONMediaType(mediaType) {
		var data any
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("transport: decoding JSON response: %w", err)
		}
		return data, nil
	}
	return body, nil
}

func isJSONMediaType(mediaType string) bool {
	return strings.HasSuffix(mediaType, "/json") || strings.HasSuffix(mediaType, "+json")
}
