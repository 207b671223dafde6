// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/quarry-project/quarry/lib/clock"
	"github.com/quarry-project/quarry/transport"
)

// ConnectConfig carries everything needed to reach a region.
type ConnectConfig struct {
	// BaseURL is the region's root or API URL; the API suffix is added
	// when missing.
	BaseURL string

	// APIKey is the colon-separated credential triplet. Empty connects
	// anonymously.
	APIKey string

	// Registry overrides the stock blueprints. Nil means
	// [DefaultRegistry].
	Registry *Registry

	// HTTPClient optionally overrides the transport's HTTP client.
	HTTPClient *http.Client

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Clock drives wait loops. Nil means the real clock; tests inject
	// a fake.
	Clock clock.Clock
}

// Connect fetches the region's API description, binds the blueprints
// against it, and returns the typed client.
func Connect(ctx context.Context, config ConnectConfig) (*Client, error) {
	credentials, err := transport.ParseCredentials(config.APIKey)
	if err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	session, err := transport.Connect(ctx, transport.ConnectConfig{
		BaseURL:     config.BaseURL,
		Credentials: credentials,
		HTTPClient:  config.HTTPClient,
		Logger:      config.Logger,
	})
	if err != nil {
		credentials.Close()
		return nil, err
	}
	registry := config.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}
	origin, err := New(session, registry)
	if err != nil {
		credentials.Close()
		return nil, err
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	client := newClient(origin, clk)
	client.credentials = credentials
	return client, nil
}
