// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/quarry-project/quarry/origin"
)

// ClientConfig holds the shared flags for connecting to a region
// controller. Commands embed it in their params struct; [BindFlags]
// recognizes it as a [FlagBinder] and registers its flags.
//
// The region URL and API key resolve in order: explicit flag, then the
// QUARRY_URL / QUARRY_CREDENTIALS environment variables, then the
// defaults file. The defaults file is JSONC (JSON with comments),
// located by --config, then $QUARRY_CONFIG, then
// <user-config-dir>/quarry/config.jsonc. It is only ever read; no
// command writes credentials anywhere.
//
// An empty API key after resolution connects anonymously, which binds
// only the resources the region serves without authentication.
//
// Usage pattern:
//
//	type listParams struct {
//	    cli.ClientConfig
//	    cli.FormatOutput
//	}
//
//	// In Run:
//	client, err := params.Connect(ctx, logger)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
type ClientConfig struct {
	// URL is the region controller URL, e.g.
	// "http://region.example.com:5240/fleet/".
	URL string
	// APIKey is the "consumer:token:secret" triplet issued by the
	// region.
	APIKey string
	// ConfigPath overrides the defaults file location.
	ConfigPath string
}

// AddFlags registers --url, --api-key, and --config on flagSet,
// satisfying [FlagBinder].
func (c *ClientConfig) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.URL, "url", "", "region controller URL (or QUARRY_URL)")
	flagSet.StringVar(&c.APIKey, "api-key", "", "API key \"consumer:token:secret\" (or QUARRY_CREDENTIALS; empty for anonymous access)")
	flagSet.StringVar(&c.ConfigPath, "config", "", "path to a JSONC defaults file (default $QUARRY_CONFIG, then the user config dir)")
}

// configFile is the decoded shape of the defaults file.
type configFile struct {
	URL         string `json:"url"`
	Credentials string `json:"credentials"`
}

// resolve produces the effective URL and API key from flags,
// environment, and the defaults file.
func (c *ClientConfig) resolve() (url, apiKey string, err error) {
	url = c.URL
	apiKey = c.APIKey

	if url == "" {
		url = os.Getenv("QUARRY_URL")
	}
	if apiKey == "" {
		apiKey = os.Getenv("QUARRY_CREDENTIALS")
	}
	if url != "" && apiKey != "" {
		return url, apiKey, nil
	}

	defaults, err := c.readConfigFile()
	if err != nil {
		return "", "", err
	}
	if defaults != nil {
		if url == "" {
			url = defaults.URL
		}
		if apiKey == "" {
			apiKey = defaults.Credentials
		}
	}

	if url == "" {
		return "", "", fmt.Errorf("no region URL: pass --url, set QUARRY_URL, or put \"url\" in the config file")
	}
	return url, apiKey, nil
}

// readConfigFile loads the defaults file if one exists. A file named
// explicitly (flag or environment) must exist and parse; the
// well-known location is optional.
func (c *ClientConfig) readConfigFile() (*configFile, error) {
	path := c.ConfigPath
	if path == "" {
		path = os.Getenv("QUARRY_CONFIG")
	}
	required := path != ""
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, nil
		}
		path = filepath.Join(configDir, "quarry", "config.jsonc")
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var parsed configFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &parsed); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &parsed, nil
}

// Connect resolves the region URL and API key and opens a typed
// client. The caller owns the client and must Close it.
func (c *ClientConfig) Connect(ctx context.Context, logger *slog.Logger) (*origin.Client, error) {
	url, apiKey, err := c.resolve()
	if err != nil {
		return nil, err
	}
	return origin.Connect(ctx, origin.ConnectConfig{
		BaseURL: url,
		APIKey:  apiKey,
		Logger:  logger,
	})
}
