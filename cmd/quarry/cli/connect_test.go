// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

// isolateConfig pins every resolution source to a known state: no env
// values, and QUARRY_CONFIG pointing at an empty config file so the
// developer's real config dir is never consulted. Tests override
// individual sources from there.
func isolateConfig(t *testing.T) {
	t.Helper()
	empty := filepath.Join(t.TempDir(), "config.jsonc")
	if err := os.WriteFile(empty, []byte("{}"), 0o600); err != nil {
		t.Fatalf("writing empty config: %v", err)
	}
	t.Setenv("QUARRY_URL", "")
	t.Setenv("QUARRY_CREDENTIALS", "")
	t.Setenv("QUARRY_CONFIG", empty)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.jsonc")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestClientConfig_Resolve_FlagsWin(t *testing.T) {
	isolateConfig(t)
	t.Setenv("QUARRY_URL", "http://env.example:5240/fleet/")
	t.Setenv("QUARRY_CREDENTIALS", "env:env:env")

	config := ClientConfig{
		URL:    "http://flag.example:5240/fleet/",
		APIKey: "flag:flag:flag",
	}
	url, apiKey, err := config.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if url != "http://flag.example:5240/fleet/" {
		t.Errorf("url = %q, want the flag value", url)
	}
	if apiKey != "flag:flag:flag" {
		t.Errorf("apiKey = %q, want the flag value", apiKey)
	}
}

func TestClientConfig_Resolve_EnvWinsOverFile(t *testing.T) {
	isolateConfig(t)
	path := writeConfig(t, `{"url": "http://file.example:5240/fleet/", "credentials": "file:file:file"}`)
	t.Setenv("QUARRY_CONFIG", path)
	t.Setenv("QUARRY_URL", "http://env.example:5240/fleet/")
	t.Setenv("QUARRY_CREDENTIALS", "env:env:env")

	var config ClientConfig
	url, apiKey, err := config.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if url != "http://env.example:5240/fleet/" {
		t.Errorf("url = %q, want the environment value", url)
	}
	if apiKey != "env:env:env" {
		t.Errorf("apiKey = %q, want the environment value", apiKey)
	}
}

func TestClientConfig_Resolve_JSONCConfigFile(t *testing.T) {
	isolateConfig(t)
	path := writeConfig(t, `{
	// region controller for the lab fleet
	"url": "http://region.example.com:5240/fleet/",
	"credentials": "consumer:token:secret", // issued by the admin UI
}`)
	t.Setenv("QUARRY_CONFIG", path)

	var config ClientConfig
	url, apiKey, err := config.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if url != "http://region.example.com:5240/fleet/" {
		t.Errorf("url = %q, want the config file value", url)
	}
	if apiKey != "consumer:token:secret" {
		t.Errorf("apiKey = %q, want the config file value", apiKey)
	}
}

func TestClientConfig_Resolve_ConfigFlagBeatsEnvPath(t *testing.T) {
	isolateConfig(t)
	envPath := writeConfig(t, `{"url": "http://wrong.example/fleet/"}`)
	flagPath := writeConfig(t, `{"url": "http://right.example/fleet/"}`)
	t.Setenv("QUARRY_CONFIG", envPath)

	config := ClientConfig{ConfigPath: flagPath}
	url, _, err := config.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if url != "http://right.example/fleet/" {
		t.Errorf("url = %q, want the --config file value", url)
	}
}

func TestClientConfig_Resolve_FileFillsMissingPieces(t *testing.T) {
	isolateConfig(t)
	path := writeConfig(t, `{"credentials": "file:file:file"}`)
	t.Setenv("QUARRY_CONFIG", path)
	t.Setenv("QUARRY_URL", "http://env.example:5240/fleet/")

	var config ClientConfig
	url, apiKey, err := config.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if url != "http://env.example:5240/fleet/" {
		t.Errorf("url = %q, want the environment value", url)
	}
	if apiKey != "file:file:file" {
		t.Errorf("apiKey = %q, want the config file value", apiKey)
	}
}

func TestClientConfig_Resolve_AnonymousWithoutKey(t *testing.T) {
	isolateConfig(t)
	t.Setenv("QUARRY_URL", "http://env.example:5240/fleet/")

	var config ClientConfig
	url, apiKey, err := config.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if url == "" {
		t.Error("url is empty")
	}
	if apiKey != "" {
		t.Errorf("apiKey = %q, want empty for anonymous access", apiKey)
	}
}

func TestClientConfig_Resolve_NoURLAnywhere(t *testing.T) {
	isolateConfig(t)

	var config ClientConfig
	_, _, err := config.resolve()
	if err == nil {
		t.Fatal("resolve = nil, want error when no URL is configured")
	}
	for _, want := range []string{"--url", "QUARRY_URL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error = %q, should mention %s", err.Error(), want)
		}
	}
}

func TestClientConfig_Resolve_ExplicitConfigMustExist(t *testing.T) {
	isolateConfig(t)

	config := ClientConfig{ConfigPath: filepath.Join(t.TempDir(), "missing.jsonc")}
	_, _, err := config.resolve()
	if err == nil {
		t.Fatal("resolve = nil, want error for a missing --config file")
	}
}

func TestClientConfig_Resolve_MalformedConfig(t *testing.T) {
	isolateConfig(t)
	path := writeConfig(t, `{"url": `)

	config := ClientConfig{ConfigPath: path}
	_, _, err := config.resolve()
	if err == nil {
		t.Fatal("resolve = nil, want parse error")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error = %q, should name the offending file", err.Error())
	}
}

func TestClientConfig_AddFlags(t *testing.T) {
	var config ClientConfig
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.AddFlags(flagSet)

	err := flagSet.Parse([]string{
		"--url", "http://region:5240/fleet/",
		"--api-key", "a:b:c",
		"--config", "/tmp/quarry.jsonc",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if config.URL != "http://region:5240/fleet/" {
		t.Errorf("URL = %q", config.URL)
	}
	if config.APIKey != "a:b:c" {
		t.Errorf("APIKey = %q", config.APIKey)
	}
	if config.ConfigPath != "/tmp/quarry.jsonc" {
		t.Errorf("ConfigPath = %q", config.ConfigPath)
	}
}
