// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Hostname string        `flag:"hostname" desc:"machine hostname"`
		Wait     bool          `flag:"wait,w" desc:"block until done"`
		CPUs     int           `flag:"cpus" desc:"minimum cpu count"`
		Timeout  time.Duration `flag:"timeout" desc:"wait timeout"`
		Tags     []string      `flag:"tags" desc:"tag list"`
		Untagged string        // no flag tag — should be skipped
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	err := flagSet.Parse([]string{
		"--hostname", "rack-12",
		"-w",
		"--cpus", "8",
		"--timeout", "30s",
		"--tags", "gpu,fast,staging",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Hostname != "rack-12" {
		t.Errorf("Hostname = %q, want %q", p.Hostname, "rack-12")
	}
	if !p.Wait {
		t.Error("Wait = false, want true")
	}
	if p.CPUs != 8 {
		t.Errorf("CPUs = %d, want 8", p.CPUs)
	}
	if p.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", p.Timeout)
	}
	if len(p.Tags) != 3 || p.Tags[0] != "gpu" || p.Tags[1] != "fast" || p.Tags[2] != "staging" {
		t.Errorf("Tags = %v, want [gpu fast staging]", p.Tags)
	}
	if p.Untagged != "" {
		t.Errorf("Untagged = %q, want empty (should be skipped)", p.Untagged)
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		Series   string        `flag:"distro-series" desc:"OS series" default:"jammy"`
		Count    int           `flag:"count" desc:"machine count" default:"1"`
		Interval time.Duration `flag:"interval" desc:"poll interval" default:"5s"`
		Wait     bool          `flag:"wait" desc:"block until done" default:"true"`
		Tags     []string      `flag:"tags" desc:"tags" default:"x,y"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	// Parse with no arguments — should get all defaults.
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Series != "jammy" {
		t.Errorf("Series = %q, want %q", p.Series, "jammy")
	}
	if p.Count != 1 {
		t.Errorf("Count = %d, want 1", p.Count)
	}
	if p.Interval != 5*time.Second {
		t.Errorf("Interval = %v, want 5s", p.Interval)
	}
	if !p.Wait {
		t.Error("Wait = false, want true")
	}
	if len(p.Tags) != 2 || p.Tags[0] != "x" || p.Tags[1] != "y" {
		t.Errorf("Tags = %v, want [x y]", p.Tags)
	}
}

func TestBindFlags_DefaultsOverriddenByCLI(t *testing.T) {
	type params struct {
		Series string `flag:"distro-series" desc:"OS series" default:"jammy"`
		Count  int    `flag:"count" desc:"machine count" default:"1"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse([]string{"--distro-series", "noble", "--count", "4"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Series != "noble" {
		t.Errorf("Series = %q, want %q", p.Series, "noble")
	}
	if p.Count != 4 {
		t.Errorf("Count = %d, want 4", p.Count)
	}
}

// TestParamsBinder implements FlagBinder for testing. Named and embedded
// fields use this to verify that BindFlags calls AddFlags instead of
// reflecting tags. Exported so that reflect can call Interface() on it
// when embedded.
type TestParamsBinder struct {
	Alpha string
	Beta  int
}

func (b *TestParamsBinder) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&b.Alpha, "alpha", "", "alpha value")
	flagSet.IntVar(&b.Beta, "beta", 0, "beta value")
}

func TestBindFlags_NamedFlagBinder(t *testing.T) {
	type params struct {
		Binder TestParamsBinder
		Extra  string `flag:"extra" desc:"extra flag"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse([]string{"--alpha", "hello", "--beta", "7", "--extra", "world"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Binder.Alpha != "hello" {
		t.Errorf("Binder.Alpha = %q, want %q", p.Binder.Alpha, "hello")
	}
	if p.Binder.Beta != 7 {
		t.Errorf("Binder.Beta = %d, want 7", p.Binder.Beta)
	}
	if p.Extra != "world" {
		t.Errorf("Extra = %q, want %q", p.Extra, "world")
	}
}

func TestBindFlags_EmbeddedFlagBinder(t *testing.T) {
	type params struct {
		TestParamsBinder
		Extra string `flag:"extra" desc:"extra flag"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse([]string{"--alpha", "hello", "--extra", "world"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Alpha != "hello" {
		t.Errorf("Alpha = %q, want %q", p.Alpha, "hello")
	}
	if p.Extra != "world" {
		t.Errorf("Extra = %q, want %q", p.Extra, "world")
	}
}

func TestBindFlags_EmbeddedStructRecursion(t *testing.T) {
	type inner struct {
		Foo string `flag:"foo" desc:"foo flag"`
		Bar int    `flag:"bar" desc:"bar flag"`
	}
	type params struct {
		inner
		Baz bool `flag:"baz" desc:"baz flag"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse([]string{"--foo", "hello", "--bar", "5", "--baz"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Foo != "hello" {
		t.Errorf("Foo = %q, want %q", p.Foo, "hello")
	}
	if p.Bar != 5 {
		t.Errorf("Bar = %d, want 5", p.Bar)
	}
	if !p.Baz {
		t.Error("Baz = false, want true")
	}
}

func TestBindFlags_ClientConfigComposition(t *testing.T) {
	// The pattern every connected command uses: ClientConfig and
	// FormatOutput embedded next to the command's own flags.
	type params struct {
		ClientConfig
		FormatOutput
		Hostname string `flag:"hostname" desc:"machine hostname"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	err := flagSet.Parse([]string{
		"--url", "http://region:5240/fleet/",
		"--api-key", "a:b:c",
		"--format", "json",
		"--hostname", "rack-3",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.URL != "http://region:5240/fleet/" {
		t.Errorf("URL = %q, want the parsed value", p.URL)
	}
	if p.APIKey != "a:b:c" {
		t.Errorf("APIKey = %q, want %q", p.APIKey, "a:b:c")
	}
	if p.Format != "json" {
		t.Errorf("Format = %q, want %q", p.Format, "json")
	}
	if p.Hostname != "rack-3" {
		t.Errorf("Hostname = %q, want %q", p.Hostname, "rack-3")
	}
}

func TestBindFlags_Shorthand(t *testing.T) {
	type params struct {
		Output string `flag:"output,o" desc:"output path"`
		Wait   bool   `flag:"wait,w" desc:"block until done"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse([]string{"-o", "/tmp/out", "-w"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Output != "/tmp/out" {
		t.Errorf("Output = %q, want %q", p.Output, "/tmp/out")
	}
	if !p.Wait {
		t.Error("Wait = false, want true")
	}
}

func TestBindFlags_ErrorNotPointer(t *testing.T) {
	type params struct {
		Name string `flag:"name"`
	}
	var p params
	err := BindFlags(p, pflag.NewFlagSet("test", pflag.ContinueOnError))
	if err == nil {
		t.Fatal("expected error for non-pointer, got nil")
	}
	if want := "params must be a pointer to a struct"; !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want substring %q", err.Error(), want)
	}
}

func TestBindFlags_ErrorNotStruct(t *testing.T) {
	s := "not a struct"
	err := BindFlags(&s, pflag.NewFlagSet("test", pflag.ContinueOnError))
	if err == nil {
		t.Fatal("expected error for non-struct, got nil")
	}
}

func TestBindFlags_ErrorBadDefault(t *testing.T) {
	type params struct {
		Count int `flag:"count" default:"not_a_number"`
	}
	var p params
	err := BindFlags(&p, pflag.NewFlagSet("test", pflag.ContinueOnError))
	if err == nil {
		t.Fatal("expected error for bad default, got nil")
	}
}

func TestBindFlags_ErrorUnsupportedType(t *testing.T) {
	type params struct {
		Ratio float64 `flag:"ratio"`
	}
	var p params
	err := BindFlags(&p, pflag.NewFlagSet("test", pflag.ContinueOnError))
	if err == nil {
		t.Fatal("expected error for unsupported field type, got nil")
	}
	if want := "unsupported type"; !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want substring %q", err.Error(), want)
	}
}

func TestFlagsFromParams(t *testing.T) {
	type params struct {
		Zone string `flag:"zone" desc:"availability zone" default:"default"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)

	if err := flagSet.Parse([]string{"--zone", "rack-a"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Zone != "rack-a" {
		t.Errorf("Zone = %q, want %q", p.Zone, "rack-a")
	}
}

func TestFlagsFromParams_DefaultUsedWhenNotParsed(t *testing.T) {
	type params struct {
		Zone string `flag:"zone" desc:"availability zone" default:"default"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)

	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Zone != "default" {
		t.Errorf("Zone = %q, want %q", p.Zone, "default")
	}
}

func TestFlagsFromParams_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil input, got none")
		}
	}()
	FlagsFromParams("test", nil)
}
