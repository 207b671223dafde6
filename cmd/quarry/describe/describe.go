// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package describe implements "quarry describe": an inspection command
// over the region controller's self-describing API document.
package describe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/quarry-project/quarry/cmd/quarry/cli"
	"github.com/quarry-project/quarry/transport"
)

type describeParams struct {
	cli.ClientConfig
	cli.FormatOutput

	Expect string `json:"-" flag:"expect" desc:"fail (exit 1) unless the API fingerprint matches this value"`
}

// resourceEntry is one row of the resource listing.
type resourceEntry struct {
	Name    string   `json:"name"`
	URI     string   `json:"uri"`
	Auth    bool     `json:"auth"`
	Params  []string `json:"params"`
	Actions []string `json:"actions"`
}

// actionEntry is one row of the single-resource action listing.
type actionEntry struct {
	Name    string   `json:"name"`
	Method  string   `json:"method"`
	Op      string   `json:"op,omitempty"`
	Restful bool     `json:"restful"`
	Params  []string `json:"params"`
	Doc     string   `json:"doc,omitempty"`
}

// Command returns the "describe" command.
func Command() *cli.Command {
	var params describeParams

	return &cli.Command{
		Name:    "describe",
		Summary: "Inspect the region's API surface",
		Description: `Fetch and display the region controller's API description: the
resources the session can reach and the actions each one accepts.

With a resource name argument, shows that resource's actions in
detail. Without one, lists all resources.

The fingerprint printed at the end is a stable digest of the
description document; it changes exactly when the region's API
surface changes. --expect turns the command into a drift check for
scripts: exit 0 when the fingerprint matches, exit 1 when it does
not.`,
		Usage: "quarry describe [resource] [flags]",
		Examples: []cli.Example{
			{
				Description: "List every resource the session can reach",
				Command:     "quarry describe",
			},
			{
				Description: "Show the actions on the Machines resource",
				Command:     "quarry describe Machines",
			},
			{
				Description: "Fail a CI job when the region's API drifted",
				Command:     "quarry describe --expect 9c0e6f…",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("describe", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 1 {
				return fmt.Errorf("unexpected argument: %s", args[1])
			}
			client, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}
			defer client.Close()
			session := client.Origin().Session()

			fingerprint, err := session.Description().Fingerprint()
			if err != nil {
				return err
			}

			if params.Expect != "" {
				return checkFingerprint(fingerprint, params.Expect)
			}
			if len(args) == 1 {
				return showResource(session, args[0], &params.FormatOutput)
			}
			return listResources(session, fingerprint, &params.FormatOutput)
		},
	}
}

// checkFingerprint implements --expect. Both values print so the drift
// is visible in CI logs; the exit code carries the verdict.
func checkFingerprint(fingerprint, expected string) error {
	if fingerprint == expected {
		fmt.Printf("fingerprint %s (as expected)\n", fingerprint)
		return nil
	}
	fmt.Printf("fingerprint %s\nexpected    %s\n", fingerprint, expected)
	return &cli.ExitError{Code: 1}
}

func listResources(session *transport.Session, fingerprint string, format *cli.FormatOutput) error {
	names := session.HandlerNames()
	entries := make([]resourceEntry, 0, len(names))
	for _, name := range names {
		handler, ok := session.Handler(name)
		if !ok {
			continue
		}
		entries = append(entries, resourceEntry{
			Name:    name,
			URI:     handler.URI(),
			Auth:    boundAuthenticated(session, name),
			Params:  handler.Params(),
			Actions: handler.ActionNames(),
		})
	}

	if done, err := format.Emit(entries); done {
		return err
	}

	table := cli.NewTable("RESOURCE", "AUTH", "PARAMS", "ACTIONS")
	for _, entry := range entries {
		auth := "anon"
		if entry.Auth {
			auth = "auth"
		}
		table.AddRow(entry.Name, auth,
			strings.Join(entry.Params, ","),
			strings.Join(entry.Actions, ","))
	}
	table.Render(os.Stdout)
	fmt.Printf("\nfingerprint %s\n", fingerprint)
	return nil
}

// boundAuthenticated reports whether the session bound the resource's
// authenticated handler (as opposed to its anonymous fallback).
func boundAuthenticated(session *transport.Session, name string) bool {
	if session.Anonymous() {
		return false
	}
	for _, resource := range session.Description().Resources {
		if resource.Auth != nil && transport.DeriveResourceName(resource.Auth.Name) == name {
			return true
		}
	}
	return false
}

func showResource(session *transport.Session, name string, format *cli.FormatOutput) error {
	handler, ok := session.Handler(name)
	if !ok {
		return fmt.Errorf("no resource %q (run \"quarry describe\" for the list)", name)
	}

	entries := make([]actionEntry, 0, len(handler.ActionNames()))
	for _, actionName := range handler.ActionNames() {
		action, ok := handler.Action(actionName)
		if !ok {
			continue
		}
		entries = append(entries, actionEntry{
			Name:    action.Name(),
			Method:  action.Method(),
			Op:      action.Op(),
			Restful: action.Restful(),
			Params:  action.Params(),
			Doc:     firstLine(action.Doc()),
		})
	}

	if done, err := format.Emit(entries); done {
		return err
	}

	fmt.Printf("%s  %s\n\n", handler.Name(), handler.URI())
	table := cli.NewTable("ACTION", "METHOD", "OP", "PARAMS", "DOC")
	for _, entry := range entries {
		op := entry.Op
		if entry.Restful {
			op = "(restful)"
		}
		table.AddRow(entry.Name, entry.Method, op,
			strings.Join(entry.Params, ","), entry.Doc)
	}
	table.Render(os.Stdout)
	return nil
}

// firstLine truncates multi-line server docs to their summary line.
func firstLine(doc string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(doc), "\n")
	return line
}
