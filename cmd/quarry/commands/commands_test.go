// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import "testing"

func TestRootWiresAllResourceCommands(t *testing.T) {
	root := Root()
	if root.Name != "quarry" {
		t.Fatalf("root command name = %q", root.Name)
	}

	found := make(map[string]bool)
	for _, sub := range root.Subcommands {
		found[sub.Name] = true
	}
	for _, want := range []string{
		"describe", "machines", "tags", "zones", "users", "sshkeys", "files", "version",
	} {
		if !found[want] {
			t.Errorf("root tree is missing the %q command", want)
		}
	}
}

func TestMachinesSubcommands(t *testing.T) {
	root := Root()
	var machines *struct{ names map[string]bool }
	for _, sub := range root.Subcommands {
		if sub.Name == "machines" {
			names := make(map[string]bool)
			for _, leaf := range sub.Subcommands {
				names[leaf.Name] = true
			}
			machines = &struct{ names map[string]bool }{names}
		}
	}
	if machines == nil {
		t.Fatal("no machines command in the root tree")
	}
	for _, want := range []string{"list", "show", "allocate", "deploy", "release", "commission", "delete", "watch"} {
		if !machines.names[want] {
			t.Errorf("machines tree is missing %q", want)
		}
	}
}
