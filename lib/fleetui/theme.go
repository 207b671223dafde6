// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package fleetui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/quarry-project/quarry/origin"
)

// Theme defines the color palette for the fleet dashboard. All colors
// use lipgloss ANSI 256-color codes for broad terminal compatibility.
//
// Machine statuses map onto four semantic buckets rather than one
// color per status: ready for work, in service, moving between states,
// and needs attention. The bucket a status falls into is what an
// operator scans for.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Status buckets.
	StatusReady     lipgloss.Color // Ready: available for allocation.
	StatusActive    lipgloss.Color // Deployed, Allocated, Reserved, Rescue mode.
	StatusTransient lipgloss.Color // Deploying, Commissioning, and the other in-flight states.
	StatusFailed    lipgloss.Color // Failed anything, Broken, Missing.

	// UI chrome.
	HeaderForeground lipgloss.Color
	HelpText         lipgloss.Color
}

// StatusColor returns the color for a machine lifecycle status.
// Statuses outside the four buckets (New, Retired) render as FaintText.
func (theme Theme) StatusColor(status origin.MachineStatus) lipgloss.Color {
	if status.Transient() {
		return theme.StatusTransient
	}
	switch status {
	case origin.StatusReady:
		return theme.StatusReady
	case origin.StatusDeployed, origin.StatusAllocated, origin.StatusReserved, origin.StatusRescueMode:
		return theme.StatusActive
	case origin.StatusBroken, origin.StatusMissing,
		origin.StatusFailedCommissioning, origin.StatusFailedDeployment,
		origin.StatusFailedReleasing, origin.StatusFailedDiskErasing,
		origin.StatusFailedRescueMode, origin.StatusFailedExitingRescue,
		origin.StatusFailedTesting:
		return theme.StatusFailed
	default:
		return theme.FaintText
	}
}

// PowerColor returns the color for a power state string ("on", "off",
// anything else the region reports).
func (theme Theme) PowerColor(state string) lipgloss.Color {
	switch state {
	case "on":
		return theme.StatusReady
	case "error":
		return theme.StatusFailed
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed for
// 256-color terminals with a dark background (the common case for
// development environments and tmux sessions).
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusReady:     lipgloss.Color("114"), // green
	StatusActive:    lipgloss.Color("75"),  // blue
	StatusTransient: lipgloss.Color("220"), // yellow/amber
	StatusFailed:    lipgloss.Color("196"), // red

	HeaderForeground: lipgloss.Color("255"),
	HelpText:         lipgloss.Color("241"),
}
