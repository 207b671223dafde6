// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import "fmt"

// MachineStatus is the lifecycle state the region reports for a node.
// The numeric values are fixed by the server's API.
type MachineStatus int

const (
	StatusNew                 MachineStatus = 0
	StatusCommissioning       MachineStatus = 1
	StatusFailedCommissioning MachineStatus = 2
	StatusMissing             MachineStatus = 3
	StatusReady               MachineStatus = 4
	StatusReserved            MachineStatus = 5
	StatusDeployed            MachineStatus = 6
	StatusRetired             MachineStatus = 7
	StatusBroken              MachineStatus = 8
	StatusDeploying           MachineStatus = 9
	StatusAllocated           MachineStatus = 10
	StatusFailedDeployment    MachineStatus = 11
	StatusReleasing           MachineStatus = 12
	StatusFailedReleasing     MachineStatus = 13
	StatusDiskErasing         MachineStatus = 14
	StatusFailedDiskErasing   MachineStatus = 15
	StatusRescueMode          MachineStatus = 16
	StatusEnteringRescueMode  MachineStatus = 17
	StatusFailedRescueMode    MachineStatus = 18
	StatusExitingRescueMode   MachineStatus = 19
	StatusFailedExitingRescue MachineStatus = 20
	StatusTesting             MachineStatus = 21
	StatusFailedTesting       MachineStatus = 22
)

var statusNames = map[MachineStatus]string{
	StatusNew:                 "New",
	StatusCommissioning:       "Commissioning",
	StatusFailedCommissioning: "Failed commissioning",
	StatusMissing:             "Missing",
	StatusReady:               "Ready",
	StatusReserved:            "Reserved",
	StatusDeployed:            "Deployed",
	StatusRetired:             "Retired",
	StatusBroken:              "Broken",
	StatusDeploying:           "Deploying",
	StatusAllocated:           "Allocated",
	StatusFailedDeployment:    "Failed deployment",
	StatusReleasing:           "Releasing",
	StatusFailedReleasing:     "Failed releasing",
	StatusDiskErasing:         "Disk erasing",
	StatusFailedDiskErasing:   "Failed disk erasing",
	StatusRescueMode:          "Rescue mode",
	StatusEnteringRescueMode:  "Entering rescue mode",
	StatusFailedRescueMode:    "Failed to enter rescue mode",
	StatusExitingRescueMode:   "Exiting rescue mode",
	StatusFailedExitingRescue: "Failed to exit rescue mode",
	StatusTesting:             "Testing",
	StatusFailedTesting:       "Failed testing",
}

func (s MachineStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("MachineStatus(%d)", int(s))
}

// Transient reports whether the status is one the machine moves out of
// on its own, the states a wait loop polls through.
func (s MachineStatus) Transient() bool {
	switch s {
	case StatusCommissioning, StatusTesting, StatusDeploying,
		StatusReleasing, StatusDiskErasing,
		StatusEnteringRescueMode, StatusExitingRescueMode:
		return true
	}
	return false
}

// StatusConverter reads the numeric status datum the region sends.
func StatusConverter() Converter[MachineStatus] {
	ints := IntConverter()
	return Converter[MachineStatus]{
		Forward: func(datum any) (MachineStatus, error) {
			n, err := ints.Forward(datum)
			if err != nil {
				return 0, err
			}
			return MachineStatus(n), nil
		},
		Backward: func(value MachineStatus) (any, error) {
			return int(value), nil
		},
	}
}
