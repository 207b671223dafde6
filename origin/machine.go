// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import (
	"context"
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/quarry-project/quarry/lib/clock"
	"github.com/quarry-project/quarry/lib/retrier"
)

func machinesBlueprint() *Blueprint {
	return &Blueprint{
		Name: "Machines",
		Kind: KindCollection,
		Methods: map[string]Method{
			"read": collectionRead(),
		},
	}
}

func machineBlueprint() *Blueprint {
	return &Blueprint{
		Name: "Machine",
		Kind: KindObject,
		Base: nodeBase(),
		Fields: []*Field{
			MustTypedField(FieldSpec{Key: "architecture", Default: ""}, OptionalStringConverter()).Field,
			MustTypedField(FieldSpec{Key: "cpu_count", Name: "cpus", Default: 0}, IntConverter()).Field,
			MustTypedField(FieldSpec{Key: "memory", Default: 0}, IntConverter()).Field,
			MustTypedField(FieldSpec{Key: "distro_series", Default: ""}, OptionalStringConverter()).Field,
			MustTypedField(FieldSpec{Key: "hwe_kernel", Default: ""}, OptionalStringConverter()).Field,
			MustTypedField(FieldSpec{Key: "osystem", Default: ""}, OptionalStringConverter()).Field,
			MustTypedField(FieldSpec{Key: "power_state", ReadOnly: true, Default: "unknown"}, StringConverter()).Field,
			MustTypedField(FieldSpec{Key: "status", ReadOnly: true}, StatusConverter()).Field,
			MustTypedField(FieldSpec{Key: "status_name", ReadOnly: true, Default: ""}, StringConverter()).Field,
			MustTypedField(FieldSpec{Key: "status_message", ReadOnly: true, Default: ""}, OptionalStringConverter()).Field,
		},
	}
}

// MachinesAPI is the typed entry point for the machine fleet.
type MachinesAPI struct {
	origin *Origin
	clk    clock.Clock
}

// List returns every machine visible to the session.
func (api *MachinesAPI) List(ctx context.Context) ([]*Machine, error) {
	machines, err := api.origin.resource("Machines")
	if err != nil {
		return nil, err
	}
	result, err := machines.Call(ctx, "read", nil)
	if err != nil {
		return nil, err
	}
	collection, ok := result.(*Collection)
	if !ok {
		return nil, &InvalidRecordError{Type: "Machines", Value: result}
	}
	out := make([]*Machine, 0, collection.Len())
	for obj := range collection.All() {
		out = append(out, &Machine{obj: obj, clk: api.clk})
	}
	return out, nil
}

// Get reads one machine by system ID.
func (api *MachinesAPI) Get(ctx context.Context, systemID string) (*Machine, error) {
	machine, err := api.origin.resource("Machine")
	if err != nil {
		return nil, err
	}
	result, err := machine.Call(ctx, "read", Params{"system_id": systemID})
	if err != nil {
		return nil, err
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, &InvalidRecordError{Type: "Machine", Value: result}
	}
	return &Machine{obj: obj, clk: api.clk}, nil
}

// AllocateArgs constrain which machine the region picks. Zero values
// mean "no constraint". A tag prefixed with "-" excludes machines
// carrying it.
type AllocateArgs struct {
	Hostname     string
	Architecture string
	MinCPUs      int
	MinMemory    int // megabytes
	Tags         []string
	Zone         string
}

// Allocate asks the region for a machine matching args and takes
// ownership of it. When nothing matches, the error is a
// [NotFoundError] rather than a transport failure.
func (api *MachinesAPI) Allocate(ctx context.Context, args AllocateArgs) (*Machine, error) {
	machines, err := api.origin.resource("Machines")
	if err != nil {
		return nil, err
	}
	params := Params{}
	if args.Hostname != "" {
		params["name"] = args.Hostname
	}
	if args.Architecture != "" {
		params["architecture"] = args.Architecture
	}
	if args.MinCPUs > 0 {
		params["cpu_count"] = args.MinCPUs
	}
	if args.MinMemory > 0 {
		params["mem"] = args.MinMemory
	}
	if args.Zone != "" {
		params["zone"] = args.Zone
	}
	if len(args.Tags) > 0 {
		var want, exclude []string
		for _, tag := range args.Tags {
			if negated, ok := strings.CutPrefix(tag, "-"); ok {
				exclude = append(exclude, negated)
			} else {
				want = append(want, tag)
			}
		}
		if len(want) > 0 {
			params["tags"] = want
		}
		if len(exclude) > 0 {
			params["not_tags"] = exclude
		}
	}
	result, err := machines.Call(ctx, "allocate", params)
	if err != nil {
		return nil, err
	}
	obj, err := machines.wrapSingular(result)
	if err != nil {
		return nil, err
	}
	return &Machine{obj: obj, clk: api.clk}, nil
}

// CreateMachineArgs describe a machine to enlist.
type CreateMachineArgs struct {
	Architecture    string
	MACAddresses    []string
	PowerType       string
	PowerParameters map[string]any
	Subarchitecture string
	MinHWEKernel    string
	Hostname        string
	Domain          string
}

// Create enlists a new machine with the region.
func (api *MachinesAPI) Create(ctx context.Context, args CreateMachineArgs) (*Machine, error) {
	machines, err := api.origin.resource("Machines")
	if err != nil {
		return nil, err
	}
	params := Params{
		"architecture":  args.Architecture,
		"mac_addresses": args.MACAddresses,
		"power_type":    args.PowerType,
	}
	if args.PowerParameters != nil {
		params["power_parameters"] = args.PowerParameters
	}
	if args.Subarchitecture != "" {
		params["subarchitecture"] = args.Subarchitecture
	}
	if args.MinHWEKernel != "" {
		params["min_hwe_kernel"] = args.MinHWEKernel
	}
	if args.Hostname != "" {
		params["hostname"] = args.Hostname
	}
	if args.Domain != "" {
		params["domain"] = args.Domain
	}
	result, err := machines.Call(ctx, "create", params)
	if err != nil {
		return nil, err
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, &InvalidRecordError{Type: "Machine", Value: result}
	}
	return &Machine{obj: obj, clk: api.clk}, nil
}

// Machine is the typed view over one machine object. Getters read
// through the declared fields and return the zero value when the
// record lacks a datum; [Machine.Object] is the checked path.
type Machine struct {
	obj *Object
	clk clock.Clock
}

// Object returns the underlying object.
func (m *Machine) Object() *Object { return m.obj }

func (m *Machine) SystemID() string      { return stringField(m.obj, "system_id") }
func (m *Machine) Hostname() string      { return stringField(m.obj, "hostname") }
func (m *Machine) FQDN() string          { return stringField(m.obj, "fqdn") }
func (m *Machine) Architecture() string  { return stringField(m.obj, "architecture") }
func (m *Machine) CPUs() int             { return intField(m.obj, "cpus") }
func (m *Machine) Memory() int           { return intField(m.obj, "memory") }
func (m *Machine) DistroSeries() string  { return stringField(m.obj, "distro_series") }
func (m *Machine) OS() string            { return stringField(m.obj, "osystem") }
func (m *Machine) PowerState() string    { return stringField(m.obj, "power_state") }
func (m *Machine) StatusName() string    { return stringField(m.obj, "status_name") }
func (m *Machine) StatusMessage() string { return stringField(m.obj, "status_message") }
func (m *Machine) IPAddresses() []string { return stringsField(m.obj, "ip_addresses") }
func (m *Machine) Tags() []string        { return stringsField(m.obj, "tags") }
func (m *Machine) Owner() string         { return stringField(m.obj, "owner") }
func (m *Machine) Zone() string          { return zoneName(m.obj) }

// Status returns the machine's lifecycle state, or StatusNew when the
// record carries none.
func (m *Machine) Status() MachineStatus {
	status, err := m.status()
	if err != nil {
		return StatusNew
	}
	return status
}

func (m *Machine) status() (MachineStatus, error) {
	value, err := m.obj.Get("status")
	if err != nil {
		return 0, err
	}
	return value.(MachineStatus), nil
}

func (m *Machine) String() string {
	return fmt.Sprintf("machine %s (%s)", m.SystemID(), m.Hostname())
}

// Refresh re-reads the machine's record from the region.
func (m *Machine) Refresh(ctx context.Context) error {
	result, err := m.obj.typ.Call(ctx, "read", Params{"system_id": m.SystemID()})
	if err != nil {
		return err
	}
	fresh, ok := result.(*Object)
	if !ok {
		return &InvalidRecordError{Type: m.obj.TypeName(), Value: result}
	}
	m.obj.data = fresh.data
	return nil
}

// Update pushes the machine's record with changes laid on top and
// adopts the region's reply.
func (m *Machine) Update(ctx context.Context, changes Params) error {
	_, err := m.obj.Call(ctx, "update", changes)
	return err
}

// Delete removes the machine from the region.
func (m *Machine) Delete(ctx context.Context) error {
	_, err := m.obj.Call(ctx, "delete", nil)
	return err
}

// waitDefaults fills the common wait knobs.
func waitDefaults(interval, timeout time.Duration) (time.Duration, time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return interval, timeout
}

// DeployArgs configure a deployment.
type DeployArgs struct {
	// UserData is raw cloud-init data; it is base64-encoded on the way
	// out.
	UserData     []byte
	DistroSeries string
	HWEKernel    string
	Comment      string

	// Wait blocks until the machine leaves the deploying state.
	// WaitInterval (default 5s) is the poll spacing, WaitTimeout
	// (default 30m) bounds the whole wait.
	Wait         bool
	WaitInterval time.Duration
	WaitTimeout  time.Duration
}

// Deploy installs an operating system on the machine. With args.Wait
// set it polls until the deployment settles, returning
// [OperationFailedError] if the machine lands in a failed state and
// [WaitTimeoutError] if it is still deploying when the window closes.
func (m *Machine) Deploy(ctx context.Context, args DeployArgs) error {
	params := Params{}
	if len(args.UserData) > 0 {
		params["user_data"] = base64.StdEncoding.EncodeToString(args.UserData)
	}
	if args.DistroSeries != "" {
		params["distro_series"] = args.DistroSeries
	}
	if args.HWEKernel != "" {
		params["hwe_kernel"] = args.HWEKernel
	}
	if args.Comment != "" {
		params["comment"] = args.Comment
	}
	if err := m.operate(ctx, "deploy", params); err != nil {
		return err
	}
	if !args.Wait {
		return nil
	}
	return m.waitWhile(ctx, "deploy", args.WaitInterval, args.WaitTimeout,
		[]MachineStatus{StatusDeploying},
		[]MachineStatus{StatusFailedDeployment})
}

// ReleaseArgs configure a release.
type ReleaseArgs struct {
	Comment      string
	Erase        bool
	Wait         bool
	WaitInterval time.Duration
	WaitTimeout  time.Duration
}

// Release returns the machine to the pool. With args.Wait set it polls
// through the releasing and disk-erasing states.
func (m *Machine) Release(ctx context.Context, args ReleaseArgs) error {
	params := Params{}
	if args.Comment != "" {
		params["comment"] = args.Comment
	}
	if args.Erase {
		params["erase"] = true
	}
	if err := m.operate(ctx, "release", params); err != nil {
		return err
	}
	if !args.Wait {
		return nil
	}
	return m.waitWhile(ctx, "release", args.WaitInterval, args.WaitTimeout,
		[]MachineStatus{StatusReleasing, StatusDiskErasing},
		[]MachineStatus{StatusFailedReleasing, StatusFailedDiskErasing})
}

// CommissionArgs configure commissioning.
type CommissionArgs struct {
	EnableSSH      bool
	SkipNetworking bool
	SkipStorage    bool
	Wait           bool
	WaitInterval   time.Duration
	WaitTimeout    time.Duration
}

// Commission runs the commissioning scripts on the machine. With
// args.Wait set it polls through the commissioning and testing states.
func (m *Machine) Commission(ctx context.Context, args CommissionArgs) error {
	params := Params{}
	if args.EnableSSH {
		params["enable_ssh"] = true
	}
	if args.SkipNetworking {
		params["skip_networking"] = true
	}
	if args.SkipStorage {
		params["skip_storage"] = true
	}
	if err := m.operate(ctx, "commission", params); err != nil {
		return err
	}
	if !args.Wait {
		return nil
	}
	return m.waitWhile(ctx, "commission", args.WaitInterval, args.WaitTimeout,
		[]MachineStatus{StatusCommissioning, StatusTesting},
		[]MachineStatus{StatusFailedCommissioning, StatusFailedTesting})
}

// PowerOn asks the region to power the machine up through its BMC.
// The record is adopted from the reply; poll PowerState afterwards to
// observe the transition.
func (m *Machine) PowerOn(ctx context.Context, comment string) error {
	params := Params{}
	if comment != "" {
		params["comment"] = comment
	}
	return m.operate(ctx, "power_on", params)
}

// PowerOff asks the region to power the machine down. A hard stop
// cuts power without signalling the OS first.
func (m *Machine) PowerOff(ctx context.Context, hard bool) error {
	params := Params{}
	if hard {
		params["stop_mode"] = "hard"
	}
	return m.operate(ctx, "power_off", params)
}

// MarkBroken takes the machine out of service. Allocation skips broken
// machines until MarkFixed returns them.
func (m *Machine) MarkBroken(ctx context.Context, comment string) error {
	params := Params{}
	if comment != "" {
		params["comment"] = comment
	}
	return m.operate(ctx, "mark_broken", params)
}

// MarkFixed returns a broken machine to service.
func (m *Machine) MarkFixed(ctx context.Context, comment string) error {
	params := Params{}
	if comment != "" {
		params["comment"] = comment
	}
	return m.operate(ctx, "mark_fixed", params)
}

// operate invokes an instance-level action and adopts the returned
// record as the machine's new state.
func (m *Machine) operate(ctx context.Context, name string, params Params) error {
	result, err := m.obj.Call(ctx, name, params)
	if err != nil {
		return err
	}
	record, ok := result.(map[string]any)
	if !ok {
		return &InvalidRecordError{Type: m.obj.TypeName(), Value: result}
	}
	m.obj.data = record
	return nil
}

// waitWhile polls the machine while its status is in transient,
// refreshing between ticks. It stops as soon as the status leaves the
// transient set, reporting failure when the landing state is in failed.
func (m *Machine) waitWhile(ctx context.Context, op string, interval, timeout time.Duration, transient, failed []MachineStatus) error {
	interval, timeout = waitDefaults(interval, timeout)
	first := true
	for tick := range retrier.Ticks(ctx, m.clk, timeout, retrier.Fixed(interval)) {
		if !first {
			if err := m.Refresh(ctx); err != nil {
				return err
			}
		}
		first = false
		status, err := m.status()
		if err != nil {
			return err
		}
		if !slices.Contains(transient, status) {
			if slices.Contains(failed, status) {
				return &OperationFailedError{SystemID: m.SystemID(), Op: op, Status: status}
			}
			return nil
		}
		if tick.Wait == 0 {
			return &WaitTimeoutError{SystemID: m.SystemID(), Op: op, Status: status, Elapsed: tick.Elapsed}
		}
	}
	// The tick sequence only ends without a verdict when the pause was
	// cancelled.
	return ctx.Err()
}

// OperationFailedError reports a machine that settled in a failed
// state while an operation's wait loop was watching.
type OperationFailedError struct {
	SystemID string
	Op       string
	Status   MachineStatus
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("origin: machine %s: %s failed (%s)", e.SystemID, e.Op, e.Status)
}

// WaitTimeoutError reports a wait loop that ran out its window while
// the machine was still in a transient state.
type WaitTimeoutError struct {
	SystemID string
	Op       string
	Status   MachineStatus
	Elapsed  time.Duration
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("origin: machine %s: still %s after %s waiting for %s", e.SystemID, e.Status, e.Elapsed, e.Op)
}
