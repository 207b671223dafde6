// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import (
	"context"

	"github.com/quarry-project/quarry/lib/clock"
	"github.com/quarry-project/quarry/transport"
)

// Client bundles the typed resource APIs over one bound origin. It is
// the surface most applications use; the origin underneath stays
// reachable for dynamic access to resources the typed layer does not
// cover.
type Client struct {
	origin      *Origin
	clk         clock.Clock
	credentials *transport.Credentials

	Machines *MachinesAPI
	Devices  *DevicesAPI
	Tags     *TagsAPI
	Users    *UsersAPI
	Files    *FilesAPI
	SSHKeys  *SSHKeysAPI
	Zones    *ZonesAPI
}

// NewClient wraps an already-bound origin.
func NewClient(origin *Origin) *Client {
	return newClient(origin, clock.Real())
}

func newClient(origin *Origin, clk clock.Clock) *Client {
	c := &Client{origin: origin, clk: clk}
	c.Machines = &MachinesAPI{origin: origin, clk: clk}
	c.Devices = &DevicesAPI{origin: origin}
	c.Tags = &TagsAPI{origin: origin}
	c.Users = &UsersAPI{origin: origin}
	c.Files = &FilesAPI{origin: origin}
	c.SSHKeys = &SSHKeysAPI{origin: origin}
	c.Zones = &ZonesAPI{origin: origin}
	return c
}

// Origin returns the bound origin underneath the client.
func (c *Client) Origin() *Origin { return c.origin }

// Close releases the credential material the client was connected
// with. Safe on a client built over a pre-existing session.
func (c *Client) Close() error {
	return c.credentials.Close()
}

// Version reads the region controller's version document.
func (c *Client) Version(ctx context.Context) (*Version, error) {
	return readVersion(ctx, c.origin)
}
