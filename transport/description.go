// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quarry-project/quarry/lib/codec"
)

// Description is the region controller's self-describing API document.
// It is the sole input to session construction: everything a Session
// knows about available resources and actions comes from here.
type Description struct {
	// Doc is the human-readable summary the server publishes for the
	// API as a whole.
	Doc string `json:"doc"`
	// Hash is the server's own content hash of the document, when the
	// server provides one. Compare Fingerprint values instead when
	// detecting drift between two locally-held documents.
	Hash string `json:"hash"`
	// Resources lists every remote resource category.
	Resources []Resource `json:"resources"`
}

// Resource is one named resource category in the API document. Either
// handler description may be absent: some resources are only reachable
// anonymously, others only with credentials.
type Resource struct {
	Name string              `json:"name"`
	Anon *HandlerDescription `json:"anon"`
	Auth *HandlerDescription `json:"auth"`
}

// HandlerDescription describes the server-side handler for one resource:
// its URI template, the parameters interpolated into it, and the actions
// it accepts.
type HandlerDescription struct {
	Name string `json:"name"`
	Doc  string `json:"doc"`
	// URI is the handler's absolute URI template. Segments of the form
	// {name} are replaced with call parameters named in Params.
	URI string `json:"uri"`
	// Path is the path component of URI.
	Path string `json:"path"`
	// Params names the URI template parameters. Every call through this
	// handler must supply exactly these.
	Params  []string            `json:"params"`
	Actions []ActionDescription `json:"actions"`
}

// ActionDescription describes one operation on a handler.
type ActionDescription struct {
	Name   string `json:"name"`
	Doc    string `json:"doc"`
	Method string `json:"method"`
	// Op names the operation for non-restful actions and is sent as the
	// "op" query parameter. Restful actions leave it empty.
	Op string `json:"op"`
	// Restful marks the four canonical create/read/update/delete
	// actions, which are invoked without an explicit operation.
	Restful bool `json:"restful"`
	// Params names the parameters this action accepts. When the server
	// omits it, the handler's URI parameters apply.
	Params []string `json:"params"`
}

// ParseDescription decodes an API description document. The document
// must declare at least one resource; an empty document almost always
// means the URL pointed somewhere other than a describe endpoint.
func ParseDescription(data []byte) (*Description, error) {
	var description Description
	if err := json.Unmarshal(data, &description); err != nil {
		return nil, fmt.Errorf("transport: parsing API description: %w", err)
	}
	if len(description.Resources) == 0 {
		return nil, fmt.Errorf("transport: API description declares no resources")
	}
	for index, resource := range description.Resources {
		if resource.Name == "" {
			return nil, fmt.Errorf("transport: API description resource %d has no name", index)
		}
	}
	return &description, nil
}

// Fingerprint returns a stable hex digest of the description. Two
// documents that differ only in JSON key order fingerprint identically,
// so a changed fingerprint means the server's API surface changed.
func (d *Description) Fingerprint() (string, error) {
	fingerprint, err := codec.Fingerprint(d)
	if err != nil {
		return "", fmt.Errorf("transport: fingerprinting API description: %w", err)
	}
	return fingerprint, nil
}

// DeriveResourceName converts a server-side handler name into the
// stable resource name sessions and origins expose. The server names
// handlers like "MachinesHandler" or "AnonMachinesHandler"; both map
// to "Machines".
func DeriveResourceName(handlerName string) string {
	name := strings.TrimPrefix(handlerName, "Anon")
	return strings.TrimSuffix(name, "Handler")
}
