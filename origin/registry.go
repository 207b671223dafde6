// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import "context"

// DefaultRegistry returns the stock blueprints for the fleet
// resources. Callers can [Registry.Add] over any of them to extend or
// replace a type before binding.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, bp := range []*Blueprint{
		machinesBlueprint(),
		machineBlueprint(),
		devicesBlueprint(),
		deviceBlueprint(),
		tagsBlueprint(),
		tagBlueprint(),
		usersBlueprint(),
		userBlueprint(),
		filesBlueprint(),
		fileBlueprint(),
		sshKeysBlueprint(),
		sshKeyBlueprint(),
		zonesBlueprint(),
		zoneBlueprint(),
		versionBlueprint(),
	} {
		if err := r.Add(bp); err != nil {
			// The stock blueprints are internally consistent; a failure
			// here is a programming error.
			panic(err)
		}
	}
	return r
}

// collectionRead lists a resource and wraps the result. The stock
// collection blueprints declare it because the synthesized read wraps
// singular records only.
func collectionRead() Method {
	return Method{
		Class: func(ctx context.Context, t *BoundType, params Params) (any, error) {
			action, err := t.action("read")
			if err != nil {
				return nil, err
			}
			result, err := action.Call(ctx, params)
			if err != nil {
				return nil, err
			}
			return t.wrapResult(result)
		},
	}
}
