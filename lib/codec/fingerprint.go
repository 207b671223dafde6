// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Fingerprint returns a stable hex digest of v: the BLAKE3-256 hash of
// its Core Deterministic Encoding. Two values that encode to the same
// logical data produce the same fingerprint regardless of map
// iteration order or the JSON formatting they were parsed from.
func Fingerprint(v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("codec: fingerprint encoding failed: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
