// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Digest returns the hex sha256 of the trace's JSON encoding. Equal traces
// decoded from either format share a digest.
func Digest(t *Trace) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("failed to encode trace for digest: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
