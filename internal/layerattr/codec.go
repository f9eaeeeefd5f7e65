// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package layerattr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a document names an attribute kind this package does not know.
var ErrUnknownKind = errors.New("unknown layer attribute kind")

// Marshal encodes attributes as a kind-tagged JSON object. Nil attributes encode as `null`.
func Marshal(a Attributes) ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}

	body, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s attributes: %w", a.Kind(), err)
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to re-read %s attributes: %w", a.Kind(), err)
	}
	kind, _ := json.Marshal(a.Kind())
	fields["kind"] = kind

	return json.Marshal(fields)
}

// Unmarshal decodes a kind-tagged JSON object. `null` and empty input decode to nil.
func Unmarshal(data []byte) (Attributes, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var head struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(trimmed, &head); err != nil {
		return nil, fmt.Errorf("failed to read layer attribute kind: %w", err)
	}

	a := newOfKind(head.Kind)
	if a == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, head.Kind)
	}
	if err := json.Unmarshal(trimmed, a); err != nil {
		return nil, fmt.Errorf("failed to decode %s attributes: %w", head.Kind, err)
	}
	return a, nil
}

// Value wraps Attributes so they can be embedded in JSON documents.
type Value struct {
	Attributes
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return Marshal(v.Attributes)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	a, err := Unmarshal(data)
	if err != nil {
		return err
	}
	v.Attributes = a
	return nil
}
