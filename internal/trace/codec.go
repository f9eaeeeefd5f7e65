// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package trace

import (
	"bytes"
	"encoding/json"

	"github.com/specialistvlad/tracegraph/internal/layerattr"
)

type plainNode Node

type nodeJSON struct {
	*plainNode
	LayerAttributes layerattr.Value `json:"layer_attributes"`
}

// MarshalJSON writes the layer attributes as a kind-tagged object.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{
		plainNode:       (*plainNode)(n),
		LayerAttributes: layerattr.Value{Attributes: n.LayerAttributes},
	})
}

// UnmarshalJSON reads a node including its kind-tagged layer attributes.
func (n *Node) UnmarshalJSON(data []byte) error {
	aux := nodeJSON{plainNode: (*plainNode)(n)}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&aux); err != nil {
		return err
	}
	n.LayerAttributes = aux.LayerAttributes.Attributes
	return nil
}
