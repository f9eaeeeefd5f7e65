// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package layerattr

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// KindNone is the `kind` reported to expressions for nodes without attributes.
const KindNone Kind = "none"

// ToCty projects attributes onto a cty object with an extra `kind` attribute.
// Nil attributes become an object holding only `kind = "none"`.
func ToCty(a Attributes) (cty.Value, error) {
	if a == nil {
		return cty.ObjectVal(map[string]cty.Value{"kind": cty.StringVal(string(KindNone))}), nil
	}

	raw := reflect.Indirect(reflect.ValueOf(a)).Interface()
	ty, err := gocty.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, fmt.Errorf("could not imply cty type for %s attributes: %w", a.Kind(), err)
	}
	val, err := gocty.ToCtyValue(raw, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("could not convert %s attributes: %w", a.Kind(), err)
	}

	fields := val.AsValueMap()
	if fields == nil {
		fields = make(map[string]cty.Value)
	}
	fields["kind"] = cty.StringVal(string(a.Kind()))
	return cty.ObjectVal(fields), nil
}
