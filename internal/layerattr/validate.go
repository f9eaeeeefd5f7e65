// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package layerattr

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the field constraints of the concrete attribute type.
// Nil attributes are valid.
func Validate(a Attributes) error {
	if a == nil {
		return nil
	}
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("invalid %s attributes: %w", a.Kind(), err)
	}
	return nil
}
