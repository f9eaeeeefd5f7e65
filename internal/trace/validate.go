// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package trace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/tracegraph/internal/layerattr"
)

// ErrInvalidTrace is wrapped by every error Validate returns.
var ErrInvalidTrace = errors.New("invalid trace")

var validate = validator.New()

// Validate checks field constraints, node id uniqueness and edge endpoints.
// All problems are collected and reported together.
func Validate(t *Trace) error {
	if t == nil {
		return fmt.Errorf("%w: trace is nil", ErrInvalidTrace)
	}

	var errs []string
	if err := validate.Struct(t); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, fmt.Sprintf("%s: failed '%s' constraint (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	ids := make(map[int]struct{}, len(t.Nodes))
	for i, n := range t.Nodes {
		if n == nil {
			continue
		}
		if _, dup := ids[n.ID]; dup {
			errs = append(errs, fmt.Sprintf("node %d: id %d is not unique", i, n.ID))
		}
		ids[n.ID] = struct{}{}
		if err := layerattr.Validate(n.LayerAttributes); err != nil {
			errs = append(errs, fmt.Sprintf("node %d: %v", n.ID, err))
		}
	}

	for i, e := range t.Edges {
		if e == nil {
			continue
		}
		if _, ok := ids[e.From]; !ok {
			errs = append(errs, fmt.Sprintf("edge %d: source node %d does not exist", i, e.From))
		}
		if _, ok := ids[e.To]; !ok {
			errs = append(errs, fmt.Sprintf("edge %d: destination node %d does not exist", i, e.To))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: trace validation failed:\n- %s", ErrInvalidTrace, strings.Join(errs, "\n- "))
	}
	return nil
}
